package services

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
	"github.com/dskvich/gigachat-telegram-bot/pkg/logger"
)

type AnswerGenerator interface {
	Complete(ctx context.Context, question string, history []domain.Message) string
}

type ImagePromptGenerator interface {
	DerivePrompt(ctx context.Context, question string, history []domain.Message) (string, bool)
}

type ImageRenderer interface {
	Enabled() bool
	Render(ctx context.Context, prompt string) []byte
}

type ConversationRepository interface {
	Lock(userID int64) (unlock func())
	Context(userID int64) []domain.Message
	Record(userID int64, question, answer string)
}

type textService struct {
	answers       AnswerGenerator
	imagePrompts  ImagePromptGenerator
	images        ImageRenderer
	conversations ConversationRepository
	messenger     Messenger
}

func NewTextService(
	answers AnswerGenerator,
	imagePrompts ImagePromptGenerator,
	images ImageRenderer,
	conversations ConversationRepository,
	messenger Messenger,
) *textService {
	return &textService{
		answers:       answers,
		imagePrompts:  imagePrompts,
		images:        images,
		conversations: conversations,
		messenger:     messenger,
	}
}

// HandleQuestion runs one turn: answer, optional illustration, history update, reply.
func (t *textService) HandleQuestion(ctx context.Context, msg domain.IncomingMessage) {
	question := msg.Text

	if length := utf8.RuneCountInString(question); length > domain.MaxQuestionLength {
		slog.WarnContext(ctx, "Question rejected", "length", length, logger.Err(domain.ErrInputTooLong))
		t.messenger.SendResponse(ctx, &domain.Response{
			ChatID:           msg.ChatID,
			ReplyToMessageID: msg.MessageID,
			Text:             domain.QuestionTooLongText(length),
			Plain:            true,
		})
		return
	}

	t.messenger.SendChatAction(ctx, msg.ChatID, domain.ChatActionTyping)

	unlock := t.conversations.Lock(msg.UserID)
	defer unlock()

	history := t.conversations.Context(msg.UserID)

	slog.InfoContext(ctx, "Generating answer", "historySize", len(history))

	answer := t.answers.Complete(ctx, question, history)

	var image []byte
	if t.images.Enabled() {
		t.messenger.SendChatAction(ctx, msg.ChatID, domain.ChatActionTyping)

		if prompt, ok := t.imagePrompts.DerivePrompt(ctx, question, history); ok {
			t.messenger.SendChatAction(ctx, msg.ChatID, domain.ChatActionUploadPhoto)
			image = t.images.Render(ctx, prompt)
		}
	}

	t.conversations.Record(msg.UserID, question, answer)

	response := &domain.Response{
		ChatID:           msg.ChatID,
		ReplyToMessageID: msg.MessageID,
		Text:             answer,
		Plain:            domain.IsDegradedAnswer(answer),
	}
	if image != nil {
		response.Image = &domain.Image{Data: image, Caption: caption(answer)}
	}

	t.messenger.SendResponse(ctx, response)
}

func caption(answer string) string {
	runes := []rune(answer)
	if len(runes) <= domain.MaxCaptionLength {
		return answer
	}
	return string(runes[:domain.MaxCaptionLength]) + domain.CaptionTruncatedMarker
}
