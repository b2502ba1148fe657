package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
)

type TextService interface {
	HandleQuestion(ctx context.Context, msg domain.IncomingMessage)
}

type ChatService interface {
	SendGreeting(ctx context.Context, msg domain.IncomingMessage)
	SendHelp(ctx context.Context, msg domain.IncomingMessage)
	ClearHistory(ctx context.Context, msg domain.IncomingMessage)
}

type handler struct {
	textService TextService
	chatService ChatService
}

func NewHandler(
	textService TextService,
	chatService ChatService,
) *handler {
	return &handler{
		textService: textService,
		chatService: chatService,
	}
}

func (h *handler) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || msg.Text == "" {
		slog.DebugContext(ctx, "Ignoring update without text")
		return
	}

	in := domain.IncomingMessage{
		UpdateID:  update.UpdateID,
		MessageID: msg.MessageID,
		ChatID:    msg.Chat.ID,
		UserID:    msg.From.ID,
		Text:      msg.Text,
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			h.chatService.SendGreeting(ctx, in)
			return
		case "help":
			h.chatService.SendHelp(ctx, in)
			return
		case "clear":
			h.chatService.ClearHistory(ctx, in)
			return
		default:
			slog.InfoContext(ctx, "Unknown command, answering as a question", "cmd", msg.Command())
		}
	}

	h.textService.HandleQuestion(ctx, in)
}
