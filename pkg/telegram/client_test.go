package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
)

type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	reject   func(c tgbotapi.Chattable) bool
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if f.reject != nil && f.reject(c) {
		return tgbotapi.Message{}, errors.New("Bad Request")
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestSendResponseText(t *testing.T) {
	bot := &fakeSender{}
	c := &client{bot: bot}

	c.SendResponse(context.Background(), &domain.Response{ChatID: 1, ReplyToMessageID: 42, Text: "**Привет**"})

	require.Len(t, bot.sent, 1)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(1), msg.ChatID)
	assert.Equal(t, 42, msg.ReplyToMessageID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Equal(t, "<b>Привет</b>", msg.Text)
}

func TestSendResponseFallsBackToPlainText(t *testing.T) {
	bot := &fakeSender{reject: func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ParseMode == tgbotapi.ModeHTML
	}}
	c := &client{bot: bot}

	c.SendResponse(context.Background(), &domain.Response{ChatID: 1, ReplyToMessageID: 42, Text: "**Привет**"})

	require.Len(t, bot.sent, 2)
	plain := bot.sent[1].(tgbotapi.MessageConfig)
	assert.Empty(t, plain.ParseMode)
	assert.Equal(t, "**Привет**", plain.Text)
	assert.Equal(t, 42, plain.ReplyToMessageID)
}

func TestSendResponseNotifiesWhenUndeliverable(t *testing.T) {
	bot := &fakeSender{reject: func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.Text != domain.DeliveryFailedText
	}}
	c := &client{bot: bot}

	c.SendResponse(context.Background(), &domain.Response{ChatID: 1, Text: "answer"})

	require.Len(t, bot.sent, 3)
	assert.Equal(t, domain.DeliveryFailedText, bot.sent[2].(tgbotapi.MessageConfig).Text)
}

func TestSendResponsePhoto(t *testing.T) {
	bot := &fakeSender{}
	c := &client{bot: bot}

	c.SendResponse(context.Background(), &domain.Response{
		ChatID:           1,
		ReplyToMessageID: 42,
		Text:             "full *answer*",
		Image:            &domain.Image{Data: []byte("png"), Caption: "caption *as is*"},
	})

	require.Len(t, bot.sent, 1)
	photo, ok := bot.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, int64(1), photo.ChatID)
	assert.Equal(t, "caption *as is*", photo.Caption)
	assert.Empty(t, photo.ParseMode)
	assert.Zero(t, photo.ReplyToMessageID)
	assert.Equal(t, tgbotapi.FileBytes{Name: "image.png", Bytes: []byte("png")}, photo.File)
}

func TestSendResponseRejectedPhotoDeliversFullAnswer(t *testing.T) {
	bot := &fakeSender{reject: func(c tgbotapi.Chattable) bool {
		photo, ok := c.(tgbotapi.PhotoConfig)
		return ok && utf8.RuneCountInString(photo.Caption) > domain.MaxCaptionLength
	}}
	c := &client{bot: bot}

	answer := strings.Repeat("ж", 1100)
	c.SendResponse(context.Background(), &domain.Response{
		ChatID:           1,
		ReplyToMessageID: 42,
		Text:             answer,
		Image: &domain.Image{
			Data:    []byte("png"),
			Caption: strings.Repeat("ж", domain.MaxCaptionLength) + domain.CaptionTruncatedMarker,
		},
	})

	require.Len(t, bot.sent, 2)
	msg, ok := bot.sent[1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, answer, msg.Text)
	assert.NotContains(t, msg.Text, domain.CaptionTruncatedMarker)
	assert.Equal(t, 42, msg.ReplyToMessageID)
}

func TestSendResponsePlainSkipsRendering(t *testing.T) {
	bot := &fakeSender{}
	c := &client{bot: bot}

	text := "/start - Начать работу с ботом\n*не жирный* <текст>"
	c.SendResponse(context.Background(), &domain.Response{ChatID: 1, ReplyToMessageID: 3, Text: text, Plain: true})

	require.Len(t, bot.sent, 1)
	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, text, msg.Text)
	assert.Empty(t, msg.ParseMode)
	assert.Equal(t, 3, msg.ReplyToMessageID)
}

func TestSendResponseSplitsLongText(t *testing.T) {
	bot := &fakeSender{}
	c := &client{bot: bot}

	line := strings.Repeat("a", 99) + "\n"
	c.SendResponse(context.Background(), &domain.Response{ChatID: 1, ReplyToMessageID: 7, Text: strings.Repeat(line, 50)})

	require.Len(t, bot.sent, 2)
	assert.Equal(t, 7, bot.sent[0].(tgbotapi.MessageConfig).ReplyToMessageID)
	assert.Equal(t, 0, bot.sent[1].(tgbotapi.MessageConfig).ReplyToMessageID)
}

func TestSendChatAction(t *testing.T) {
	bot := &fakeSender{}
	c := &client{bot: bot}

	c.SendChatAction(context.Background(), 5, domain.ChatActionUploadPhoto)

	require.Len(t, bot.requests, 1)
	assert.Equal(t, tgbotapi.NewChatAction(5, tgbotapi.ChatUploadPhoto), bot.requests[0])
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"short"}, split("short", 10))

	parts := split("aaaa\nbbbb\ncccc", 10)
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, parts)

	parts = split(strings.Repeat("я", 25), 10)
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), 10)
	}
	assert.Equal(t, strings.Repeat("я", 25), strings.Join(parts, ""))
}
