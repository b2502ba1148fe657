package services

import (
	"context"
	"log/slog"

	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
)

type HistoryClearer interface {
	Clear(userID int64) (wasEmpty bool)
}

type chatService struct {
	clearer            HistoryClearer
	messenger          Messenger
	maxHistoryMessages int
}

func NewChatService(
	clearer HistoryClearer,
	messenger Messenger,
	maxHistoryMessages int,
) *chatService {
	return &chatService{
		clearer:            clearer,
		messenger:          messenger,
		maxHistoryMessages: maxHistoryMessages,
	}
}

func (c *chatService) SendGreeting(ctx context.Context, msg domain.IncomingMessage) {
	c.reply(ctx, msg, domain.WelcomeText)
}

func (c *chatService) SendHelp(ctx context.Context, msg domain.IncomingMessage) {
	c.reply(ctx, msg, domain.HelpText(c.maxHistoryMessages))
}

func (c *chatService) ClearHistory(ctx context.Context, msg domain.IncomingMessage) {
	if c.clearer.Clear(msg.UserID) {
		slog.InfoContext(ctx, "History already empty")
		c.reply(ctx, msg, domain.HistoryEmptyText)
		return
	}

	slog.InfoContext(ctx, "History cleared")
	c.reply(ctx, msg, domain.HistoryClearedText)
}

func (c *chatService) reply(ctx context.Context, msg domain.IncomingMessage, text string) {
	c.messenger.SendResponse(ctx, &domain.Response{
		ChatID:           msg.ChatID,
		ReplyToMessageID: msg.MessageID,
		Text:             text,
		Plain:            true,
	})
}
