package services

import (
	"context"

	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
)

type Messenger interface {
	SendResponse(ctx context.Context, response *domain.Response)
	SendChatAction(ctx context.Context, chatID int64, action domain.ChatAction)
}
