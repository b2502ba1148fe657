package workers

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
	"github.com/dskvich/gigachat-telegram-bot/pkg/logger"
)

type Handler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

type Authenticator interface {
	IsAuthorized(userID int64) bool
}

type TelegramClient interface {
	GetUpdates() tgbotapi.UpdatesChannel
	SendResponse(ctx context.Context, response *domain.Response)
}

type telegramUpdateListener struct {
	client        TelegramClient
	authenticator Authenticator
	handler       Handler
	pool          chan struct{}
	wg            sync.WaitGroup
}

func NewTelegramUpdateListener(
	client TelegramClient,
	authenticator Authenticator,
	handler Handler,
	poolSize int,
) *telegramUpdateListener {
	if poolSize <= 0 {
		poolSize = 1
	}

	return &telegramUpdateListener{
		client:        client,
		authenticator: authenticator,
		handler:       handler,
		pool:          make(chan struct{}, poolSize),
	}
}

func (t *telegramUpdateListener) Name() string { return "telegram_listener_worker" }

func (t *telegramUpdateListener) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", t.Name(), "poolSize", cap(t.pool))
	defer slog.Info("Worker stopped", "name", t.Name())

	updates := t.client.GetUpdates()

	for {
		select {
		case <-ctx.Done():
			t.wg.Wait()
			return nil
		case update, ok := <-updates:
			if !ok {
				t.wg.Wait()
				return nil
			}

			select {
			case t.pool <- struct{}{}:
			case <-ctx.Done():
				t.wg.Wait()
				return nil
			}

			t.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer func() {
					<-t.pool
					t.wg.Done()
				}()
				// In-flight turns finish even after shutdown starts.
				t.processUpdate(context.WithoutCancel(ctx), &update)
			}(update)
		}
	}
}

func (t *telegramUpdateListener) processUpdate(ctx context.Context, update *tgbotapi.Update) {
	ctx = logger.ContextWithRequestID(ctx, int64(update.UpdateID))

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		slog.DebugContext(ctx, "Skipping unsupported update type")
		return
	}

	ctx = logger.ContextWithUserID(ctx, msg.From.ID)

	slog.InfoContext(ctx, "Processing update", "chatID", msg.Chat.ID)

	if !t.authenticator.IsAuthorized(msg.From.ID) {
		slog.WarnContext(ctx, "Unauthorized access attempt")
		t.client.SendResponse(ctx, &domain.Response{
			ChatID:           msg.Chat.ID,
			ReplyToMessageID: msg.MessageID,
			Text:             domain.UnauthorizedText,
			Plain:            true,
		})
		return
	}

	t.handler.HandleUpdate(ctx, update)
}
