package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
	"github.com/dskvich/gigachat-telegram-bot/pkg/logger"
	"github.com/dskvich/gigachat-telegram-bot/pkg/render"
)

// Telegram rejects text messages above 4096 characters; the rendered
// markup needs some headroom.
const maxMessageLength = 4000

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type client struct {
	bot       sender
	updatesCh tgbotapi.UpdatesChannel
}

func NewClient(token string) (*client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot api instance: %v", err)
	}

	slog.Info("authorized on telegram", "account", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	return &client{
		bot:       bot,
		updatesCh: bot.GetUpdatesChan(u),
	}, nil
}

func (c *client) GetUpdates() tgbotapi.UpdatesChannel {
	return c.updatesCh
}

func (c *client) SendChatAction(ctx context.Context, chatID int64, action domain.ChatAction) {
	if _, err := c.bot.Request(tgbotapi.NewChatAction(chatID, string(action))); err != nil {
		slog.WarnContext(ctx, "Failed to send chat action", "action", action, logger.Err(err))
	}
}

func (c *client) SendResponse(ctx context.Context, response *domain.Response) {
	if response.Image != nil && len(response.Image.Data) > 0 {
		err := c.sendPhoto(response)
		if err == nil {
			return
		}
		slog.ErrorContext(ctx, "Failed to send photo, falling back to text", logger.Err(err))
	}

	for i, chunk := range split(response.Text, maxMessageLength) {
		replyTo := 0
		if i == 0 {
			replyTo = response.ReplyToMessageID
		}
		c.sendText(ctx, response.ChatID, replyTo, chunk, response.Plain)
	}
}

// sendPhoto posts the image with its caption. Photos do not quote the question.
func (c *client) sendPhoto(response *domain.Response) error {
	photo := tgbotapi.NewPhoto(response.ChatID, tgbotapi.FileBytes{
		Name:  "image.png",
		Bytes: response.Image.Data,
	})
	photo.Caption = response.Image.Caption

	_, err := c.bot.Send(photo)
	return err
}

func (c *client) sendText(ctx context.Context, chatID int64, replyTo int, text string, plain bool) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo

	if !plain {
		msg.Text = render.ToHTML(text)
		msg.ParseMode = tgbotapi.ModeHTML

		_, err := c.bot.Send(msg)
		if err == nil {
			return
		}
		slog.WarnContext(ctx, "Telegram rejected HTML reply, resending as plain text", logger.Err(err))

		msg.Text = text
		msg.ParseMode = ""
	}

	_, err := c.bot.Send(msg)
	if err == nil {
		return
	}
	slog.ErrorContext(ctx, "Failed to send message", logger.Err(err))

	notice := tgbotapi.NewMessage(chatID, domain.DeliveryFailedText)
	notice.ReplyToMessageID = replyTo
	if _, err := c.bot.Send(notice); err != nil {
		slog.ErrorContext(ctx, "Failed to send failure notification", logger.Err(err))
	}
}

// split cuts text into pieces of at most limit runes, preferring line breaks.
func split(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		if i := strings.LastIndex(string(runes[:limit]), "\n"); i > 0 {
			cut = utf8.RuneCountInString(string(runes[:limit])[:i])
		}
		parts = append(parts, string(runes[:cut]))
		runes = []rune(strings.TrimLeft(string(runes[cut:]), "\n"))
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
