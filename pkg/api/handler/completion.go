package handler

import (
	"context"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/dskvich/gigachat-telegram-bot/pkg/api/response"
	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
)

type AnswerGenerator interface {
	Complete(ctx context.Context, question string, history []domain.Message) string
}

type completion struct {
	answers AnswerGenerator
}

func NewCompletion(answers AnswerGenerator) *completion {
	return &completion{answers: answers}
}

// Generate answers a single question without conversation history.
func (h *completion) Generate(c *gin.Context) {
	prompt := c.Query("prompt")
	if prompt == "" {
		response.WriteError(c, http.StatusBadRequest, "Prompt parameter is missing or empty.")
		return
	}

	if length := utf8.RuneCountInString(prompt); length > domain.MaxQuestionLength {
		response.WriteError(c, http.StatusBadRequest, domain.QuestionTooLongText(length))
		return
	}

	slog.InfoContext(c.Request.Context(), "Generating stateless answer", "promptLength", utf8.RuneCountInString(prompt))

	answer := h.answers.Complete(c.Request.Context(), prompt, nil)
	response.WriteSuccess(c, http.StatusOK, response.CompletionResponse{Response: answer})
}
