package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dskvich/gigachat-telegram-bot/pkg/api/response"
)

func Health(c *gin.Context) {
	response.WriteSuccess(c, http.StatusOK, gin.H{
		"status":  "ok",
		"service": "gigachat-telegram-bot",
	})
}
