package response

import (
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type CompletionResponse struct {
	Response string `json:"response"`
}

func WriteSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func WriteError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
