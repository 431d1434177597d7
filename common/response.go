package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func ResponseSuccess(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  StatusSuccess,
		"message": message,
	})
}

func ResponseError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusInternalServerError, gin.H{
		"status":  StatusError,
		"message": err.Error(),
	})
}

func ResponseUnauthorizedError(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, gin.H{
		"status":  StatusError,
		"message": "unauthorized",
	})
}
