package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resp is the uniform response envelope.
type Resp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Resp{Code: http.StatusOK, Message: "success", Data: data})
}

func respError(c *gin.Context, code int, err error) {
	c.JSON(code, Resp{Code: code, Message: err.Error()})
}
