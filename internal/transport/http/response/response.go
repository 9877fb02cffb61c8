package response

import "github.com/gin-gonic/gin"

// ErrBody 统一错误响应体
type ErrBody struct {
	Message string `json:"message"`
}

func JSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrBody{Message: msg})
}

func AbortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrBody{Message: msg})
}
