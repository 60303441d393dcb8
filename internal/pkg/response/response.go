package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody 统一错误响应体
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Success 200 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// BadRequest 400 客户端错误（格式、大小、字段校验）
func BadRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Detail: detail})
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, detail string) {
	c.JSON(http.StatusNotFound, ErrorBody{Detail: detail})
}

// Conflict 409 操作冲突
func Conflict(c *gin.Context, detail string) {
	c.JSON(http.StatusConflict, ErrorBody{Detail: detail})
}

// ServerError 500 服务端错误
func ServerError(c *gin.Context, detail string) {
	if detail == "" {
		detail = "服务器内部错误"
	}
	c.JSON(http.StatusInternalServerError, ErrorBody{Detail: detail})
}
