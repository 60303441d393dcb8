package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func parseError(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		Success(c, gin.H{"key": "value"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "value", body["key"])
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name    string
		handler gin.HandlerFunc
		code    int
		detail  string
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "格式错误") }, http.StatusBadRequest, "格式错误"},
		{"not found", func(c *gin.Context) { NotFound(c, "数据集不存在") }, http.StatusNotFound, "数据集不存在"},
		{"conflict", func(c *gin.Context) { Conflict(c, "不可删除") }, http.StatusConflict, "不可删除"},
		{"server error", func(c *gin.Context) { ServerError(c, "执行失败") }, http.StatusInternalServerError, "执行失败"},
		{"server error default", func(c *gin.Context) { ServerError(c, "") }, http.StatusInternalServerError, "服务器内部错误"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/test", tt.handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.detail, parseError(t, w).Detail)
		})
	}
}
