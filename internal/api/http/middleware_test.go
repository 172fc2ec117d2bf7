package apiHttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsPreflight(origins []string, origin string) http.Header {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(corsMiddleware(origins))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/password-reset/request", nil)
	req.Header.Set("Origin", origin)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w.Header()
}

func TestCorsMiddleware_ListedOriginGetsCredentials(t *testing.T) {
	h := corsPreflight([]string{"http://localhost:3000/", "*"}, "http://localhost:3000")

	assert.Equal(t, "http://localhost:3000", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", h.Get("Access-Control-Allow-Credentials"))
}

func TestCorsMiddleware_WildcardWithoutCredentials(t *testing.T) {
	h := corsPreflight([]string{"*"}, "https://any.example")

	assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, h.Get("Access-Control-Allow-Credentials"))
	assert.NotEmpty(t, h.Get("Access-Control-Allow-Methods"))
}

func TestCorsMiddleware_UnlistedOrigin(t *testing.T) {
	h := corsPreflight([]string{"http://localhost:3000"}, "https://evil.example")

	assert.Empty(t, h.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, h.Get("Access-Control-Allow-Credentials"))
}
