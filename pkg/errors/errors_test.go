package errors

import (
	"encoding/json"
	"errors"
	"fmt"
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

func TestFromError(t *testing.T) {
	appErr := NewNotFoundError("NOT_FOUND", "missing")
	assert.Same(t, appErr, FromError(appErr))

	wrapped := fmt.Errorf("outer: %w", appErr)
	assert.Same(t, appErr, FromError(wrapped))

	converted := FromError(errors.New("database exploded"))
	assert.Equal(t, http.StatusInternalServerError, converted.StatusCode)
	assert.Equal(t, "SERVER_ERROR", converted.Code)
	assert.NotContains(t, converted.Message, "exploded")
}

func TestIsMatchesByCode(t *testing.T) {
	target := NewConflictError("DUPLICATE", "already exists")

	assert.True(t, Is(NewConflictError("DUPLICATE", "other message"), target))
	assert.True(t, Is(fmt.Errorf("wrap: %w", NewConflictError("DUPLICATE", "x")), target))
	assert.False(t, Is(NewConflictError("OTHER", "x"), target))
	assert.False(t, Is(errors.New("plain"), target))
}

func TestErrorHandlerFormatsAppError(t *testing.T) {
	engine := gin.New()
	engine.Use(ErrorHandler())
	engine.GET("/boom", func(c *gin.Context) {
		c.Error(NewValidationError("field is required").WithDetails(gin.H{"field": "message"}))
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "field is required", body.Error.Message)
	assert.Equal(t, "message", body.Error.Details["field"])
}

func TestRecoveryReturnsServerError(t *testing.T) {
	engine := gin.New()
	engine.Use(RecoveryWithLogger())
	engine.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "SERVER_ERROR")
	assert.NotContains(t, w.Body.String(), "boom")
}
