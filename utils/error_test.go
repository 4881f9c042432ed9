package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cleaningmanager/database/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	Logger = zap.NewNop()
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{store.Invalid("bad date"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", store.ErrUnauthorized), http.StatusUnauthorized},
		{&store.Error{Op: "update", Kind: store.ErrNotFound}, http.StatusNotFound},
		{&store.Error{Op: "create", Kind: store.ErrAlreadyExists}, http.StatusConflict},
		{&store.Error{Op: "getAll", Kind: store.ErrStoreUnavailable}, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/assignments", http.NoBody)

	RespondError(c, "Failed to load assignments", errors.New("driver exploded"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Failed to load assignments", body.Message)
	assert.Empty(t, body.Details)
}

func TestRespondErrorIncludesKindDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/assignments/x/y/cleaner", http.NoBody)

	RespondError(c, "Failed to assign cleaner", store.Invalid("cleanerName is required"))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Contains(t, body.Details, "cleanerName is required")
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/panic", func(*gin.Context) { panic("unexpected") })

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/panic", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
