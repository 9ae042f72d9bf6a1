package controllers

import (
	"FeeloraGo/capture"
	"FeeloraGo/services"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &capture.InputValidationError{Field: "text", Reason: "empty", Err: capture.ErrEmptyInput}, http.StatusBadRequest},
		{"camera denied", &capture.DeviceAccessError{Device: capture.DeviceCamera, Failure: capture.FailurePermissionDenied}, http.StatusBadRequest},
		{"camera not ready", &capture.DeviceAccessError{Device: capture.DeviceCamera, Failure: capture.FailureNotReady}, http.StatusUnprocessableEntity},
		{"superseded", services.ErrSuperseded, http.StatusConflict},
		{"analysis timeout", &services.AnalysisError{Cause: fmt.Errorf("%w: slow", context.DeadlineExceeded)}, http.StatusGatewayTimeout},
		{"analysis malformed", &services.AnalysisError{Cause: services.ErrMalformedResponse}, http.StatusBadGateway},
		{"persistence", &services.PersistenceError{Op: "create", Cause: errors.New("locked")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestRespondError_AlwaysHasMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, err := range []error{
		errors.New("boom"),
		services.ErrSuperseded,
		&capture.DeviceAccessError{Device: capture.DeviceCamera, Failure: capture.FailureEmptyFrame},
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/vibe/text", nil)
		respondError(c, err)
		assert.Contains(t, w.Body.String(), `"error":"`)
		assert.NotContains(t, w.Body.String(), `"error":""`)
	}
}
