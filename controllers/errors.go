package controllers

import (
	"FeeloraGo/capture"
	"FeeloraGo/config"
	"FeeloraGo/services"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusFor 错误类型对应的 HTTP 状态码
func statusFor(err error) int {
	var (
		ve *capture.InputValidationError
		de *capture.DeviceAccessError
		ae *services.AnalysisError
		pe *services.PersistenceError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &de):
		switch de.Failure {
		case capture.FailurePermissionDenied, capture.FailureDeviceNotFound:
			return http.StatusBadRequest
		default:
			return http.StatusUnprocessableEntity
		}
	case errors.Is(err, services.ErrSuperseded):
		return http.StatusConflict
	case errors.As(err, &ae):
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.As(err, &pe):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// respondError 统一的错误响应，总是带有给用户看的提示
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		config.Logger.Errorw("请求处理失败", "error", err, "path", c.Request.URL.Path, "uid", c.GetString("uid"))
	} else {
		config.Logger.Infow("请求被拒绝", "error", err, "path", c.Request.URL.Path, "uid", c.GetString("uid"))
	}
	c.JSON(status, gin.H{"error": services.UserMessage(err)})
}

func bindError(field string, err error) error {
	return &capture.InputValidationError{Field: field, Reason: "malformed request body", Err: err}
}
