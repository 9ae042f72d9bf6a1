package services

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse 模型返回的内容无法解析
	ErrMalformedResponse = errors.New("malformed analysis response")
	// ErrSuperseded 新的提交或重置取消了正在进行的分析
	ErrSuperseded = errors.New("analysis superseded by a newer submission")
)

// AnalysisError 大模型调用失败（网络、超时、返回格式错误），不会自动重试
type AnalysisError struct {
	Cause error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("mood analysis failed: %v", e.Cause)
}

func (e *AnalysisError) Unwrap() error { return e.Cause }

func (e *AnalysisError) Message() string {
	switch {
	case errors.Is(e.Cause, context.DeadlineExceeded):
		return "Feelora took too long to respond. Please try again."
	case errors.Is(e.Cause, ErrMalformedResponse):
		return "Feelora couldn't make sense of that reply. Please try again."
	default:
		return "We couldn't analyze your mood right now. Please try again."
	}
}

// PersistenceError 情绪记录读写失败
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("mood store %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

func (e *PersistenceError) Message() string {
	if e.Op == "create" {
		return "We couldn't save your mood entry. Please try again."
	}
	return "We couldn't load your mood history. Please try again."
}

type userMessager interface {
	Message() string
}

// UserMessage 把错误转换成给用户看的提示，不会返回空字符串
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var m userMessager
	if errors.As(err, &m) {
		return m.Message()
	}
	if errors.Is(err, ErrSuperseded) {
		return "A newer check-in replaced this one."
	}
	return "Something went wrong. Please try again."
}
