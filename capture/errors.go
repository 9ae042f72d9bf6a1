// Package capture 收集用户的一种输入方式：文字、语音转写或摄像头画面
package capture

import (
	"errors"
	"fmt"
)

// ErrEmptyInput 输入去掉空白后为空
var ErrEmptyInput = errors.New("input is empty")

// InputValidationError 输入校验失败，在调用分析之前就会被拒绝
type InputValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InputValidationError) Unwrap() error { return e.Err }

// Message 给用户看的提示
func (e *InputValidationError) Message() string {
	if errors.Is(e.Err, ErrEmptyInput) {
		return "Please share a few words about how you feel first."
	}
	return fmt.Sprintf("Invalid %s: %s.", e.Field, e.Reason)
}

// Device 设备类型
type Device string

const (
	DeviceCamera     Device = "camera"
	DeviceMicrophone Device = "microphone"
)

// Failure 设备访问失败原因
type Failure int

const (
	FailureUnknown Failure = iota
	FailurePermissionDenied
	FailureDeviceNotFound
	FailureNotReady
	FailurePlayback
	FailureEmptyFrame
)

func (f Failure) String() string {
	switch f {
	case FailurePermissionDenied:
		return "permission_denied"
	case FailureDeviceNotFound:
		return "device_not_found"
	case FailureNotReady:
		return "not_ready"
	case FailurePlayback:
		return "playback"
	case FailureEmptyFrame:
		return "empty_frame"
	default:
		return "unknown"
	}
}

var (
	// ErrPermissionDenied 设备实现用它表示用户拒绝授权
	ErrPermissionDenied = errors.New("permission denied")
	// ErrDeviceNotFound 设备实现用它表示没有可用设备
	ErrDeviceNotFound = errors.New("device not found")
)

// DeviceAccessError 摄像头/麦克风访问失败，每种原因对应不同的提示
type DeviceAccessError struct {
	Device  Device
	Failure Failure
	Err     error
}

func (e *DeviceAccessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Device, e.Failure, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Device, e.Failure)
}

func (e *DeviceAccessError) Unwrap() error { return e.Err }

// Message 给用户看的提示
func (e *DeviceAccessError) Message() string {
	if e.Device == DeviceMicrophone {
		switch e.Failure {
		case FailurePermissionDenied:
			return "Microphone access denied. Please allow microphone permissions in your browser settings."
		case FailureDeviceNotFound:
			return "No microphone found on your device."
		default:
			return "Speech recognition stopped unexpectedly. Please try again."
		}
	}

	switch e.Failure {
	case FailurePermissionDenied:
		return "Camera access denied. Please allow camera permissions in your browser settings."
	case FailureDeviceNotFound:
		return "No camera found on your device."
	case FailureNotReady:
		return "Camera is not ready. Please wait a moment."
	case FailurePlayback:
		return "Unable to start video playback"
	case FailureEmptyFrame:
		return "Unable to capture image. Please try again."
	default:
		return "Unable to access camera. Please check your device and browser settings."
	}
}

func deviceError(device Device, err error) *DeviceAccessError {
	failure := FailureUnknown
	switch {
	case errors.Is(err, ErrPermissionDenied):
		failure = FailurePermissionDenied
	case errors.Is(err, ErrDeviceNotFound):
		failure = FailureDeviceNotFound
	}
	return &DeviceAccessError{Device: device, Failure: failure, Err: err}
}
