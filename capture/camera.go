package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // 上传的图片可能是 png
	"sync"
	"time"
)

// JPEGQuality 截图编码质量
const JPEGQuality = 90

// Stream 已打开的视频流
type Stream interface {
	// Ready 视频流可以截图时关闭
	Ready() <-chan struct{}
	Frame() (image.Image, error)
	Close() error
}

// CameraDevice 可以打开视频流的摄像头
type CameraDevice interface {
	Open(ctx context.Context) (Stream, error)
}

// Snapshot 一帧截图
type Snapshot struct {
	Name        string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// Camera 摄像头组件，持有唯一的视频流，停止或销毁时释放设备
type Camera struct {
	device CameraDevice
	now    func() time.Time

	mu     sync.Mutex
	stream Stream
}

func NewCamera(device CameraDevice) *Camera {
	return &Camera{device: device, now: time.Now}
}

// Start 打开摄像头，已经打开时先释放旧的视频流
func (c *Camera) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream != nil {
		_ = c.stream.Close()
		c.stream = nil
	}

	stream, err := c.device.Open(ctx)
	if err != nil {
		var dae *DeviceAccessError
		if errors.As(err, &dae) {
			return dae
		}
		return deviceError(DeviceCamera, err)
	}
	c.stream = stream
	return nil
}

// Active 摄像头是否已打开
func (c *Camera) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream != nil
}

// IsReady 视频流是否可以截图
func (c *Camera) IsReady() bool {
	c.mu.Lock()
	stream := c.stream
	c.mu.Unlock()
	if stream == nil {
		return false
	}
	select {
	case <-stream.Ready():
		return true
	default:
		return false
	}
}

// WaitReady 等待视频流就绪
func (c *Camera) WaitReady(ctx context.Context) error {
	c.mu.Lock()
	stream := c.stream
	c.mu.Unlock()
	if stream == nil {
		return &DeviceAccessError{Device: DeviceCamera, Failure: FailureNotReady}
	}

	select {
	case <-stream.Ready():
		return nil
	case <-ctx.Done():
		return &DeviceAccessError{Device: DeviceCamera, Failure: FailureNotReady, Err: ctx.Err()}
	}
}

// Capture 截取一帧并编码为 jpeg，视频流未就绪时返回 NotReady
func (c *Camera) Capture() (*Snapshot, error) {
	if !c.IsReady() {
		return nil, &DeviceAccessError{Device: DeviceCamera, Failure: FailureNotReady}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return nil, &DeviceAccessError{Device: DeviceCamera, Failure: FailureNotReady}
	}

	frame, err := c.stream.Frame()
	if err != nil {
		return nil, &DeviceAccessError{Device: DeviceCamera, Failure: FailureEmptyFrame, Err: err}
	}
	bounds := frame.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, &DeviceAccessError{Device: DeviceCamera, Failure: FailureEmptyFrame}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, &DeviceAccessError{Device: DeviceCamera, Failure: FailureEmptyFrame, Err: err}
	}

	return &Snapshot{
		Name:        fmt.Sprintf("mood-capture-%d.jpg", c.now().UnixMilli()),
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

// Stop 释放摄像头，可以重复调用
func (c *Camera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return nil
	}
	err := c.stream.Close()
	c.stream = nil
	return err
}

// Close 组件销毁时释放摄像头
func (c *Camera) Close() error {
	return c.Stop()
}
