package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"sync"
)

// ImageDevice 用上传的图片充当摄像头，解码成功即视为就绪
type ImageDevice []byte

func (d ImageDevice) Open(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(d) == 0 {
		return nil, ErrDeviceNotFound
	}

	img, _, err := image.Decode(bytes.NewReader(d))
	if err != nil {
		return nil, &DeviceAccessError{Device: DeviceCamera, Failure: FailurePlayback, Err: err}
	}

	ready := make(chan struct{})
	close(ready)
	return &imageStream{img: img, ready: ready}, nil
}

type imageStream struct {
	mu     sync.Mutex
	img    image.Image
	ready  chan struct{}
	closed bool
}

func (s *imageStream) Ready() <-chan struct{} { return s.ready }

func (s *imageStream) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.New("stream closed")
	}
	return s.img, nil
}

func (s *imageStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.img = nil
	return nil
}
