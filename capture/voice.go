package capture

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RecognitionResult 语音识别的一段结果
type RecognitionResult struct {
	Transcript string `json:"transcript"`
	IsFinal    bool   `json:"isFinal"`
}

// RecognitionEvent 浏览器语音识别回调转成的事件
type RecognitionEvent struct {
	SessionID   string              `json:"sessionId"`
	ResultIndex int                 `json:"resultIndex"`
	Results     []RecognitionResult `json:"results"`
	Error       string              `json:"error,omitempty"` // SpeechRecognition error code
}

// VoiceRecorder 持续语音转文字，同一时间最多一个识别会话
type VoiceRecorder struct {
	mu         sync.Mutex
	sessionID  string
	recording  bool
	transcript string
	err        *DeviceAccessError
	lastActive time.Time
	now        func() time.Time
}

func NewVoiceRecorder() *VoiceRecorder {
	r := &VoiceRecorder{now: time.Now}
	r.lastActive = r.now()
	return r
}

// Start 开始新的识别会话，已有会话会被丢弃，之后只接受新会话的事件
func (r *VoiceRecorder) Start() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessionID = uuid.New().String()
	r.recording = true
	r.transcript = ""
	r.err = nil
	r.lastActive = r.now()
	return r.sessionID
}

// Handle 处理一条识别事件，返回事件是否属于当前会话
func (r *VoiceRecorder) Handle(ev RecognitionEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording || ev.SessionID == "" || ev.SessionID != r.sessionID {
		return false
	}
	r.lastActive = r.now()

	if ev.Error != "" {
		r.recording = false
		r.err = microphoneError(ev.Error)
		return true
	}

	start := ev.ResultIndex
	if start < 0 {
		start = 0
	}
	var final strings.Builder
	for i := start; i < len(ev.Results); i++ {
		if ev.Results[i].IsFinal {
			final.WriteString(ev.Results[i].Transcript)
		}
	}
	if final.Len() > 0 {
		r.transcript = r.transcript + " " + final.String()
	}
	return true
}

// Consume 单一生产者的事件循环，channel 关闭或 ctx 结束时返回
func (r *VoiceRecorder) Consume(ctx context.Context, events <-chan RecognitionEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			r.Handle(ev)
		}
	}
}

// Stop 结束会话并返回整理后的转写，空转写返回校验错误
func (r *VoiceRecorder) Stop() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessionID == "" {
		return "", &InputValidationError{Field: "voice", Reason: "no recording in progress"}
	}

	transcript := strings.TrimSpace(r.transcript)
	err := r.err
	r.reset()

	if transcript != "" {
		return transcript, nil
	}
	if err != nil {
		return "", err
	}
	return "", &InputValidationError{Field: "transcript", Reason: "nothing was heard", Err: ErrEmptyInput}
}

// Close 组件销毁时释放会话
func (r *VoiceRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
	r.transcript = ""
	return nil
}

func (r *VoiceRecorder) reset() {
	r.sessionID = ""
	r.recording = false
	r.err = nil
	r.lastActive = r.now()
}

// Transcript 当前累计的转写
func (r *VoiceRecorder) Transcript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.TrimSpace(r.transcript)
}

// Recording 是否正在识别
func (r *VoiceRecorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// SessionID 当前会话ID，没有会话时为空
func (r *VoiceRecorder) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

// Err 结束当前会话的识别错误
func (r *VoiceRecorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		return nil
	}
	return r.err
}

// LastActive 最近一次活动时间
func (r *VoiceRecorder) LastActive() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActive
}

func microphoneError(code string) *DeviceAccessError {
	var err error
	switch code {
	case "not-allowed", "service-not-allowed":
		err = ErrPermissionDenied
	case "audio-capture":
		err = ErrDeviceNotFound
	default:
		err = fmt.Errorf("speech recognition error: %s", code)
	}
	return deviceError(DeviceMicrophone, err)
}
