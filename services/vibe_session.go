package services

import (
	"FeeloraGo/capture"
	"FeeloraGo/config"
	"FeeloraGo/models"
	"context"
	"sync"
)

// VibeState 结果展示的状态
type VibeState string

const (
	VibeIdle           VibeState = "idle"
	VibeAwaitingResult VibeState = "awaiting_result"
	VibeDisplaying     VibeState = "displaying"
)

// Utterance 朗读 AI 回复的参数
type Utterance struct {
	Text  string  `json:"text"`
	Rate  float64 `json:"rate"`
	Pitch float64 `json:"pitch"`
}

// Speaker 文字转语音
type Speaker interface {
	Speak(ctx context.Context, u Utterance) error
}

// SpeakerFunc 让普通函数实现 Speaker
type SpeakerFunc func(ctx context.Context, u Utterance) error

func (f SpeakerFunc) Speak(ctx context.Context, u Utterance) error { return f(ctx, u) }

// CaptureInput 任意一种输入方式产生的内容
type CaptureInput struct {
	Type       models.InputType
	Transcript string
	Snapshot   *capture.Snapshot
}

func (in CaptureInput) normalize() (CaptureInput, error) {
	if in.Type == models.InputCamera {
		if in.Snapshot == nil || len(in.Snapshot.Data) == 0 {
			return in, &capture.InputValidationError{Field: "image", Reason: "must not be empty", Err: capture.ErrEmptyInput}
		}
		return in, nil
	}

	text, err := capture.NormalizeText(in.Transcript)
	if err != nil {
		return in, err
	}
	in.Transcript = text
	return in, nil
}

// VibeView 当前状态的快照，Speech 只在进入 displaying 的那一次返回
type VibeView struct {
	State  VibeState         `json:"state"`
	Result *AnalysisResult   `json:"result,omitempty"`
	Entry  *models.MoodEntry `json:"entry,omitempty"`
	Error  string            `json:"error,omitempty"`
	Speech *Utterance        `json:"speech,omitempty"`
}

type checkInRunner interface {
	CheckIn(ctx context.Context, userID, transcript string, inputType models.InputType) (*CheckIn, error)
	CheckInImage(ctx context.Context, userID string, snap *capture.Snapshot) (*CheckIn, error)
}

// VibeSession idle → awaiting_result → displaying → idle
// 同一时间只有一个分析请求，新的提交会取消旧的
type VibeSession struct {
	userID   string
	pipeline checkInRunner
	speaker  Speaker

	mu         sync.Mutex
	state      VibeState
	generation uint64
	cancel     context.CancelFunc
	checkIn    *CheckIn
	errMsg     string
}

func NewVibeSession(userID string, pipeline checkInRunner, speaker Speaker) *VibeSession {
	return &VibeSession{
		userID:   userID,
		pipeline: pipeline,
		speaker:  speaker,
		state:    VibeIdle,
	}
}

// Submit 提交一次输入并等待分析结果
func (s *VibeSession) Submit(ctx context.Context, in CaptureInput) (*VibeView, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = VibeAwaitingResult
	s.checkIn = nil
	s.errMsg = ""
	s.mu.Unlock()
	defer cancel()

	var result *CheckIn
	if in.Type == models.InputCamera {
		result, err = s.pipeline.CheckInImage(runCtx, s.userID, in.Snapshot)
	} else {
		result, err = s.pipeline.CheckIn(runCtx, s.userID, in.Transcript, in.Type)
	}

	s.mu.Lock()
	if gen != s.generation {
		// 已被新的提交或重置取代
		s.mu.Unlock()
		return nil, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		s.state = VibeIdle
		s.errMsg = UserMessage(err)
		s.mu.Unlock()
		return nil, err
	}
	s.state = VibeDisplaying
	s.checkIn = result
	view := s.viewLocked()
	s.mu.Unlock()

	// 每次进入 displaying 只朗读一次
	utterance := Utterance{Text: result.Result.Response, Rate: 0.9, Pitch: 1.1}
	view.Speech = &utterance
	if s.speaker != nil {
		if err := s.speaker.Speak(ctx, utterance); err != nil {
			config.Logger.Errorw("朗读失败", "error", err, "uid", s.userID)
		}
	}
	return view, nil
}

// Reset 回到 idle，取消进行中的分析
func (s *VibeSession) Reset() *VibeView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.state = VibeIdle
	s.checkIn = nil
	s.errMsg = ""
	return s.viewLocked()
}

// View 当前状态，不会触发朗读
func (s *VibeSession) View() *VibeView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// State 当前状态
func (s *VibeSession) State() VibeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *VibeSession) viewLocked() *VibeView {
	view := &VibeView{State: s.state, Error: s.errMsg}
	if s.checkIn != nil {
		view.Result = s.checkIn.Result
		view.Entry = s.checkIn.Entry
	}
	return view
}

// VibeHub 每个用户一个会话
type VibeHub struct {
	pipeline checkInRunner
	speaker  Speaker

	mu       sync.Mutex
	sessions map[string]*VibeSession
}

func NewVibeHub(pipeline checkInRunner, speaker Speaker) *VibeHub {
	return &VibeHub{
		pipeline: pipeline,
		speaker:  speaker,
		sessions: make(map[string]*VibeSession),
	}
}

// Session 获取或创建用户的会话
func (h *VibeHub) Session(userID string) *VibeSession {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[userID]
	if !ok {
		s = NewVibeSession(userID, h.pipeline, h.speaker)
		h.sessions[userID] = s
	}
	return s
}

// Close 取消所有进行中的分析
func (h *VibeHub) Close() {
	h.mu.Lock()
	sessions := make([]*VibeSession, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.Reset()
	}
}
