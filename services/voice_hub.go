package services

import (
	"FeeloraGo/capture"
	"FeeloraGo/config"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// VoiceHub 每个用户一个语音识别组件
type VoiceHub struct {
	mu        sync.Mutex
	recorders map[string]*capture.VoiceRecorder
}

func NewVoiceHub() *VoiceHub {
	return &VoiceHub{recorders: make(map[string]*capture.VoiceRecorder)}
}

// VoiceStatus 语音会话状态
type VoiceStatus struct {
	SessionID  string `json:"sessionId"`
	Recording  bool   `json:"recording"`
	Transcript string `json:"transcript"`
	Accepted   bool   `json:"accepted"`
	Error      string `json:"error,omitempty"`
}

func (h *VoiceHub) recorder(userID string, create bool) *capture.VoiceRecorder {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.recorders[userID]
	if !ok && create {
		r = capture.NewVoiceRecorder()
		h.recorders[userID] = r
	}
	return r
}

// Start 开始录音，之前的会话作废
func (h *VoiceHub) Start(userID string) VoiceStatus {
	r := h.recorder(userID, true)
	id := r.Start()
	return VoiceStatus{SessionID: id, Recording: true, Accepted: true}
}

// Handle 转发一条识别事件
func (h *VoiceHub) Handle(userID string, ev capture.RecognitionEvent) VoiceStatus {
	r := h.recorder(userID, false)
	if r == nil {
		return VoiceStatus{}
	}

	accepted := r.Handle(ev)
	status := VoiceStatus{
		SessionID:  r.SessionID(),
		Recording:  r.Recording(),
		Transcript: r.Transcript(),
		Accepted:   accepted,
	}
	if err := r.Err(); err != nil {
		status.Error = UserMessage(err)
	}
	return status
}

// Stop 结束录音并返回转写
func (h *VoiceHub) Stop(userID string) (string, error) {
	r := h.recorder(userID, false)
	if r == nil {
		return "", &capture.InputValidationError{Field: "voice", Reason: "no recording in progress"}
	}
	return r.Stop()
}

// Sweep 释放空闲超过 idle 的会话，返回释放的数量
func (h *VoiceHub) Sweep(idle time.Duration, now time.Time) int {
	h.mu.Lock()
	var stale []*capture.VoiceRecorder
	for userID, r := range h.recorders {
		if now.Sub(r.LastActive()) > idle {
			stale = append(stale, r)
			delete(h.recorders, userID)
		}
	}
	h.mu.Unlock()

	for _, r := range stale {
		_ = r.Close()
	}
	return len(stale)
}

// Len 当前会话数
func (h *VoiceHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.recorders)
}

// Close 释放所有会话
func (h *VoiceHub) Close() {
	h.mu.Lock()
	recorders := h.recorders
	h.recorders = make(map[string]*capture.VoiceRecorder)
	h.mu.Unlock()

	for _, r := range recorders {
		_ = r.Close()
	}
}

// VoiceJanitor 定时清理空闲的语音会话
type VoiceJanitor struct {
	hub  *VoiceHub
	idle time.Duration
	cron *cron.Cron
	now  func() time.Time
}

func NewVoiceJanitor(hub *VoiceHub, schedule string, idle time.Duration) (*VoiceJanitor, error) {
	j := &VoiceJanitor{
		hub:  hub,
		idle: idle,
		cron: cron.New(),
		now:  time.Now,
	}
	if _, err := j.cron.AddFunc(schedule, j.Sweep); err != nil {
		return nil, fmt.Errorf("invalid VOICE_SWEEP_SCHEDULE %q: %w", schedule, err)
	}
	return j, nil
}

// Sweep 执行一次清理
func (j *VoiceJanitor) Sweep() {
	if n := j.hub.Sweep(j.idle, j.now()); n > 0 {
		config.Logger.Infow("已释放空闲语音会话", "count", n)
	}
}

func (j *VoiceJanitor) Start() {
	j.cron.Start()
}

// Stop 停止调度并等待正在执行的清理结束
func (j *VoiceJanitor) Stop() context.Context {
	return j.cron.Stop()
}
