package services

import (
	"FeeloraGo/capture"
	"FeeloraGo/models"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// scriptedRunner 按输入内容决定分析结果
type scriptedRunner struct {
	mu      sync.Mutex
	calls   int
	started chan string
	respond func(ctx context.Context, transcript string) (*CheckIn, error)
}

func newScriptedRunner(respond func(ctx context.Context, transcript string) (*CheckIn, error)) *scriptedRunner {
	return &scriptedRunner{started: make(chan string, 8), respond: respond}
}

func (r *scriptedRunner) CheckIn(ctx context.Context, userID, transcript string, inputType models.InputType) (*CheckIn, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	r.started <- transcript
	return r.respond(ctx, transcript)
}

func (r *scriptedRunner) CheckInImage(ctx context.Context, userID string, snap *capture.Snapshot) (*CheckIn, error) {
	return r.CheckIn(ctx, userID, "[image]", models.InputCamera)
}

func (r *scriptedRunner) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func checkInFor(emotion models.Emotion, response string) *CheckIn {
	result := &AnalysisResult{Emotion: emotion, Intensity: 6, Response: response, Tags: []string{}, MoodColor: emotion.Color()}
	entry := models.NewMoodEntry("e-"+string(emotion), "u1", emotion, 6, models.InputText, "x", response, nil, baseTime)
	return &CheckIn{Result: result, Entry: entry}
}

// recordingSpeaker 记录朗读内容
type recordingSpeaker struct {
	mu     sync.Mutex
	spoken []Utterance
}

func (s *recordingSpeaker) Speak(_ context.Context, u Utterance) error {
	s.mu.Lock()
	s.spoken = append(s.spoken, u)
	s.mu.Unlock()
	return nil
}

func (s *recordingSpeaker) Spoken() []Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Utterance(nil), s.spoken...)
}

func TestVibeSession_SubmitDisplaysAndSpeaksOnce(t *testing.T) {
	runner := newScriptedRunner(func(context.Context, string) (*CheckIn, error) {
		return checkInFor(models.EmotionHappy, "You're glowing!"), nil
	})
	speaker := &recordingSpeaker{}
	session := NewVibeSession("u1", runner, speaker)
	assert.Equal(t, VibeIdle, session.State())

	view, err := session.Submit(context.Background(), CaptureInput{Type: models.InputText, Transcript: "great day"})
	require.NoError(t, err)
	assert.Equal(t, VibeDisplaying, view.State)
	assert.Equal(t, "#FFD60A", view.Result.MoodColor)
	require.NotNil(t, view.Speech)
	assert.Equal(t, Utterance{Text: "You're glowing!", Rate: 0.9, Pitch: 1.1}, *view.Speech)

	// 重复读取状态不会再次朗读
	for i := 0; i < 3; i++ {
		v := session.View()
		assert.Equal(t, VibeDisplaying, v.State)
		assert.Nil(t, v.Speech)
	}
	assert.Len(t, speaker.Spoken(), 1)

	reset := session.Reset()
	assert.Equal(t, VibeIdle, reset.State)
	assert.Nil(t, reset.Result)

	// 再次进入 displaying 时再朗读一次
	_, err = session.Submit(context.Background(), CaptureInput{Type: models.InputVoice, Transcript: "again"})
	require.NoError(t, err)
	assert.Len(t, speaker.Spoken(), 2)
}

func TestVibeSession_EmptyInput(t *testing.T) {
	runner := newScriptedRunner(func(context.Context, string) (*CheckIn, error) {
		return checkInFor(models.EmotionHappy, "hi"), nil
	})
	session := NewVibeSession("u1", runner, nil)

	_, err := session.Submit(context.Background(), CaptureInput{Type: models.InputText, Transcript: "  "})
	assert.ErrorIs(t, err, capture.ErrEmptyInput)

	_, err = session.Submit(context.Background(), CaptureInput{Type: models.InputCamera})
	assert.ErrorIs(t, err, capture.ErrEmptyInput)

	assert.Zero(t, runner.Calls())
	assert.Equal(t, VibeIdle, session.State())
}

func TestVibeSession_FailureReturnsToIdle(t *testing.T) {
	runner := newScriptedRunner(func(context.Context, string) (*CheckIn, error) {
		return nil, &AnalysisError{Cause: errors.New("gateway down")}
	})
	speaker := &recordingSpeaker{}
	session := NewVibeSession("u1", runner, speaker)

	_, err := session.Submit(context.Background(), CaptureInput{Type: models.InputText, Transcript: "hello"})
	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)

	view := session.View()
	assert.Equal(t, VibeIdle, view.State)
	assert.Equal(t, "We couldn't analyze your mood right now. Please try again.", view.Error)
	assert.Nil(t, view.Result)
	assert.Empty(t, speaker.Spoken())
}

func TestVibeSession_NewSubmitSupersedesInFlight(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	runner := newScriptedRunner(func(ctx context.Context, transcript string) (*CheckIn, error) {
		if transcript == "first" {
			<-ctx.Done()
			return nil, &AnalysisError{Cause: ctx.Err()}
		}
		return checkInFor(models.EmotionCalm, "Breathe easy."), nil
	})
	speaker := &recordingSpeaker{}
	session := NewVibeSession("u1", runner, speaker)

	firstErr := make(chan error, 1)
	go func() {
		_, err := session.Submit(context.Background(), CaptureInput{Type: models.InputText, Transcript: "first"})
		firstErr <- err
	}()
	require.Equal(t, "first", <-runner.started)
	assert.Equal(t, VibeAwaitingResult, session.State())

	view, err := session.Submit(context.Background(), CaptureInput{Type: models.InputText, Transcript: "second"})
	require.NoError(t, err)
	assert.Equal(t, models.EmotionCalm, view.Result.Emotion)

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("first submission was not cancelled")
	}

	assert.Equal(t, VibeDisplaying, session.State())
	spoken := speaker.Spoken()
	require.Len(t, spoken, 1)
	assert.Equal(t, "Breathe easy.", spoken[0].Text)
}

func TestVibeSession_ResetCancelsInFlight(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	runner := newScriptedRunner(func(ctx context.Context, _ string) (*CheckIn, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	session := NewVibeSession("u1", runner, nil)

	done := make(chan error, 1)
	go func() {
		_, err := session.Submit(context.Background(), CaptureInput{Type: models.InputText, Transcript: "hello"})
		done <- err
	}()
	<-runner.started

	view := session.Reset()
	assert.Equal(t, VibeIdle, view.State)
	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, VibeIdle, session.State())
	assert.Empty(t, session.View().Error)
}

func TestVibeHub(t *testing.T) {
	runner := newScriptedRunner(func(context.Context, string) (*CheckIn, error) {
		return checkInFor(models.EmotionTired, "Rest up."), nil
	})
	hub := NewVibeHub(runner, nil)

	a := hub.Session("u1")
	assert.Same(t, a, hub.Session("u1"))
	assert.NotSame(t, a, hub.Session("u2"))

	_, err := a.Submit(context.Background(), CaptureInput{
		Type:     models.InputCamera,
		Snapshot: &capture.Snapshot{ContentType: "image/jpeg", Data: []byte{1}},
	})
	require.NoError(t, err)
	assert.Equal(t, VibeDisplaying, a.State())

	hub.Close()
	assert.Equal(t, VibeIdle, a.State())
}
