package services

import (
	"FeeloraGo/capture"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceHub_Session(t *testing.T) {
	hub := NewVoiceHub()
	defer hub.Close()

	status := hub.Start("u1")
	require.NotEmpty(t, status.SessionID)
	assert.True(t, status.Recording)

	status = hub.Handle("u1", capture.RecognitionEvent{
		SessionID: status.SessionID,
		Results:   []capture.RecognitionResult{{Transcript: "I feel", IsFinal: true}},
	})
	assert.True(t, status.Accepted)
	status = hub.Handle("u1", capture.RecognitionEvent{
		SessionID:   status.SessionID,
		ResultIndex: 1,
		Results: []capture.RecognitionResult{
			{Transcript: "I feel", IsFinal: true},
			{Transcript: "pretty calm", IsFinal: true},
			{Transcript: "and", IsFinal: false},
		},
	})
	assert.Equal(t, "I feel pretty calm", status.Transcript)

	// 其他会话的事件被忽略
	stale := hub.Handle("u1", capture.RecognitionEvent{SessionID: "old", Results: []capture.RecognitionResult{{Transcript: "noise", IsFinal: true}}})
	assert.False(t, stale.Accepted)

	transcript, err := hub.Stop("u1")
	require.NoError(t, err)
	assert.Equal(t, "I feel pretty calm", transcript)
}

func TestVoiceHub_Errors(t *testing.T) {
	hub := NewVoiceHub()
	defer hub.Close()

	_, err := hub.Stop("nobody")
	var ve *capture.InputValidationError
	require.ErrorAs(t, err, &ve)

	assert.False(t, hub.Handle("nobody", capture.RecognitionEvent{SessionID: "x"}).Accepted)

	status := hub.Start("u1")
	status = hub.Handle("u1", capture.RecognitionEvent{SessionID: status.SessionID, Error: "not-allowed"})
	assert.False(t, status.Recording)
	assert.Equal(t, "Microphone access denied. Please allow microphone permissions in your browser settings.", status.Error)

	_, err = hub.Stop("u1")
	var de *capture.DeviceAccessError
	require.ErrorAs(t, err, &de)
	assert.ErrorIs(t, err, capture.ErrPermissionDenied)

	hub.Start("u1")
	_, err = hub.Stop("u1")
	assert.ErrorIs(t, err, capture.ErrEmptyInput)
}

func TestVoiceHub_Sweep(t *testing.T) {
	hub := NewVoiceHub()
	hub.Start("u1")
	hub.Start("u2")
	require.Equal(t, 2, hub.Len())

	assert.Zero(t, hub.Sweep(5*time.Minute, time.Now()))
	assert.Equal(t, 2, hub.Sweep(5*time.Minute, time.Now().Add(10*time.Minute)))
	assert.Zero(t, hub.Len())
}

func TestVoiceJanitor(t *testing.T) {
	hub := NewVoiceHub()

	_, err := NewVoiceJanitor(hub, "every now and then", time.Minute)
	assert.Error(t, err)

	janitor, err := NewVoiceJanitor(hub, "@every 1h", 5*time.Minute)
	require.NoError(t, err)

	hub.Start("u1")
	janitor.Sweep()
	assert.Equal(t, 1, hub.Len())

	janitor.now = func() time.Time { return time.Now().Add(time.Hour) }
	janitor.Sweep()
	assert.Zero(t, hub.Len())

	janitor.Start()
	<-janitor.Stop().Done()
}
