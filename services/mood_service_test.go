package services

import (
	"FeeloraGo/capture"
	"FeeloraGo/models"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore 写入总是失败
type failingStore struct{ MoodStore }

func (failingStore) Create(context.Context, *models.MoodEntry) (*models.MoodEntry, error) {
	return nil, &PersistenceError{Op: "create", Cause: errors.New("disk full")}
}

func newTestMoodService(gen Generator, store MoodStore) *MoodService {
	svc := NewMoodService(NewMoodAnalyzer(gen, time.Second), store)
	svc.now = func() time.Time { return baseTime }
	return svc
}

func TestMoodService_CheckIn(t *testing.T) {
	gen := staticGenerator(`{"emotion":"happy","intensity":8,"response":"That's wonderful to hear!","tags":["positive","energy"]}`)
	store := NewMemoryMoodStore()
	svc := newTestMoodService(gen, store)

	checkIn, err := svc.CheckIn(context.Background(), "u1", "I'm feeling great today!", models.InputText)
	require.NoError(t, err)

	assert.Equal(t, models.EmotionHappy, checkIn.Result.Emotion)
	entry := checkIn.Entry
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, models.EmotionHappy, entry.Emotion)
	assert.Equal(t, "#FFD60A", entry.MoodColor)
	assert.Equal(t, models.InputText, entry.InputType)
	assert.Equal(t, "I'm feeling great today!", entry.Transcript)
	assert.Equal(t, "That's wonderful to hear!", entry.AIResponse)
	assert.Equal(t, baseTime, entry.CreatedAt)

	history, err := svc.History(context.Background(), "u1", "", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entry.ID, history[0].ID)
}

func TestMoodService_EmptyInput(t *testing.T) {
	gen := staticGenerator(`{}`)
	store := NewMemoryMoodStore()
	svc := newTestMoodService(gen, store)

	_, err := svc.CheckIn(context.Background(), "u1", "   ", models.InputVoice)
	assert.ErrorIs(t, err, capture.ErrEmptyInput)
	assert.Zero(t, gen.Calls())

	history, err := svc.History(context.Background(), "u1", "", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMoodService_AnalysisFailureCreatesNoEntry(t *testing.T) {
	store := NewMemoryMoodStore()
	svc := newTestMoodService(errorGenerator(errors.New("503")), store)

	_, err := svc.CheckIn(context.Background(), "u1", "hello", models.InputText)
	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)

	history, err := svc.History(context.Background(), "u1", "", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMoodService_PersistenceFailure(t *testing.T) {
	gen := staticGenerator(`{"emotion":"calm","intensity":5,"response":"ok","tags":[]}`)
	svc := newTestMoodService(gen, failingStore{NewMemoryMoodStore()})

	_, err := svc.CheckIn(context.Background(), "u1", "hello", models.InputText)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, gen.Calls())
}

func TestMoodService_CheckInImage(t *testing.T) {
	store := NewMemoryMoodStore()
	svc := newTestMoodService(staticGenerator(`{}`), store)

	snap := &capture.Snapshot{Name: "mood-capture-1.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}}
	checkIn, err := svc.CheckInImage(context.Background(), "u1", snap)
	require.NoError(t, err)
	assert.Equal(t, models.InputCamera, checkIn.Entry.InputType)
	assert.Equal(t, models.EmotionCalm, checkIn.Entry.Emotion)
	assert.Empty(t, checkIn.Entry.Transcript)
	assert.Equal(t, []string{"visual", "selfie"}, checkIn.Entry.Tags)

	_, err = svc.CheckInImage(context.Background(), "u1", &capture.Snapshot{})
	assert.ErrorIs(t, err, capture.ErrEmptyInput)
}

func TestMoodService_Trend(t *testing.T) {
	store := NewMemoryMoodStore()
	svc := newTestMoodService(staticGenerator(`{}`), store)

	emotions := []models.Emotion{models.EmotionSad, models.EmotionCalm, models.EmotionHappy}
	for i := 0; i < 16; i++ {
		e := emotions[i%len(emotions)]
		_, err := store.Create(context.Background(), models.NewMoodEntry("", "u1", e, 5, models.InputText,
			"x", "y", nil, baseTime.AddDate(0, 0, i)))
		require.NoError(t, err)
	}

	points, err := svc.Trend(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, points, 14)

	// 最早的两条不在窗口内，按时间正序
	assert.Equal(t, "Mar 3", points[0].Date)
	assert.Equal(t, models.EmotionHappy, points[0].Emotion)
	assert.Equal(t, 10, points[0].Score)
	assert.Equal(t, "Mar 16", points[13].Date)
	assert.Equal(t, models.EmotionSad, points[13].Emotion)
	assert.Equal(t, 2, points[13].Score)
}
