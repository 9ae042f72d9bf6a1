package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEmotion(t *testing.T) {
	tests := []struct {
		in   string
		want Emotion
	}{
		{"happy", EmotionHappy},
		{"  Angry ", EmotionAngry},
		{"EXCITED", EmotionExcited},
		{"joyful", EmotionNeutral},
		{"", EmotionNeutral},
		{"happy!", EmotionNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEmotion(tt.in))
		})
	}
}

func TestEmotionColorTable(t *testing.T) {
	want := map[Emotion]string{
		EmotionHappy:    "#FFD60A",
		EmotionSad:      "#9B59B6",
		EmotionCalm:     "#87CEEB",
		EmotionStressed: "#FF6B6B",
		EmotionExcited:  "#FF6B9D",
		EmotionTired:    "#95A5A6",
		EmotionNeutral:  "#BDC3C7",
		EmotionAnxious:  "#FF8C42",
		EmotionAngry:    "#E74C3C",
	}
	assert.Len(t, Emotions, len(want))
	for _, e := range Emotions {
		assert.Equal(t, want[e], e.Color(), "color of %s", e)
	}

	// 未知情绪使用 neutral 的颜色
	assert.Equal(t, "#BDC3C7", Emotion("melancholy").Color())
	assert.Equal(t, 5, Emotion("melancholy").Score())
}

func TestNormalizeIntensity(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int
	}{
		{"in range", 7, 7},
		{"lower bound", 1, 1},
		{"upper bound", 10, 10},
		{"zero", 0, 1},
		{"negative", -3, 1},
		{"above range", 42, 10},
		{"fraction rounds down", 6.4, 6},
		{"fraction rounds up", 6.5, 7},
		{"tiny fraction", 0.4, 1},
		{"just above max", 10.49, 10},
		{"positive inf", math.Inf(1), 10},
		{"negative inf", math.Inf(-1), 1},
		{"nan", math.NaN(), DefaultIntensity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeIntensity(tt.in)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, MinIntensity)
			assert.LessOrEqual(t, got, MaxIntensity)
		})
	}
}

func TestParseInputType(t *testing.T) {
	it, ok := ParseInputType("Voice")
	assert.True(t, ok)
	assert.Equal(t, InputVoice, it)

	_, ok = ParseInputType("telepathy")
	assert.False(t, ok)
}

func TestNewMoodEntry_DerivesColorAndClamps(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("X", 3600))
	e := NewMoodEntry("id-1", "u1", Emotion("bogus"), 99, InputText, "hi", "hello", nil, now)

	assert.Equal(t, EmotionNeutral, e.Emotion)
	assert.Equal(t, "#BDC3C7", e.MoodColor)
	assert.Equal(t, 10, e.Intensity)
	assert.Equal(t, []string{}, e.Tags)
	assert.Equal(t, time.UTC, e.CreatedAt.Location())
}

func TestCreateJournalRequest_Validate(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	r := CreateJournalRequest{Content: "   "}
	assert.Error(t, r.Validate(now))

	r = CreateJournalRequest{Content: "good day", Title: "  Sunday "}
	assert.NoError(t, r.Validate(now))
	assert.Equal(t, "2026-05-04", r.Date)
	assert.Equal(t, "Sunday", r.Title)

	r = CreateJournalRequest{Content: "x", Date: "05/04/2026"}
	assert.Error(t, r.Validate(now))
}
