package models

import "time"

// MoodEntry 情绪记录模型，创建后不再修改
type MoodEntry struct {
	ID         string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(50);index:idx_mood_user_created,priority:1" json:"userId"`
	Emotion    Emotion   `gorm:"type:varchar(20)" json:"emotion"`
	Intensity  int       `json:"intensity"`
	InputType  InputType `gorm:"type:varchar(10)" json:"inputType"`
	Transcript string    `gorm:"type:text" json:"transcript"`
	AIResponse string    `gorm:"type:text" json:"aiResponse"`
	MoodColor  string    `gorm:"type:varchar(9)" json:"moodColor"`
	Tags       []string  `gorm:"serializer:json" json:"tags"`
	CreatedAt  time.Time `gorm:"index:idx_mood_user_created,priority:2" json:"createdAt"`
}

// NewMoodEntry 构造情绪记录，颜色由情绪推导，强度限制在 [1,10]
func NewMoodEntry(id, userID string, emotion Emotion, intensity int, inputType InputType,
	transcript, aiResponse string, tags []string, createdAt time.Time) *MoodEntry {
	if !emotion.Valid() {
		emotion = EmotionNeutral
	}
	if tags == nil {
		tags = []string{}
	}
	return &MoodEntry{
		ID:         id,
		UserID:     userID,
		Emotion:    emotion,
		Intensity:  NormalizeIntensity(float64(intensity)),
		InputType:  inputType,
		Transcript: transcript,
		AIResponse: aiResponse,
		MoodColor:  emotion.Color(),
		Tags:       append([]string{}, tags...),
		CreatedAt:  createdAt.UTC(),
	}
}
