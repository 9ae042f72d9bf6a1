package models

import "time"

// JournalEntry 日记
type JournalEntry struct {
	ID                string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID            string    `gorm:"type:varchar(50);index" json:"userId"`
	Title             string    `gorm:"type:varchar(200)" json:"title"`
	Content           string    `gorm:"type:text" json:"content"`
	Date              string    `gorm:"type:varchar(10);index" json:"date"` // YYYY-MM-DD
	ReflectionPrompts []string  `gorm:"serializer:json" json:"reflectionPrompts"`
	CreatedAt         time.Time `json:"createdAt"`
}
