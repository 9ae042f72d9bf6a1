package services

import (
	"FeeloraGo/capture"
	"FeeloraGo/models"
	"FeeloraGo/utils"
	"context"
	"time"

	"gorm.io/gorm"
)

// JournalStore 日记存储
type JournalStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewJournalStore(db *gorm.DB) *JournalStore {
	return &JournalStore{db: db, now: time.Now}
}

// List 按日期倒序
func (s *JournalStore) List(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc").
		Order("created_at desc").
		Limit(NormalizeLimit(limit)).
		Find(&entries).Error
	if err != nil {
		return nil, &PersistenceError{Op: "list", Cause: err}
	}
	return entries, nil
}

// Create 新建日记，内容为空时拒绝
func (s *JournalStore) Create(ctx context.Context, userID string, req models.CreateJournalRequest) (*models.JournalEntry, error) {
	now := s.now()
	if err := req.Validate(now); err != nil {
		return nil, &capture.InputValidationError{Field: "journal", Reason: err.Error()}
	}

	prompts := req.ReflectionPrompts
	if prompts == nil {
		prompts = []string{}
	}
	entry := &models.JournalEntry{
		ID:                utils.GenerateID(),
		UserID:            userID,
		Title:             req.Title,
		Content:           req.Content,
		Date:              req.Date,
		ReflectionPrompts: prompts,
		CreatedAt:         now.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, &PersistenceError{Op: "create", Cause: err}
	}
	return entry, nil
}
