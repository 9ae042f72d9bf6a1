package services

import (
	"FeeloraGo/models"
	"FeeloraGo/utils"
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryMoodStore 内存存储，进程结束即丢失，用于命令行和测试
type MemoryMoodStore struct {
	mu      sync.RWMutex
	entries map[string][]models.MoodEntry
	now     func() time.Time
}

func NewMemoryMoodStore() *MemoryMoodStore {
	return &MemoryMoodStore{
		entries: make(map[string][]models.MoodEntry),
		now:     time.Now,
	}
}

func (s *MemoryMoodStore) List(ctx context.Context, userID, sortKey string, limit int) ([]models.MoodEntry, error) {
	order, err := ParseSortKey(sortKey)
	if err != nil {
		return nil, err
	}
	limit = NormalizeLimit(limit)

	s.mu.RLock()
	entries := append([]models.MoodEntry(nil), s.entries[userID]...)
	s.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		var less, equal bool
		switch order.Column {
		case "intensity":
			less, equal = a.Intensity < b.Intensity, a.Intensity == b.Intensity
		case "emotion":
			less, equal = a.Emotion < b.Emotion, a.Emotion == b.Emotion
		default:
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
		if equal {
			// 次要排序：最新的在前
			return a.CreatedAt.After(b.CreatedAt)
		}
		if order.Desc {
			return !less
		}
		return less
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *MemoryMoodStore) Create(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error) {
	if entry.ID == "" {
		entry.ID = utils.GenerateID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}

	stored := *entry
	stored.Tags = append([]string{}, entry.Tags...)

	s.mu.Lock()
	s.entries[entry.UserID] = append(s.entries[entry.UserID], stored)
	s.mu.Unlock()
	return entry, nil
}
