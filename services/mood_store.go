package services

import (
	"FeeloraGo/capture"
	"FeeloraGo/config"
	"FeeloraGo/models"
	"FeeloraGo/utils"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MoodStore 情绪记录存储，只支持查询和新建
type MoodStore interface {
	List(ctx context.Context, userID, sortKey string, limit int) ([]models.MoodEntry, error)
	Create(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error)
}

const (
	DefaultSortKey   = "-created_date"
	DefaultListLimit = 30
	MaxListLimit     = 100
)

// 可排序字段，created_date 兼容前端的写法
var sortColumns = map[string]string{
	"created_date": "created_at",
	"created_at":   "created_at",
	"intensity":    "intensity",
	"emotion":      "emotion",
}

// SortOrder 排序方式
type SortOrder struct {
	Column string
	Desc   bool
}

func (o SortOrder) String() string {
	if o.Desc {
		return "-" + o.Column
	}
	return "+" + o.Column
}

// ParseSortKey "-key" 和 "key" 都是降序，"+key" 为升序
func ParseSortKey(key string) (SortOrder, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultSortKey
	}

	desc := true
	switch key[0] {
	case '-':
		key = key[1:]
	case '+':
		desc = false
		key = key[1:]
	}

	column, ok := sortColumns[key]
	if !ok {
		return SortOrder{}, &capture.InputValidationError{Field: "sort", Reason: fmt.Sprintf("unknown sort key %q", key)}
	}
	return SortOrder{Column: column, Desc: desc}, nil
}

// NormalizeLimit 默认 30 条，最多 100 条
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// GormMoodStore 数据库存储，配置了 Redis 时缓存列表查询
type GormMoodStore struct {
	db    *gorm.DB
	cache *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

func NewGormMoodStore(db *gorm.DB, cache *redis.Client, ttl time.Duration) *GormMoodStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &GormMoodStore{db: db, cache: cache, ttl: ttl}
}

func moodListKey(userID string) string    { return "feelora:moods:" + userID }
func moodVersionKey(userID string) string { return "feelora:moods:" + userID + ":v" }

func (s *GormMoodStore) List(ctx context.Context, userID, sortKey string, limit int) ([]models.MoodEntry, error) {
	order, err := ParseSortKey(sortKey)
	if err != nil {
		return nil, err
	}
	limit = NormalizeLimit(limit)
	field := fmt.Sprintf("%s|%d", order, limit)

	if entries, ok := s.readCache(ctx, userID, field); ok {
		return entries, nil
	}

	v, err, _ := s.group.Do(userID+"|"+field, func() (interface{}, error) {
		version := s.cacheVersion(ctx, userID)

		var entries []models.MoodEntry
		query := s.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order(clause.OrderByColumn{Column: clause.Column{Name: order.Column}, Desc: order.Desc})
		if order.Column != "created_at" {
			query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true})
		}
		if err := query.Limit(limit).Find(&entries).Error; err != nil {
			return nil, &PersistenceError{Op: "list", Cause: err}
		}

		s.writeCache(ctx, userID, field, version, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}

	// singleflight 的结果是共享的，返回副本
	shared := v.([]models.MoodEntry)
	return append([]models.MoodEntry(nil), shared...), nil
}

func (s *GormMoodStore) Create(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error) {
	if entry.ID == "" {
		entry.ID = utils.GenerateID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		config.Logger.Errorw("情绪记录保存失败", "error", err, "uid", entry.UserID)
		return nil, &PersistenceError{Op: "create", Cause: err}
	}

	// 写入后让缓存失效，下次查询重新读库
	if err := s.Purge(ctx, entry.UserID); err != nil {
		config.Logger.Errorw("情绪记录缓存失效失败", "error", err, "uid", entry.UserID)
	}
	return entry, nil
}

// Purge 删除用户的列表缓存
func (s *GormMoodStore) Purge(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	_, err := s.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, moodVersionKey(userID))
		pipe.Del(ctx, moodListKey(userID))
		return nil
	})
	return err
}

func (s *GormMoodStore) readCache(ctx context.Context, userID, field string) ([]models.MoodEntry, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.HGet(ctx, moodListKey(userID), field).Bytes()
	if err != nil {
		if err != redis.Nil {
			config.Logger.Errorw("读取情绪记录缓存失败", "error", err, "uid", userID)
		}
		return nil, false
	}

	var entries []models.MoodEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		config.Logger.Errorw("情绪记录缓存解析失败", "error", err, "uid", userID)
		return nil, false
	}
	return entries, true
}

func (s *GormMoodStore) cacheVersion(ctx context.Context, userID string) string {
	if s.cache == nil {
		return ""
	}
	v, err := s.cache.Get(ctx, moodVersionKey(userID)).Result()
	if err == redis.Nil {
		return "0"
	}
	if err != nil {
		return ""
	}
	return v
}

// writeCache 只有在读库期间没有新写入时才回填缓存
func (s *GormMoodStore) writeCache(ctx context.Context, userID, field, version string, entries []models.MoodEntry) {
	if s.cache == nil || version == "" {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}

	versionKey := moodVersionKey(userID)
	err = s.cache.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Result()
		if err == redis.Nil {
			current = "0"
		} else if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, moodListKey(userID), field, data)
			pipe.Expire(ctx, moodListKey(userID), s.ttl)
			return nil
		})
		return err
	}, versionKey)
	if err != nil && err != redis.TxFailedErr {
		config.Logger.Errorw("写入情绪记录缓存失败", "error", err, "uid", userID)
	}
}
