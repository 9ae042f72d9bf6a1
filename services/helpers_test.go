package services

import (
	"FeeloraGo/config"
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeGenerator 记录调用并按脚本返回
type fakeGenerator struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	respond func(ctx context.Context, prompt string, schema *Schema) ([]byte, error)
}

func (g *fakeGenerator) GenerateJSON(ctx context.Context, prompt string, schema *Schema) ([]byte, error) {
	g.mu.Lock()
	g.calls++
	g.prompts = append(g.prompts, prompt)
	respond := g.respond
	g.mu.Unlock()
	return respond(ctx, prompt, schema)
}

func (g *fakeGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func staticGenerator(body string) *fakeGenerator {
	return &fakeGenerator{respond: func(context.Context, string, *Schema) ([]byte, error) {
		return []byte(body), nil
	}}
}

func errorGenerator(err error) *fakeGenerator {
	return &fakeGenerator{respond: func(context.Context, string, *Schema) ([]byte, error) {
		return nil, err
	}}
}

// fakeVision 支持图片的生成器
type fakeVision struct {
	*fakeGenerator
	images [][]byte
}

func (v *fakeVision) GenerateJSONWithImage(ctx context.Context, prompt string, schema *Schema, image []byte, mimeType string) ([]byte, error) {
	v.mu.Lock()
	v.images = append(v.images, image)
	v.mu.Unlock()
	return v.GenerateJSON(ctx, prompt, schema)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDB(config.Config{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "feelora_test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDB(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}
