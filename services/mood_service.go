package services

import (
	"FeeloraGo/capture"
	"FeeloraGo/config"
	"FeeloraGo/models"
	"FeeloraGo/utils"
	"context"
	"time"
)

// Analyzer 情绪分析网关
type Analyzer interface {
	Analyze(ctx context.Context, transcript string, inputType models.InputType) (*AnalysisResult, error)
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*AnalysisResult, error)
}

// CheckIn 一次完整的情绪打卡
type CheckIn struct {
	Result *AnalysisResult   `json:"result"`
	Entry  *models.MoodEntry `json:"entry"`
}

// MoodService 输入 → 分析 → 保存
type MoodService struct {
	analyzer Analyzer
	store    MoodStore
	now      func() time.Time
}

func NewMoodService(analyzer Analyzer, store MoodStore) *MoodService {
	return &MoodService{analyzer: analyzer, store: store, now: time.Now}
}

// CheckIn 分析文字/语音转写并保存一条情绪记录，空输入不会调用分析
func (s *MoodService) CheckIn(ctx context.Context, userID, transcript string, inputType models.InputType) (*CheckIn, error) {
	text, err := capture.NormalizeText(transcript)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(ctx, text, inputType)
	if err != nil {
		return nil, err
	}

	return s.persist(ctx, userID, result, inputType, text)
}

// CheckInImage 分析摄像头截图并保存
func (s *MoodService) CheckInImage(ctx context.Context, userID string, snap *capture.Snapshot) (*CheckIn, error) {
	if snap == nil || len(snap.Data) == 0 {
		return nil, &capture.InputValidationError{Field: "image", Reason: "must not be empty", Err: capture.ErrEmptyInput}
	}

	result, err := s.analyzer.AnalyzeImage(ctx, snap.Data, snap.ContentType)
	if err != nil {
		return nil, err
	}

	return s.persist(ctx, userID, result, models.InputCamera, "")
}

func (s *MoodService) persist(ctx context.Context, userID string, result *AnalysisResult, inputType models.InputType, transcript string) (*CheckIn, error) {
	entry := models.NewMoodEntry(
		utils.GenerateID(),
		userID,
		result.Emotion,
		result.Intensity,
		inputType,
		transcript,
		result.Response,
		result.Tags,
		s.now(),
	)

	saved, err := s.store.Create(ctx, entry)
	if err != nil {
		return nil, err
	}

	config.Logger.Infow("情绪记录已保存",
		"uid", userID,
		"entryID", saved.ID,
		"emotion", saved.Emotion,
		"intensity", saved.Intensity,
		"inputType", inputType,
	)
	return &CheckIn{Result: result, Entry: saved}, nil
}

// History 查询情绪记录
func (s *MoodService) History(ctx context.Context, userID, sortKey string, limit int) ([]models.MoodEntry, error) {
	return s.store.List(ctx, userID, sortKey, limit)
}

const trendWindow = 14

// Trend 最近 14 条记录的情绪分数，按时间正序
func (s *MoodService) Trend(ctx context.Context, userID string) ([]models.TrendPoint, error) {
	entries, err := s.store.List(ctx, userID, "-created_date", trendWindow)
	if err != nil {
		return nil, err
	}

	points := make([]models.TrendPoint, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		points = append(points, models.TrendPoint{
			Date:    e.CreatedAt.Format("Jan 2"),
			Score:   e.Emotion.Score(),
			Emotion: e.Emotion,
		})
	}
	return points, nil
}
