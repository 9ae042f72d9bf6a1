package services

import (
	"FeeloraGo/config"
	"FeeloraGo/models"
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// CompanionService 心灵空间和日记用到的辅助生成：肯定语、音乐推荐、建议、日记提示
type CompanionService struct {
	gen   Generator
	moods MoodStore
}

func NewCompanionService(gen Generator, moods MoodStore) *CompanionService {
	return &CompanionService{gen: gen, moods: moods}
}

var (
	affirmationSchema = &Schema{
		Type:       "object",
		Properties: map[string]*Schema{"affirmation": {Type: "string"}},
		Required:   []string{"affirmation"},
	}

	recommendationsSchema = &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"recommendations": {
				Type: "array",
				Items: &Schema{
					Type: "object",
					Properties: map[string]*Schema{
						"title":  {Type: "string"},
						"artist": {Type: "string"},
						"reason": {Type: "string"},
					},
				},
			},
		},
		Required: []string{"recommendations"},
	}

	tipsSchema = &Schema{
		Type:       "object",
		Properties: map[string]*Schema{"tips": {Type: "array", Items: &Schema{Type: "string"}}},
		Required:   []string{"tips"},
	}

	promptsSchema = &Schema{
		Type:       "object",
		Properties: map[string]*Schema{"prompts": {Type: "array", Items: &Schema{Type: "string"}}},
		Required:   []string{"prompts"},
	}
)

// DominantMood 最近一条记录的情绪，没有记录时为 neutral
func (s *CompanionService) DominantMood(ctx context.Context, userID string) models.Emotion {
	entries, err := s.moods.List(ctx, userID, "-created_date", 5)
	if err != nil {
		config.Logger.Errorw("获取最近情绪失败", "error", err, "uid", userID)
		return models.EmotionNeutral
	}
	if len(entries) == 0 {
		return models.EmotionNeutral
	}
	return entries[0].Emotion
}

// Affirmation 根据情绪生成一段肯定语
func (s *CompanionService) Affirmation(ctx context.Context, mood models.Emotion) (string, error) {
	prompt := fmt.Sprintf(`Create a beautiful, personalized affirmation for someone feeling %s.
Make it empowering, warm, and uplifting. Keep it to 2-3 sentences.`, mood)

	var out struct {
		Affirmation string `json:"affirmation"`
	}
	if err := InvokeJSON(ctx, s.gen, prompt, affirmationSchema, &out); err != nil {
		return "", err
	}

	affirmation := strings.TrimSpace(out.Affirmation)
	if affirmation == "" {
		return "", &AnalysisError{Cause: fmt.Errorf("%w: empty affirmation", ErrMalformedResponse)}
	}
	return affirmation, nil
}

// MusicRecommendations 推荐 5 首歌
func (s *CompanionService) MusicRecommendations(ctx context.Context, mood models.Emotion) ([]models.MusicRecommendation, error) {
	prompt := fmt.Sprintf(`Recommend 5 songs or music genres that would help someone feeling %s.
Consider music that either matches their mood for catharsis or helps shift it positively.`, mood)

	var out struct {
		Recommendations []models.MusicRecommendation `json:"recommendations"`
	}
	if err := InvokeJSON(ctx, s.gen, prompt, recommendationsSchema, &out); err != nil {
		return nil, err
	}

	recs := make([]models.MusicRecommendation, 0, len(out.Recommendations))
	for _, r := range out.Recommendations {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		recs = append(recs, r)
	}
	return recs, nil
}

// WellnessTips 4 条可执行的小建议
func (s *CompanionService) WellnessTips(ctx context.Context, mood models.Emotion) ([]string, error) {
	prompt := fmt.Sprintf(`Provide 4 practical, actionable tips for someone feeling %s.
Make them realistic, compassionate, and easy to implement. Each should be 1-2 sentences.`, mood)

	var out struct {
		Tips []string `json:"tips"`
	}
	if err := InvokeJSON(ctx, s.gen, prompt, tipsSchema, &out); err != nil {
		return nil, err
	}
	return compactStrings(out.Tips), nil
}

// JournalPrompts 3 个日记反思问题
func (s *CompanionService) JournalPrompts(ctx context.Context) ([]string, error) {
	prompt := `Generate 3 thoughtful, introspective journal prompts that encourage self-reflection and emotional awareness. Make them warm and engaging.

Format as JSON array of strings.`

	var out struct {
		Prompts []string `json:"prompts"`
	}
	if err := InvokeJSON(ctx, s.gen, prompt, promptsSchema, &out); err != nil {
		return nil, err
	}
	return compactStrings(out.Prompts), nil
}

// Bundle 并发生成心灵空间的全部内容
func (s *CompanionService) Bundle(ctx context.Context, userID string) (*models.SoulBundle, error) {
	bundle := &models.SoulBundle{Mood: s.DominantMood(ctx, userID)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		affirmation, err := s.Affirmation(gctx, bundle.Mood)
		bundle.Affirmation = affirmation
		return err
	})
	g.Go(func() error {
		recs, err := s.MusicRecommendations(gctx, bundle.Mood)
		bundle.Recommendations = recs
		return err
	})
	g.Go(func() error {
		tips, err := s.WellnessTips(gctx, bundle.Mood)
		bundle.Tips = tips
		return err
	})

	if err := g.Wait(); err != nil {
		config.Logger.Errorw("生成心灵空间内容失败", "error", err, "uid", userID, "mood", bundle.Mood)
		return nil, err
	}
	return bundle, nil
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
