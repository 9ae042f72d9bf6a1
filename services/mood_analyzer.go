package services

import (
	"FeeloraGo/capture"
	"FeeloraGo/config"
	"FeeloraGo/models"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// AnalysisResult 一次情绪分析的结果
type AnalysisResult struct {
	Emotion   models.Emotion `json:"emotion"`
	Intensity int            `json:"intensity"`
	Response  string         `json:"response"`
	Tags      []string       `json:"tags"`
	MoodColor string         `json:"moodColor"`
}

// 情绪分析的输出结构
var moodAnalysisSchema = &Schema{
	Type: "object",
	Properties: map[string]*Schema{
		"emotion": {
			Type: "string",
			Enum: emotionNames(),
		},
		"intensity": {
			Type:    "integer",
			Minimum: floatPtr(models.MinIntensity),
			Maximum: floatPtr(models.MaxIntensity),
		},
		"response": {
			Type:        "string",
			Description: "A warm, empathetic 2-3 sentence response",
		},
		"tags": {
			Type:  "array",
			Items: &Schema{Type: "string"},
		},
	},
	Required: []string{"emotion", "intensity", "response", "tags"},
}

func emotionNames() []string {
	names := make([]string, len(models.Emotions))
	for i, e := range models.Emotions {
		names[i] = string(e)
	}
	return names
}

// MoodAnalyzer 把用户输入交给大模型做情绪分类，本身没有副作用
type MoodAnalyzer struct {
	gen     Generator
	timeout time.Duration
}

func NewMoodAnalyzer(gen Generator, timeout time.Duration) *MoodAnalyzer {
	return &MoodAnalyzer{gen: gen, timeout: timeout}
}

// BuildAnalysisPrompt 情绪分析提示词
func BuildAnalysisPrompt(transcript string) string {
	return fmt.Sprintf(`Analyze the emotional tone and content of this message. Provide an empathetic, warm response.

Message: %s

Respond with JSON in this exact format:
{
  "emotion": %s,
  "intensity": number from 1-10,
  "response": "A warm, empathetic 2-3 sentence response that acknowledges their feelings and offers gentle support or encouragement",
  "tags": ["keyword1", "keyword2", "keyword3"]
}`, strconv.Quote(transcript), quotedEmotionChoices())
}

func quotedEmotionChoices() string {
	quoted := make([]string, len(models.Emotions))
	for i, e := range models.Emotions {
		quoted[i] = strconv.Quote(string(e))
	}
	return strings.Join(quoted, " or ")
}

const imageAnalysisPrompt = `Look at this selfie and estimate the person's mood from their facial expression. Be gentle and never comment on appearance.
Respond with the emotion, an intensity from 1-10, a warm 2-3 sentence response and a few keyword tags.`

// Analyze 分析一段文字或语音转写
func (a *MoodAnalyzer) Analyze(ctx context.Context, transcript string, inputType models.InputType) (*AnalysisResult, error) {
	text, err := capture.NormalizeText(transcript)
	if err != nil {
		return nil, err
	}

	config.Logger.Debugw("开始情绪分析", "inputType", inputType, "length", len(text))
	return a.invoke(ctx, func(ctx context.Context) ([]byte, error) {
		return a.gen.GenerateJSON(ctx, BuildAnalysisPrompt(text), moodAnalysisSchema)
	})
}

// AnalyzeImage 分析一张截图；模型不支持图片时返回固定的回复
func (a *MoodAnalyzer) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*AnalysisResult, error) {
	if len(image) == 0 {
		return nil, &capture.InputValidationError{Field: "image", Reason: "must not be empty", Err: capture.ErrEmptyInput}
	}

	vision, ok := a.gen.(VisionGenerator)
	if !ok {
		return cameraFallbackResult(), nil
	}

	return a.invoke(ctx, func(ctx context.Context) ([]byte, error) {
		return vision.GenerateJSONWithImage(ctx, imageAnalysisPrompt, moodAnalysisSchema, image, mimeType)
	})
}

func (a *MoodAnalyzer) invoke(ctx context.Context, call func(context.Context) ([]byte, error)) (*AnalysisResult, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	raw, err := call(ctx)
	if err != nil {
		// 有的客户端不会包装 ctx 的错误
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		config.Logger.Errorw("情绪分析失败", "error", err)
		return nil, &AnalysisError{Cause: err}
	}

	result, err := MapAnalysis(raw)
	if err != nil {
		config.Logger.Errorw("情绪分析结果解析失败", "error", err, "raw", string(raw))
		return nil, err
	}
	return result, nil
}

// MapAnalysis 校验并修正模型返回的结果：未知情绪按 neutral 处理，强度限制在 [1,10]
func MapAnalysis(raw []byte) (*AnalysisResult, error) {
	if !gjson.ValidBytes(raw) {
		return nil, &AnalysisError{Cause: fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)}
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, &AnalysisError{Cause: fmt.Errorf("%w: expected a JSON object", ErrMalformedResponse)}
	}

	emotion := models.ParseEmotion(doc.Get("emotion").String())

	intensity := models.DefaultIntensity
	switch v := doc.Get("intensity"); v.Type {
	case gjson.Number:
		intensity = models.NormalizeIntensity(v.Float())
	case gjson.String:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
			intensity = models.NormalizeIntensity(f)
		}
	}

	response := strings.TrimSpace(doc.Get("response").String())
	if response == "" {
		response = emotion.Message()
	}

	tags := []string{}
	if v := doc.Get("tags"); v.IsArray() {
		for _, tag := range v.Array() {
			if s := strings.TrimSpace(tag.String()); s != "" {
				tags = append(tags, s)
			}
		}
	}

	return &AnalysisResult{
		Emotion:   emotion,
		Intensity: intensity,
		Response:  response,
		Tags:      tags,
		MoodColor: emotion.Color(),
	}, nil
}

func cameraFallbackResult() *AnalysisResult {
	return &AnalysisResult{
		Emotion:   models.EmotionCalm,
		Intensity: models.DefaultIntensity,
		Response:  "I see you! Remember, camera-based emotion detection is coming soon. For now, use voice or text to share your feelings.",
		Tags:      []string{"visual", "selfie"},
		MoodColor: models.EmotionCalm.Color(),
	}
}
