package services

import (
	"FeeloraGo/config"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Generator 外部大模型：给定提示词和输出结构，返回 JSON
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *Schema) ([]byte, error)
}

// VisionGenerator 支持图片输入的大模型
type VisionGenerator interface {
	Generator
	GenerateJSONWithImage(ctx context.Context, prompt string, schema *Schema, image []byte, mimeType string) ([]byte, error)
}

// Schema 类 JSON Schema 的输出结构描述
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Minimum     *float64           `json:"minimum,omitempty"`
	Maximum     *float64           `json:"maximum,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// NewGenerator 根据 LLM_PROVIDER 创建大模型客户端
func NewGenerator(ctx context.Context, conf config.Config) (Generator, error) {
	switch conf.LLMProvider {
	case "gemini":
		return NewGeminiClient(ctx, conf.GeminiAPIKey, conf.GeminiModel)
	case "deepseek", "":
		return NewDeepseekClient(conf.DeepseekAPIKey, conf.DeepseekAPIEndpoint, conf.DeepseekModel)
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", conf.LLMProvider)
	}
}

const (
	jsonStartMarker = "[[JSON_START]]"
	jsonEndMarker   = "[[JSON_END]]"
)

// ExtractJSON 从模型回复中取出最外层的 JSON 对象
func ExtractJSON(text string) ([]byte, error) {
	s := strings.TrimSpace(text)

	if i := strings.Index(s, jsonStartMarker); i >= 0 {
		s = s[i+len(jsonStartMarker):]
		if j := strings.Index(s, jsonEndMarker); j >= 0 {
			s = s[:j]
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrMalformedResponse)
	}

	raw := []byte(s[start : end+1])
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	return raw, nil
}

// InvokeJSON 调用大模型并把结果解码到 out
func InvokeJSON(ctx context.Context, gen Generator, prompt string, schema *Schema, out interface{}) error {
	raw, err := gen.GenerateJSON(ctx, prompt, schema)
	if err != nil {
		return &AnalysisError{Cause: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &AnalysisError{Cause: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	return nil
}

func schemaInstruction(schema *Schema) (string, error) {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("序列化输出结构失败: %w", err)
	}
	return fmt.Sprintf(`You are Feelora, a warm and supportive mood companion.
Reply with a single JSON object and nothing else. Do not use markdown.
The JSON object must match this JSON schema:
%s`, schemaJSON), nil
}

func floatPtr(f float64) *float64 { return &f }
