package models

import (
	"math"
	"strings"
)

// Emotion 情绪类型
type Emotion string

const (
	EmotionHappy    Emotion = "happy"
	EmotionSad      Emotion = "sad"
	EmotionCalm     Emotion = "calm"
	EmotionStressed Emotion = "stressed"
	EmotionExcited  Emotion = "excited"
	EmotionTired    Emotion = "tired"
	EmotionNeutral  Emotion = "neutral"
	EmotionAnxious  Emotion = "anxious"
	EmotionAngry    Emotion = "angry"
)

// Emotions 按固定顺序列出所有情绪
var Emotions = []Emotion{
	EmotionHappy, EmotionSad, EmotionCalm, EmotionStressed, EmotionExcited,
	EmotionTired, EmotionNeutral, EmotionAnxious, EmotionAngry,
}

type emotionInfo struct {
	color   string
	score   int
	message string
}

// 情绪颜色、趋势分数与提示语的固定对照表
var emotionTable = map[Emotion]emotionInfo{
	EmotionHappy:    {color: "#FFD60A", score: 10, message: "You're radiating joy!"},
	EmotionSad:      {color: "#9B59B6", score: 2, message: "It's okay to feel this way"},
	EmotionCalm:     {color: "#87CEEB", score: 7, message: "Your energy is peaceful"},
	EmotionStressed: {color: "#FF6B6B", score: 1, message: "Take a deep breath"},
	EmotionExcited:  {color: "#FF6B9D", score: 9, message: "Your excitement is contagious!"},
	EmotionTired:    {color: "#95A5A6", score: 4, message: "Rest is productive too"},
	EmotionNeutral:  {color: "#BDC3C7", score: 5, message: "A balanced state of being"},
	EmotionAnxious:  {color: "#FF8C42", score: 3, message: "You're stronger than you think"},
	EmotionAngry:    {color: "#E74C3C", score: 0, message: "Your feelings are valid"},
}

// ParseEmotion 解析情绪，无法识别时返回 neutral
func ParseEmotion(s string) Emotion {
	e := Emotion(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := emotionTable[e]; ok {
		return e
	}
	return EmotionNeutral
}

// Valid 是否为已知情绪
func (e Emotion) Valid() bool {
	_, ok := emotionTable[e]
	return ok
}

// Color 情绪对应的颜色
func (e Emotion) Color() string {
	return e.info().color
}

// Score 情绪趋势图使用的分数
func (e Emotion) Score() int {
	return e.info().score
}

// Message 情绪对应的一句鼓励
func (e Emotion) Message() string {
	return e.info().message
}

func (e Emotion) info() emotionInfo {
	if info, ok := emotionTable[e]; ok {
		return info
	}
	return emotionTable[EmotionNeutral]
}

const (
	MinIntensity     = 1
	MaxIntensity     = 10
	DefaultIntensity = 5
)

// NormalizeIntensity 四舍五入后限制在 [1,10]，NaN 取默认值
func NormalizeIntensity(v float64) int {
	if math.IsNaN(v) {
		return DefaultIntensity
	}
	r := math.Round(v)
	if r < MinIntensity {
		return MinIntensity
	}
	if r > MaxIntensity {
		return MaxIntensity
	}
	return int(r)
}

// InputType 情绪记录的输入方式
type InputType string

const (
	InputVoice  InputType = "voice"
	InputCamera InputType = "camera"
	InputText   InputType = "text"
)

// ParseInputType 解析输入方式
func ParseInputType(s string) (InputType, bool) {
	switch t := InputType(strings.ToLower(strings.TrimSpace(s))); t {
	case InputVoice, InputCamera, InputText:
		return t, true
	default:
		return "", false
	}
}
