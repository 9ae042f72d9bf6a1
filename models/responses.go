package models

// TrendPoint 情绪趋势图上的一个点
type TrendPoint struct {
	Date    string  `json:"date"` // Jan 2
	Score   int     `json:"score"`
	Emotion Emotion `json:"emotion"`
}

// MusicRecommendation 音乐推荐
type MusicRecommendation struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Reason string `json:"reason"`
}

// SoulBundle 心灵空间一次性返回的内容
type SoulBundle struct {
	Mood            Emotion               `json:"mood"`
	Affirmation     string                `json:"affirmation"`
	Recommendations []MusicRecommendation `json:"recommendations"`
	Tips            []string              `json:"tips"`
}

// UserResponse 用户响应结构体
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsGuest  bool   `json:"isGuest"`
}
