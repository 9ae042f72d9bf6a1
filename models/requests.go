package models

import (
	"fmt"
	"strings"
	"time"
)

// AnalyzeMoodRequest 直接分析一段文字/语音转写
type AnalyzeMoodRequest struct {
	Transcript string `json:"transcript"`
	InputType  string `json:"inputType"` // voice, text
}

// TextCheckInRequest 文字输入
type TextCheckInRequest struct {
	Text string `json:"text"`
}

// ListMoodsQuery 情绪记录查询参数
type ListMoodsQuery struct {
	Sort  string `form:"sort"`
	Limit int    `form:"limit"`
}

// GuestLoginRequest 访客登录
type GuestLoginRequest struct {
	Username string `json:"username"`
}

// CreateJournalRequest 新建日记
type CreateJournalRequest struct {
	Title             string   `json:"title"`
	Content           string   `json:"content"`
	Date              string   `json:"date"`
	ReflectionPrompts []string `json:"reflectionPrompts"`
}

const DateLayout = "2006-01-02"

// Validate 校验内容并补全日期
func (r *CreateJournalRequest) Validate(now time.Time) error {
	r.Title = strings.TrimSpace(r.Title)
	if strings.TrimSpace(r.Content) == "" {
		return fmt.Errorf("content must not be empty")
	}
	if r.Date == "" {
		r.Date = now.Format(DateLayout)
		return nil
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("date must be formatted as YYYY-MM-DD")
	}
	return nil
}
