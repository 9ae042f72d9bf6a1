package controllers

import (
	"FeeloraGo/capture"
	"FeeloraGo/models"
	"FeeloraGo/services"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SoulController 心灵空间：肯定语、音乐、建议
type SoulController struct {
	companion *services.CompanionService
}

func NewSoulController(companion *services.CompanionService) *SoulController {
	return &SoulController{companion: companion}
}

// Bundle 一次返回全部内容
func (sc *SoulController) Bundle(c *gin.Context) {
	bundle, err := sc.companion.Bundle(c.Request.Context(), c.GetString("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

func (sc *SoulController) Affirmation(c *gin.Context) {
	mood, ok := sc.mood(c)
	if !ok {
		return
	}
	affirmation, err := sc.companion.Affirmation(c.Request.Context(), mood)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mood": mood, "affirmation": affirmation})
}

func (sc *SoulController) Music(c *gin.Context) {
	mood, ok := sc.mood(c)
	if !ok {
		return
	}
	recs, err := sc.companion.MusicRecommendations(c.Request.Context(), mood)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mood": mood, "recommendations": recs})
}

func (sc *SoulController) Tips(c *gin.Context) {
	mood, ok := sc.mood(c)
	if !ok {
		return
	}
	tips, err := sc.companion.WellnessTips(c.Request.Context(), mood)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mood": mood, "tips": tips})
}

// mood 优先使用 ?mood=，否则取最近一次记录的情绪
func (sc *SoulController) mood(c *gin.Context) (models.Emotion, bool) {
	raw := c.Query("mood")
	if raw == "" {
		return sc.companion.DominantMood(c.Request.Context(), c.GetString("uid")), true
	}
	mood := models.ParseEmotion(raw)
	if string(mood) != strings.ToLower(strings.TrimSpace(raw)) {
		respondError(c, &capture.InputValidationError{Field: "mood", Reason: "unknown mood"})
		return "", false
	}
	return mood, true
}
