package controllers

import (
	"FeeloraGo/capture"
	"FeeloraGo/config"
	"FeeloraGo/models"
	"FeeloraGo/services"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// cachePurger 支持清理缓存的存储
type cachePurger interface {
	Purge(ctx context.Context, userID string) error
}

// MoodController 情绪记录查询和直接分析
type MoodController struct {
	moods    *services.MoodService
	analyzer services.Analyzer
	store    services.MoodStore
}

func NewMoodController(moods *services.MoodService, analyzer services.Analyzer, store services.MoodStore) *MoodController {
	return &MoodController{moods: moods, analyzer: analyzer, store: store}
}

// ListMoods 按 sort/limit 查询历史记录
func (mc *MoodController) ListMoods(c *gin.Context) {
	var q models.ListMoodsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, &capture.InputValidationError{Field: "limit", Reason: "must be a number", Err: err})
		return
	}

	entries, err := mc.moods.History(c.Request.Context(), c.GetString("uid"), q.Sort, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moods": entries})
}

// Analyze 只做情绪分析，不保存
func (mc *MoodController) Analyze(c *gin.Context) {
	var req models.AnalyzeMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError("transcript", err))
		return
	}

	inputType := models.InputText
	if req.InputType != "" {
		t, ok := models.ParseInputType(req.InputType)
		if !ok || t == models.InputCamera {
			respondError(c, &capture.InputValidationError{Field: "inputType", Reason: "must be voice or text"})
			return
		}
		inputType = t
	}

	result, err := mc.analyzer.Analyze(c.Request.Context(), req.Transcript, inputType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Trend 最近的情绪走势
func (mc *MoodController) Trend(c *gin.Context) {
	points, err := mc.moods.Trend(c.Request.Context(), c.GetString("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trend": points})
}

// PurgeCache 内部接口：清理某个用户的列表缓存
func (mc *MoodController) PurgeCache(c *gin.Context) {
	uid := c.Param("uid")
	config.Logger.Infow("内部接口调用：清理情绪缓存", "uid", uid, "sourceIP", c.ClientIP())

	if purger, ok := mc.store.(cachePurger); ok {
		if err := purger.Purge(c.Request.Context(), uid); err != nil {
			config.Logger.Errorw("清理情绪缓存失败", "error", err, "uid", uid)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cache purge failed"})
			return
		}
	}
	c.Status(http.StatusNoContent)
}
