package controllers

import (
	"FeeloraGo/models"
	"FeeloraGo/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// JournalController 日记
type JournalController struct {
	journals  *services.JournalStore
	companion *services.CompanionService
}

func NewJournalController(journals *services.JournalStore, companion *services.CompanionService) *JournalController {
	return &JournalController{journals: journals, companion: companion}
}

func (jc *JournalController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := jc.journals.List(c.Request.Context(), c.GetString("uid"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (jc *JournalController) Create(c *gin.Context) {
	var req models.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError("journal", err))
		return
	}

	entry, err := jc.journals.Create(c.Request.Context(), c.GetString("uid"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Prompts 生成日记反思问题
func (jc *JournalController) Prompts(c *gin.Context) {
	prompts, err := jc.companion.JournalPrompts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompts": prompts})
}
