package controllers

import (
	"FeeloraGo/capture"
	"FeeloraGo/models"
	"FeeloraGo/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// VoiceController 语音输入：浏览器把识别事件转发过来，停止后提交转写
type VoiceController struct {
	voices *services.VoiceHub
	vibes  *services.VibeHub
}

func NewVoiceController(voices *services.VoiceHub, vibes *services.VibeHub) *VoiceController {
	return &VoiceController{voices: voices, vibes: vibes}
}

func (vc *VoiceController) Start(c *gin.Context) {
	c.JSON(http.StatusOK, vc.voices.Start(c.GetString("uid")))
}

// Results 一条识别事件
func (vc *VoiceController) Results(c *gin.Context) {
	var ev capture.RecognitionEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		respondError(c, bindError("event", err))
		return
	}
	c.JSON(http.StatusOK, vc.voices.Handle(c.GetString("uid"), ev))
}

// Stop 结束录音并提交转写
func (vc *VoiceController) Stop(c *gin.Context) {
	uid := c.GetString("uid")
	transcript, err := vc.voices.Stop(uid)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := vc.vibes.Session(uid).Submit(c.Request.Context(), services.CaptureInput{
		Type:       models.InputVoice,
		Transcript: transcript,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
