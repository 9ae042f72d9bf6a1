package controllers

import (
	"FeeloraGo/capture"
	"FeeloraGo/models"
	"FeeloraGo/services"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	maxImageSize     = 10 << 20
	cameraReadyLimit = 5 * time.Second
)

// VibeController 情绪打卡页面：提交输入，查看/重置结果
type VibeController struct {
	vibes *services.VibeHub
}

func NewVibeController(vibes *services.VibeHub) *VibeController {
	return &VibeController{vibes: vibes}
}

// SubmitText 文字输入
func (vc *VibeController) SubmitText(c *gin.Context) {
	var req models.TextCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError("text", err))
		return
	}
	vc.submit(c, services.CaptureInput{Type: models.InputText, Transcript: req.Text})
}

// SubmitCamera 上传一张图片作为摄像头画面，截图后分析
func (vc *VibeController) SubmitCamera(c *gin.Context) {
	data, err := readImage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	snap, err := captureSnapshot(c.Request.Context(), capture.ImageDevice(data))
	if err != nil {
		respondError(c, err)
		return
	}
	vc.submit(c, services.CaptureInput{Type: models.InputCamera, Snapshot: snap})
}

// GetVibe 当前状态，不会重复朗读
func (vc *VibeController) GetVibe(c *gin.Context) {
	c.JSON(http.StatusOK, vc.vibes.Session(c.GetString("uid")).View())
}

// Reset 回到输入界面
func (vc *VibeController) Reset(c *gin.Context) {
	c.JSON(http.StatusOK, vc.vibes.Session(c.GetString("uid")).Reset())
}

func (vc *VibeController) submit(c *gin.Context, in services.CaptureInput) {
	view, err := vc.vibes.Session(c.GetString("uid")).Submit(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func readImage(c *gin.Context) ([]byte, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return nil, &capture.InputValidationError{Field: "image", Reason: "an image file is required", Err: capture.ErrEmptyInput}
	}
	if header.Size > maxImageSize {
		return nil, &capture.InputValidationError{Field: "image", Reason: "image is too large"}
	}

	f, err := header.Open()
	if err != nil {
		return nil, &capture.InputValidationError{Field: "image", Reason: "unreadable upload", Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize))
	if err != nil {
		return nil, &capture.InputValidationError{Field: "image", Reason: "unreadable upload", Err: err}
	}
	return data, nil
}

// captureSnapshot 打开设备、等待就绪、截一帧，任何情况下都会释放设备
func captureSnapshot(ctx context.Context, device capture.CameraDevice) (*capture.Snapshot, error) {
	camera := capture.NewCamera(device)
	defer camera.Close()

	if err := camera.Start(ctx); err != nil {
		return nil, err
	}

	readyCtx, cancel := context.WithTimeout(ctx, cameraReadyLimit)
	defer cancel()
	if err := camera.WaitReady(readyCtx); err != nil {
		return nil, err
	}
	return camera.Capture()
}
