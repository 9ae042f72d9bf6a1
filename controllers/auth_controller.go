package controllers

import (
	"FeeloraGo/config"
	"FeeloraGo/models"
	"FeeloraGo/utils"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthController 认证控制器
type AuthController struct{}

const maxUsernameLength = 100

// GuestLogin 访客登录，每次创建一个新的访客用户
func (ac *AuthController) GuestLogin(c *gin.Context) {
	var req models.GuestLoginRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, bindError("username", err))
			return
		}
	}

	username := strings.TrimSpace(req.Username)
	if len(username) > maxUsernameLength {
		username = username[:maxUsernameLength]
	}

	now := time.Now()
	user := models.User{
		ID:        utils.GenerateID(),
		Username:  username,
		CreatedAt: now,
		LastLogin: &now,
		IsGuest:   true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		config.Logger.Errorw("用户创建失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We couldn't sign you in right now. Please try again."})
		return
	}
	config.Logger.Infow("用户创建成功", "userID", user.ID, "guest", true)

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		config.Logger.Errorw("令牌生成失败", "error", err, "userID", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We couldn't sign you in right now. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": models.UserResponse{
			ID:       user.ID,
			Username: user.GetDisplayName(),
			IsGuest:  user.IsGuest,
		},
	})
}
