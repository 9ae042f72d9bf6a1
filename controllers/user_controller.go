package controllers

import (
	"FeeloraGo/config"
	"FeeloraGo/models"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct{}

func (uc *UserController) GetUser(c *gin.Context) {
	userID := c.GetString("uid")

	var user models.User
	if err := config.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "We couldn't find your account."})
			return
		}
		config.Logger.Errorw("数据库查询失败", "error", err, "userID", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": models.UserResponse{
			ID:       user.ID,
			Username: user.GetDisplayName(),
			IsGuest:  user.IsGuest,
		},
	})
}
