package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID        string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Username  string     `gorm:"type:varchar(100)" json:"username"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	IsGuest   bool       `gorm:"default:false" json:"isGuest"`
}

func (u *User) GetDisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return "friend"
}
