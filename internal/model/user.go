package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultNotificationTime 新用户默认的通知时刻（本地时间 HH:MM）
const DefaultNotificationTime = "20:00"

// swagger:model User
type User struct {
	ID       string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email    string `gorm:"size:255;unique;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	// NotificationTime 以 "HH:MM" 形式保存的本地通知时刻
	NotificationTime             string    `gorm:"size:5;default:'20:00'" json:"notification_time"`
	IsNotificationSetupCompleted bool      `gorm:"default:false;not null" json:"is_notification_setup_completed"`
	CreatedAt                    time.Time `gorm:"not null" json:"created_at"`

	Challenges []Challenge `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		// 时间戳统一存 UTC（无偏移信息）
		u.CreatedAt = time.Now().UTC()
	}
	return
}
