package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Challenge 一条挑战记录，score 取值 1-5
// swagger:model Challenge
type Challenge struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Score     int       `gorm:"not null" json:"score"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Challenge) TableName() string {
	return "challenges"
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return
}
