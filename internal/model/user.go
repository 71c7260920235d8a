package model

import (
	"time"
)

type User struct {
	ID        uint64  `gorm:"primaryKey"`
	Email     string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_email"`
	Password  string  `gorm:"type:varchar(255);not null"`
	Name      string  `gorm:"type:varchar(100);not null"`
	Bio       *string `gorm:"type:text"`
	Avatar    *string `gorm:"type:varchar(512)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
