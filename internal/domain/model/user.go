package model

import "time"

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName     string `gorm:"type:varchar(255);not null" json:"full_name"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`

	//サーバーが採番。以後不変。
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
