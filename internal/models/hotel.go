package models

import (
	"gorm.io/gorm"
)

type Hotel struct {
	gorm.Model
	Name    string `json:"name" gorm:"not null"`
	Address string `json:"address" gorm:"not null"`
	Contact string `json:"contact" gorm:"not null"`
	City    string `json:"city" gorm:"not null;index"`
	OwnerID uint   `json:"owner" gorm:"not null;uniqueIndex"`
	Owner   User   `json:"-"`
}
