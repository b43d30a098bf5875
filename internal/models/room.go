package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model
	HotelID       uint           `json:"hotel" gorm:"not null;index"`
	Hotel         Hotel          `json:"hotelData"`
	RoomType      string         `json:"roomType" gorm:"not null"`
	PricePerNight float64        `json:"pricePerNight" gorm:"not null"`
	Amenities     datatypes.JSON `json:"amenities"`
	Images        datatypes.JSON `json:"images"`
	IsAvailable   bool           `json:"isAvailable" gorm:"not null;default:true"`
}
