package models

import (
	"time"
)

type Funnel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	UserID    string    `json:"user_id" gorm:"type:text;not null;index:idx_funnels_user_created,priority:1"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Status    string    `json:"status" gorm:"type:text;not null;default:'draft'"`
	CreatedAt time.Time `json:"created_at" gorm:"type:timestamp with time zone;not null;index:idx_funnels_user_created,priority:2"`
	Pages     []Page    `json:"-" gorm:"foreignKey:FunnelID;references:ID;constraint:OnDelete:CASCADE;"`
}

type Page struct {
	ID            string    `json:"id" gorm:"primaryKey;type:text"`
	FunnelID      string    `json:"funnel_id" gorm:"type:text;not null;index"`
	Name          string    `json:"name" gorm:"type:text;not null"`
	Type          string    `json:"type" gorm:"type:text;not null"`
	OrderPosition int       `json:"order_position" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"type:timestamp with time zone;not null"`
}
