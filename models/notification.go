package models

import "time"

type NotificationType string

const (
	NotificationGeneral    NotificationType = "General"
	NotificationIndividual NotificationType = "Individual"
)

type Notification struct {
	ID        string           `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Body      string           `gorm:"type:text" json:"body"`
	Type      NotificationType `gorm:"size:20;not null;default:'General'" json:"type"`
	UserID    string           `gorm:"type:uuid;index" json:"userId,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (Notification) TableName() string { return "lib_notifications" }
