// models/instance.go
package models

import "time"

const InstanceTable = "lib_instances"

// InstanceStatus is the lifecycle of one physical copy.
type InstanceStatus string

const (
	InstanceAvailable InstanceStatus = "Available"
	InstanceReserved  InstanceStatus = "Reserved"
	InstanceTaken     InstanceStatus = "Taken"
)

func (s InstanceStatus) Valid() bool {
	switch s {
	case InstanceAvailable, InstanceReserved, InstanceTaken:
		return true
	}
	return false
}

// Instance is a donated physical copy of a Book (a "donation").
type Instance struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	UID        string `gorm:"size:64;index" json:"uid,omitempty"` // <bookUid>-<instanceNo>
	InstanceNo int64  `gorm:"not null" json:"instanceNo"`

	BookID   string `gorm:"type:uuid;index;not null" json:"bookId"`
	BookName string `gorm:"size:255" json:"bookName"`
	BookImg  string `gorm:"size:512" json:"bookImg,omitempty"`

	DonorID   string `gorm:"type:uuid;index;not null" json:"donorId"`
	DonorName string `gorm:"size:255" json:"donorName"`

	Status       InstanceStatus `gorm:"size:20;index;not null;default:'Available'" json:"status"`
	BorrowerID   *string        `gorm:"type:uuid" json:"borrowerId,omitempty"` // only while Reserved/Taken
	BorrowerName string         `gorm:"size:255" json:"borrowerName,omitempty"`

	Note        string     `gorm:"size:255" json:"note,omitempty"`
	ImgURL      string     `gorm:"size:512" json:"imgUrl,omitempty"`
	DonatedDate *time.Time `json:"donatedDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Instance) TableName() string { return InstanceTable }
