// models/book.go
package models

import "time"

const BookTable = "lib_books"

// Book is a catalog entry. InstanceCnt and AvailableCnt are denormalized and
// only ever written from a count over lib_instances.
type Book struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	UID          *int64    `gorm:"uniqueIndex" json:"uid,omitempty"` // numeric shelf number, optional
	Title        string    `gorm:"size:255;not null" json:"title"`
	AuthorName   string    `gorm:"size:255" json:"authorName,omitempty"`
	CoverURL     string    `gorm:"size:512" json:"coverUrl,omitempty"`
	InstanceCnt  int64     `gorm:"not null;default:0" json:"instanceCnt"`
	AvailableCnt int64     `gorm:"not null;default:0" json:"availableCnt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Book) TableName() string { return BookTable }
