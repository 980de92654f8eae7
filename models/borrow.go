// models/borrow.go
package models

import "time"

const BorrowTable = "lib_borrows"

type BorrowStatus string

const (
	BorrowWaitList BorrowStatus = "WAITLIST"
	BorrowAccepted BorrowStatus = "ACCEPTED"
	BorrowTaken    BorrowStatus = "BORROWED"
	BorrowReturned BorrowStatus = "RETURNED"
)

func (s BorrowStatus) Valid() bool {
	switch s {
	case BorrowWaitList, BorrowAccepted, BorrowTaken, BorrowReturned:
		return true
	}
	return false
}

// Borrow is one user's request for a book. InstanceID is bound on accept.
// Status only moves forward; a WAITLIST row may be deleted (cancelled).
type Borrow struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string `gorm:"type:uuid;index;not null" json:"userId"`
	UserName string `gorm:"size:255" json:"userName"`
	BookID   string `gorm:"type:uuid;index;not null" json:"bookId"`
	BookName string `gorm:"size:255" json:"bookName"`
	ImgURL   string `gorm:"size:512" json:"imgUrl,omitempty"`

	InstanceID  *string `gorm:"type:uuid;index" json:"instanceId,omitempty"`
	InstanceUID string  `gorm:"size:64" json:"instanceUid,omitempty"`

	Status       BorrowStatus `gorm:"size:20;index;not null;default:'WAITLIST'" json:"status"`
	AcceptedDate *time.Time   `json:"acceptedDate,omitempty"`
	TakenDate    *time.Time   `json:"takenDate,omitempty"`
	DueDate      *time.Time   `gorm:"index" json:"dueDate,omitempty"`
	ReturnedDate *time.Time   `json:"returnedDate,omitempty"`

	Note      string    `gorm:"size:255" json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Borrow) TableName() string { return BorrowTable }
