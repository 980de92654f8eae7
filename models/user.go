package models

import (
	"strings"
	"time"
)

const UserTable = "lib_users"

// User is the subset of the account the lending engine touches. Accounts are
// created by the auth service; DonatedCount is reconciled from lib_instances.
type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	FirstName string `gorm:"size:120" json:"firstName"`
	LastName  string `gorm:"size:120" json:"lastName"`
	IsAdmin   bool   `gorm:"not null;default:false" json:"isAdmin"`

	DonatedCount int64      `gorm:"not null;default:0" json:"donatedCount"`
	LastSeenAt   *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }

// FullName falls back to the username when no name was given.
func (u User) FullName() string {
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	return u.Username
}

const UserBookStageTable = "lib_user_book_stages"

// Stage is where a (user, book) lending relationship currently sits.
type Stage string

const (
	StageRequested Stage = "Requested"
	StageApproved  Stage = "Approved"
	StageBorrowed  Stage = "Borrowed"
	StageReturned  Stage = "Returned"
)

func (s Stage) Valid() bool {
	switch s {
	case StageRequested, StageApproved, StageBorrowed, StageReturned:
		return true
	}
	return false
}

// Active reports whether the stage belongs to an open lending cycle.
func (s Stage) Active() bool {
	return s == StageRequested || s == StageApproved || s == StageBorrowed
}

// UserBookStage holds one stage per (user, book), so a book can never sit in
// two of the user's sets at once.
type UserBookStage struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"userId"`
	BookID    string    `gorm:"type:uuid;primaryKey" json:"bookId"`
	Stage     Stage     `gorm:"size:20;index;not null" json:"stage"`
	BorrowID  string    `gorm:"type:uuid" json:"borrowId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (UserBookStage) TableName() string { return UserBookStageTable }
