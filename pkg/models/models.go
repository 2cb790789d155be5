package models

import (
	"time"
)

type Author struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Biography string `gorm:"type:text"`
	Books     []Book `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;uniqueIndex;not null"`
	Books     []Book `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Book struct {
	ID         uint   `gorm:"primaryKey"`
	Title      string `gorm:"size:200;not null"`
	ISBN       string `gorm:"size:20;uniqueIndex;not null"`
	AuthorID   uint   `gorm:"not null;index"`
	CategoryID uint   `gorm:"not null;index"`
	// True when the book is free to borrow. Kept in sync with open
	// borrow records by pkg/guard; nothing else writes it.
	AvailabilityStatus bool           `gorm:"not null"`
	BorrowRecords      []BorrowRecord `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type BorrowRecord struct {
	ID         uint   `gorm:"primaryKey"`
	RecordUid  string `gorm:"type:uuid;uniqueIndex;not null"`
	BookID     uint   `gorm:"not null;index"`
	UserID     uint   `gorm:"not null;index"`
	BorrowDate time.Time
	ReturnDate *time.Time
	IsReturned bool `gorm:"not null"`
	Book       Book `gorm:"foreignKey:BookID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
