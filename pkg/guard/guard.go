// Package guard owns the availability state of books. Borrow and Return
// are the only two transitions that touch both a book and its ledger row,
// and both run as a single database transaction so that a book can never
// carry more than one open borrow record.
package guard

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"library-records/pkg/models"
	"library-records/pkg/policy"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrRecordNotFound   = errors.New("borrow record not found")
	ErrBookNotAvailable = errors.New("book not available")
	ErrAlreadyBorrowed  = errors.New("book already borrowed and not returned")
	ErrAlreadyReturned  = errors.New("book already returned")
	ErrBookAvailable    = errors.New("book already available")
	ErrNotAllowed       = errors.New("not allowed")
)

// Borrow lends the book to the principal: the book flips to unavailable
// and an open borrow record is created, both or neither.
func Borrow(db *gorm.DB, bookID uint, p policy.Principal) (*models.BorrowRecord, error) {
	var record models.BorrowRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		if !book.AvailabilityStatus {
			return ErrBookNotAvailable
		}

		// Availability true should already mean no open record exists,
		// but the flag can drift from the ledger; check both.
		var open int64
		err := tx.Model(&models.BorrowRecord{}).
			Where("book_id = ? AND user_id = ? AND is_returned = ?", bookID, p.UserID, false).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrAlreadyBorrowed
		}

		// Conditional update keyed on the current flag: of two concurrent
		// borrows only one affects a row, the other loses here.
		res := tx.Model(&models.Book{}).
			Where("id = ? AND availability_status = ?", bookID, true).
			Update("availability_status", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookNotAvailable
		}

		record = models.BorrowRecord{
			RecordUid:  uuid.New().String(),
			BookID:     bookID,
			UserID:     p.UserID,
			BorrowDate: time.Now(),
			IsReturned: false,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Return closes the borrow record and makes the book available again.
// Only the record's owner or an admin may close it.
func Return(db *gorm.DB, recordID uint, p policy.Principal) (*models.BorrowRecord, error) {
	var record models.BorrowRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, recordID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		if !policy.CanReturnRecord(p, record.UserID) {
			return ErrNotAllowed
		}
		if record.IsReturned {
			return ErrAlreadyReturned
		}

		now := time.Now()
		res := tx.Model(&models.BorrowRecord{}).
			Where("id = ? AND is_returned = ?", recordID, false).
			Updates(map[string]interface{}{
				"is_returned": true,
				"return_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyReturned
		}

		err := tx.Model(&models.Book{}).
			Where("id = ?", record.BookID).
			Update("availability_status", true).Error
		if err != nil {
			return err
		}

		record.IsReturned = true
		record.ReturnDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MakeAvailable flips a book back to available without touching the
// ledger. Administrative correction only; open records stay open.
func MakeAvailable(db *gorm.DB, bookID uint) (*models.Book, error) {
	var book models.Book
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		if book.AvailabilityStatus {
			return ErrBookAvailable
		}
		res := tx.Model(&models.Book{}).
			Where("id = ? AND availability_status = ?", bookID, false).
			Update("availability_status", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookAvailable
		}
		book.AvailabilityStatus = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}
