package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-records/pkg/auth"
	"library-records/pkg/guard"
	"library-records/pkg/models"
	"library-records/pkg/policy"
)

func borrowRecordResponse(record models.BorrowRecord) gin.H {
	item := gin.H{
		"id":          record.ID,
		"record_uid":  record.RecordUid,
		"book":        record.BookID,
		"user":        record.UserID,
		"borrow_date": record.BorrowDate.Format("2006-01-02"),
		"return_date": nil,
		"is_returned": record.IsReturned,
	}
	if record.ReturnDate != nil {
		item["return_date"] = record.ReturnDate.Format("2006-01-02")
	}
	return item
}

// Members only ever see their own records; admins see everything.
func listBorrowRecords(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var records []models.BorrowRecord
	query := policy.ScopeBorrowRecords(principal, db.Model(&models.BorrowRecord{}))
	if err := query.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]gin.H, len(records))
	for i, record := range records {
		items[i] = borrowRecordResponse(record)
	}
	c.JSON(http.StatusOK, items)
}

// Legacy entry point: borrow keyed by a book id in the body instead of
// the path. Same guard underneath as POST /books/:id/borrow_book.
func createBorrowRecord(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var request struct {
		Book uint `json:"book"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.Book == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book id is required"})
		return
	}

	record, err := guard.Borrow(db, request.Book, principal)
	if err != nil {
		switch {
		case errors.Is(err, guard.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		case errors.Is(err, guard.ErrBookNotAvailable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Book not available"})
		case errors.Is(err, guard.ErrAlreadyBorrowed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Book already borrowed and not returned"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, borrowRecordResponse(*record))
}

func returnBorrowRecord(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	record, err := guard.Return(db, id, principal)
	if err != nil {
		switch {
		case errors.Is(err, guard.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Borrow record not found"})
		case errors.Is(err, guard.ErrNotAllowed):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		case errors.Is(err, guard.ErrAlreadyReturned):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Book already returned"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Book returned successfully",
		"record": borrowRecordResponse(*record),
	})
}
