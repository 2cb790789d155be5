package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"library-records/pkg/auth"
	"library-records/pkg/guard"
	"library-records/pkg/models"
)

func bookResponse(book models.Book) gin.H {
	return gin.H{
		"id":                  book.ID,
		"title":               book.Title,
		"ISBN":                book.ISBN,
		"author":              book.AuthorID,
		"category":            book.CategoryID,
		"availability_status": book.AvailabilityStatus,
	}
}

// Malformed ids are a 400; numeric ids that match nothing (zero
// included) fall through to the lookup and its 404.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func listBooks(c *gin.Context) {
	var books []models.Book
	if err := db.Find(&books).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, len(books))
	for i, book := range books {
		items[i] = bookResponse(book)
	}
	c.JSON(http.StatusOK, items)
}

func getBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var book models.Book
	if err := db.First(&book, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	c.JSON(http.StatusOK, bookResponse(book))
}

func createBook(c *gin.Context) {
	var request struct {
		Title    string `json:"title" binding:"required"`
		ISBN     string `json:"ISBN" binding:"required"`
		Author   uint   `json:"author" binding:"required"`
		Category uint   `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var author models.Author
	if err := db.First(&author, request.Author).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Author not found"})
		return
	}
	var category models.Category
	if err := db.First(&category, request.Category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}

	var count int64
	db.Model(&models.Book{}).Where("isbn = ?", request.ISBN).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Book with this ISBN already exists"})
		return
	}

	book := models.Book{
		Title:              request.Title,
		ISBN:               request.ISBN,
		AuthorID:           request.Author,
		CategoryID:         request.Category,
		AvailabilityStatus: true,
	}
	if err := db.Create(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create book"})
		return
	}
	c.JSON(http.StatusCreated, bookResponse(book))
}

func updateBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var book models.Book
	if err := db.First(&book, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}

	// Availability is deliberately absent here: only the guard (or the
	// admin make_available action) may change it.
	var request struct {
		Title    *string `json:"title"`
		ISBN     *string `json:"ISBN"`
		Author   *uint   `json:"author"`
		Category *uint   `json:"category"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if request.Title != nil {
		book.Title = *request.Title
	}
	if request.ISBN != nil && *request.ISBN != book.ISBN {
		var count int64
		db.Model(&models.Book{}).Where("isbn = ? AND id <> ?", *request.ISBN, book.ID).Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Book with this ISBN already exists"})
			return
		}
		book.ISBN = *request.ISBN
	}
	if request.Author != nil {
		var author models.Author
		if err := db.First(&author, *request.Author).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Author not found"})
			return
		}
		book.AuthorID = *request.Author
	}
	if request.Category != nil {
		var category models.Category
		if err := db.First(&category, *request.Category).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
		book.CategoryID = *request.Category
	}

	if err := db.Save(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update book"})
		return
	}
	c.JSON(http.StatusOK, bookResponse(book))
}

func deleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var book models.Book
	if err := db.First(&book, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", book.ID).Delete(&models.BorrowRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&book).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete book"})
		return
	}
	c.Status(http.StatusNoContent)
}

func borrowBook(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	record, err := guard.Borrow(db, id, principal)
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

	c.JSON(http.StatusCreated, gin.H{
		"status": "Book borrowed successfully",
		"record": borrowRecordResponse(*record),
	})
}

func makeBookAvailable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	book, err := guard.MakeAvailable(db, id)
	if err != nil {
		switch {
		case errors.Is(err, guard.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		case errors.Is(err, guard.ErrBookAvailable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Book already available"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Book is now available",
		"book":   bookResponse(*book),
	})
}
