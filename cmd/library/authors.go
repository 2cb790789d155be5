package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"library-records/pkg/models"
)

func authorResponse(author models.Author) gin.H {
	return gin.H{
		"id":        author.ID,
		"name":      author.Name,
		"biography": author.Biography,
	}
}

func listAuthors(c *gin.Context) {
	var authors []models.Author
	if err := db.Find(&authors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, len(authors))
	for i, author := range authors {
		items[i] = authorResponse(author)
	}
	c.JSON(http.StatusOK, items)
}

func getAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var author models.Author
	if err := db.First(&author, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}
	c.JSON(http.StatusOK, authorResponse(author))
}

func createAuthor(c *gin.Context) {
	var request struct {
		Name      string `json:"name" binding:"required"`
		Biography string `json:"biography"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	author := models.Author{Name: request.Name, Biography: request.Biography}
	if err := db.Create(&author).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create author"})
		return
	}
	c.JSON(http.StatusCreated, authorResponse(author))
}

func updateAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var author models.Author
	if err := db.First(&author, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}

	var request struct {
		Name      *string `json:"name"`
		Biography *string `json:"biography"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if request.Name != nil {
		author.Name = *request.Name
	}
	if request.Biography != nil {
		author.Biography = *request.Biography
	}

	if err := db.Save(&author).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update author"})
		return
	}
	c.JSON(http.StatusOK, authorResponse(author))
}

// Deleting an author removes their books and those books' borrow
// records, all in one transaction.
func deleteAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var author models.Author
	if err := db.First(&author, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		bookIDs := tx.Model(&models.Book{}).Select("id").Where("author_id = ?", author.ID)
		if err := tx.Where("book_id IN (?)", bookIDs).Delete(&models.BorrowRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", author.ID).Delete(&models.Book{}).Error; err != nil {
			return err
		}
		return tx.Delete(&author).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete author"})
		return
	}
	c.Status(http.StatusNoContent)
}
