package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"library-records/pkg/models"
)

func categoryResponse(category models.Category) gin.H {
	return gin.H{
		"id":   category.ID,
		"name": category.Name,
	}
}

func listCategories(c *gin.Context) {
	var categories []models.Category
	if err := db.Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, len(categories))
	for i, category := range categories {
		items[i] = categoryResponse(category)
	}
	c.JSON(http.StatusOK, items)
}

func getCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, categoryResponse(category))
}

func createCategory(c *gin.Context) {
	var request struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var count int64
	db.Model(&models.Category{}).Where("name = ?", request.Name).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category already exists"})
		return
	}

	category := models.Category{Name: request.Name}
	if err := db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, categoryResponse(category))
}

func updateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var request struct {
		Name *string `json:"name"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if request.Name != nil && *request.Name != category.Name {
		var count int64
		db.Model(&models.Category{}).Where("name = ? AND id <> ?", *request.Name, category.ID).Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category already exists"})
			return
		}
		category.Name = *request.Name
	}

	if err := db.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update category"})
		return
	}
	c.JSON(http.StatusOK, categoryResponse(category))
}

func deleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		bookIDs := tx.Model(&models.Book{}).Select("id").Where("category_id = ?", category.ID)
		if err := tx.Where("book_id IN (?)", bookIDs).Delete(&models.BorrowRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Book{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete category"})
		return
	}
	c.Status(http.StatusNoContent)
}
