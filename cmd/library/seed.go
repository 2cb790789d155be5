package main

import (
	"library-records/pkg/models"
)

// seedCatalog fills an empty catalog with a few starter entries so a
// fresh deployment has something to browse.
func seedCatalog() {
	var count int64
	if err := db.Model(&models.Book{}).Count(&count).Error; err != nil {
		log.Warnf("Failed to inspect catalog: %v", err)
		return
	}
	if count > 0 {
		return
	}

	author := models.Author{
		Name:      "Ursula K. Le Guin",
		Biography: "American author of speculative fiction.",
	}
	if err := db.Create(&author).Error; err != nil {
		log.Warnf("Failed to seed author: %v", err)
		return
	}

	category := models.Category{Name: "Science Fiction"}
	if err := db.Create(&category).Error; err != nil {
		log.Warnf("Failed to seed category: %v", err)
		return
	}

	books := []models.Book{
		{
			Title:              "The Dispossessed",
			ISBN:               "978-0-06-051275-5",
			AuthorID:           author.ID,
			CategoryID:         category.ID,
			AvailabilityStatus: true,
		},
		{
			Title:              "The Left Hand of Darkness",
			ISBN:               "978-0-441-47812-5",
			AuthorID:           author.ID,
			CategoryID:         category.ID,
			AvailabilityStatus: true,
		},
	}
	for _, book := range books {
		if err := db.Create(&book).Error; err != nil {
			log.Warnf("Failed to seed book %s: %v", book.Title, err)
		}
	}
	log.Info("Catalog seed data created")
}
