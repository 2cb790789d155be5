package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"library-records/pkg/models"
	"library-records/pkg/policy"
)

var (
	testSecret = []byte("test-secret")

	testMember      = policy.Principal{UserID: 1, Name: "alice", Role: policy.RoleMember}
	testOtherMember = policy.Principal{UserID: 2, Name: "bob", Role: policy.RoleMember}
	testAdmin       = policy.Principal{UserID: 9, Name: "root", Role: policy.RoleAdmin}
)

func setupTestDB() *gorm.DB {
	tdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect test database")
	}
	tdb.AutoMigrate(&models.Author{}, &models.Category{}, &models.Book{}, &models.BorrowRecord{})
	return tdb
}

func createTestBook(available bool) models.Book {
	author := models.Author{Name: "Test Author"}
	db.Create(&author)
	category := models.Category{Name: fmt.Sprintf("Test Category %d", time.Now().UnixNano())}
	db.Create(&category)
	book := models.Book{
		Title:              "Test Book",
		ISBN:               fmt.Sprintf("isbn-%d", time.Now().UnixNano()),
		AuthorID:           author.ID,
		CategoryID:         category.ID,
		AvailabilityStatus: available,
	}
	db.Create(&book)
	return book
}

func tokenFor(p policy.Principal) string {
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", p.UserID),
		"name": p.Name,
		"role": string(p.Role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		panic(err)
	}
	return signed
}

func doRequest(r *gin.Engine, method, path, body string, p *policy.Principal) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if p != nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(*p))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBorrowReturnScenario(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db = setupTestDB()
	r := setupRouter(testSecret)

	book := createTestBook(true)
	borrowURL := fmt.Sprintf("/api/v1/books/%d/borrow_book", book.ID)

	// Member M borrows the book.
	w := doRequest(r, "POST", borrowURL, "", &testMember)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Book borrowed successfully")

	var updated models.Book
	db.First(&updated, book.ID)
	assert.False(t, updated.AvailabilityStatus)

	// Member N cannot borrow the same book.
	w = doRequest(r, "POST", borrowURL, "", &testOtherMember)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Book not available")

	// M returns it.
	var record models.BorrowRecord
	db.Where("book_id = ? AND is_returned = ?", book.ID, false).First(&record)
	w = doRequest(r, "POST", fmt.Sprintf("/api/v1/borrow_records/%d/return", record.ID), "", &testMember)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Book returned successfully")

	db.First(&updated, book.ID)
	assert.True(t, updated.AvailabilityStatus)
	db.First(&record, record.ID)
	assert.True(t, record.IsReturned)
	assert.NotNil(t, record.ReturnDate)

	// Now N can borrow.
	w = doRequest(r, "POST", borrowURL, "", &testOtherMember)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBorrowNonexistentBook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db = setupTestDB()
	r := setupRouter(testSecret)

	w := doRequest(r, "POST", "/api/v1/books/999/borrow_book", "", &testMember)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Book not found")
}

func TestMakeAvailableOnAvailableBook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db = setupTestDB()
	r := setupRouter(testSecret)

	book := createTestBook(true)
	url := fmt.Sprintf("/api/v1/books/%d/make_available", book.ID)

	w := doRequest(r, "POST", url, "", &testAdmin)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Book already available")
}

func TestMakeAvailableRequiresAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db = setupTestDB()
	r := setupRouter(testSecret)

	book := createTestBook(false)
	url := fmt.Sprintf("/api/v1/books/%d/make_available", book.ID)

	w := doRequest(r, "POST", url, "", &testMember)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, "POST", url, "", &testAdmin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Book is now available")
}

func TestCatalogWritesRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db = setupTestDB()
	r := setupRouter(testSecret)

	w := doRequest(r, "POST", "/api/v1/books", `{"title":"x"}`, &testMember)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, "POST", "/api/v1/authors", `{"name":"x"}`, &testMember)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, "DELETE", "/api/v1/categories/1", "", &testMember)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoutesRequireAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db = setupTestDB()
	r := setupRouter(testSecret)

	w := doRequest(r, "GET", "/api/v1/books", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, "POST", "/api/v1/books/1/borrow_book", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLegacyBorrowRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db = setupTestDB()
	r := setupRouter(testSecret)

	book := createTestBook(true)

	// Record-centric create borrows the book just like the book route.
	w := doRequest(r, "POST", "/api/v1/borrow", fmt.Sprintf(`{"book": %d}`, book.ID), &testMember)
	assert.Equal(t, http.StatusCreated, w.Code)

	var records []models.BorrowRecord
	db.Find(&records)
	assert.Len(t, records, 1)

	w = doRequest(r, "POST", fmt.Sprintf("/api/v1/borrow/%d/return", records[0].ID), "", &testMember)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db = setupTestDB()
	r := setupRouter(testSecret)

	w := doRequest(r, "GET", "/manage/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "UP", response["status"])
}
