package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"library-records/pkg/models"
)

func TestCanManageCatalog(t *testing.T) {
	member := Principal{UserID: 1, Role: RoleMember}
	admin := Principal{UserID: 2, Role: RoleAdmin}

	assert.False(t, CanManageCatalog(member))
	assert.True(t, CanManageCatalog(admin))
}

func TestCanMakeAvailable(t *testing.T) {
	assert.False(t, CanMakeAvailable(Principal{UserID: 1, Role: RoleMember}))
	assert.True(t, CanMakeAvailable(Principal{UserID: 2, Role: RoleAdmin}))
}

func TestCanReturnRecord(t *testing.T) {
	owner := Principal{UserID: 1, Role: RoleMember}
	other := Principal{UserID: 2, Role: RoleMember}
	admin := Principal{UserID: 3, Role: RoleAdmin}

	assert.True(t, CanReturnRecord(owner, 1))
	assert.False(t, CanReturnRecord(other, 1))
	assert.True(t, CanReturnRecord(admin, 1))
}

func TestScopeBorrowRecords(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect test database")
	}
	db.AutoMigrate(&models.BorrowRecord{})

	db.Create(&models.BorrowRecord{RecordUid: "rec-1", BookID: 1, UserID: 1})
	db.Create(&models.BorrowRecord{RecordUid: "rec-2", BookID: 2, UserID: 2})

	member := Principal{UserID: 1, Role: RoleMember}
	admin := Principal{UserID: 3, Role: RoleAdmin}

	var memberRecords []models.BorrowRecord
	ScopeBorrowRecords(member, db.Model(&models.BorrowRecord{})).Find(&memberRecords)
	assert.Len(t, memberRecords, 1)
	assert.Equal(t, uint(1), memberRecords[0].UserID)

	var adminRecords []models.BorrowRecord
	ScopeBorrowRecords(admin, db.Model(&models.BorrowRecord{})).Find(&adminRecords)
	assert.Len(t, adminRecords, 2)
}
