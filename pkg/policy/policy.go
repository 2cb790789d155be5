package policy

import (
	"gorm.io/gorm"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Principal is the authenticated caller, as supplied by the identity
// provider through the auth middleware.
type Principal struct {
	UserID uint
	Name   string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanManageCatalog reports whether the principal may create, update or
// delete books, authors and categories. Reads are open to everyone
// authenticated.
func CanManageCatalog(p Principal) bool {
	return p.IsAdmin()
}

// CanMakeAvailable reports whether the principal may flip a book back to
// available without a return transaction.
func CanMakeAvailable(p Principal) bool {
	return p.IsAdmin()
}

// CanReturnRecord reports whether the principal may close the borrow
// record owned by ownerID.
func CanReturnRecord(p Principal, ownerID uint) bool {
	return p.IsAdmin() || p.UserID == ownerID
}

// ScopeBorrowRecords narrows a borrow record query to what the principal
// may see: admins see every record, members only their own.
func ScopeBorrowRecords(p Principal, query *gorm.DB) *gorm.DB {
	if p.IsAdmin() {
		return query
	}
	return query.Where("user_id = ?", p.UserID)
}
