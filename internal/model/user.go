package model

import (
	"time"
)

// Roles. FRANQUIA and above are admin-class roles for check-in
// authorization purposes.
const (
	RoleAluno        = "ALUNO"
	RoleProfessor    = "PROFESSOR"
	RoleFranquia     = "FRANQUIA"
	RoleFranqueadora = "FRANQUEADORA"
	RoleAdmin        = "ADMIN"
	RoleSuperAdmin   = "SUPER_ADMIN"
)

var adminRoles = map[string]struct{}{
	RoleFranquia:     {},
	RoleFranqueadora: {},
	RoleAdmin:        {},
	RoleSuperAdmin:   {},
}

// IsAdminRole reports whether role may check in any booking.
func IsAdminRole(role string) bool {
	_, ok := adminRoles[role]
	return ok
}

// User is the directory row backing role resolution and recipient
// lookup. EmailNormalized is the lower-cased email kept under a unique
// index so lookups stay case-insensitive without scanning.
type User struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(128);not null" json:"name"`
	Email           string    `gorm:"type:varchar(128);not null" json:"email"`
	EmailNormalized string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"-"`
	Role            string    `gorm:"type:varchar(20);index;not null" json:"role"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

// Association types (student vs teacher). Irrelevant to the franchise
// scope check, kept for listing purposes.
const (
	AssociationTypeStudent = "student"
	AssociationTypeTeacher = "teacher"
)

// FranchiseAssociation links a user to a franchise. Many-to-many; used
// purely for authorization scoping.
type FranchiseAssociation struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"type:varchar(36);index:idx_assoc_user;not null" json:"userId"`
	FranchiseID string    `gorm:"type:varchar(36);index;not null" json:"franchiseId"`
	Type        string    `gorm:"type:varchar(10);not null" json:"type"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (FranchiseAssociation) TableName() string {
	return "franchise_association"
}
