package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleOwner        = "OWNER"
	RoleManager      = "MANAGER"
	RoleMechanic     = "MECHANIC"
	RoleReceptionist = "RECEPTIONIST"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_tenant_email,priority:1" json:"tenantId"`

	Email    string `gorm:"not null;uniqueIndex:idx_tenant_email,priority:2" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
	Role     string `gorm:"type:varchar(20);not null;default:'MECHANIC'" json:"role"`

	Tenant Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`

	LastLoginAt *time.Time `json:"lastLoginAt"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Generate the UUID before insert. Password hashing happens in the
// controllers so that already-hashed values are never re-hashed on Save.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
