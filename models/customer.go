package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_tenant_cpf_cnpj,priority:1" json:"tenantId"`

	Name string `gorm:"not null" json:"name"`

	// Nullable so customers without a tax ID never collide on the
	// tenant-scoped unique index.
	CpfCnpj *string `gorm:"uniqueIndex:idx_tenant_cpf_cnpj,priority:2" json:"cpfCnpj"`

	Email    string `json:"email"`
	Phone    string `gorm:"not null" json:"phone"`
	Whatsapp string `json:"whatsapp"`

	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`

	Notes    string `json:"notes"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	Vehicles      []Vehicle      `gorm:"foreignKey:CustomerID" json:"vehicles,omitempty"`
	ServiceOrders []ServiceOrder `gorm:"foreignKey:CustomerID" json:"serviceOrders,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
