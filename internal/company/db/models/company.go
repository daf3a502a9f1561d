// Package models contains the persistence models for the application,
// configured to work using GORM as the ORM.
package models

import (
	domain "github.com/gartstein/companies/internal/company/models"
)

// TableName is the name of the table backing Company rows.
const TableName = "company"

// Company represents a row of the company table.
// Nicknames are stored as a JSON-encoded TEXT column; a nil slice is stored as NULL.
// Timestamps are epoch seconds and are stamped by the repository, not by GORM.
type Company struct {
	ID          string   `gorm:"column:id;primaryKey"`
	Name        string   `gorm:"column:name;not null;uniqueIndex"`
	Nicknames   []string `gorm:"column:nicknames;type:text;serializer:json"`
	Description string   `gorm:"column:description;not null"`
	CreatedAt   int64    `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt   int64    `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

// TableName overrides GORM's pluralized default.
func (Company) TableName() string {
	return TableName
}

// ToDomain converts the row into the domain model. Absent nicknames become an
// empty list.
func (c *Company) ToDomain() *domain.Company {
	nicknames := make([]string, len(c.Nicknames))
	copy(nicknames, c.Nicknames)
	return &domain.Company{
		ID:          c.ID,
		Name:        c.Name,
		Nicknames:   nicknames,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// FromForm builds a row from a write form, stamping both timestamps with now.
func FromForm(form *domain.CompanyForm, now int64) *Company {
	return &Company{
		ID:          form.ID,
		Name:        form.Name,
		Nicknames:   form.Nicknames,
		Description: form.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasNickname reports whether nickname is one of the row's nicknames.
func (c *Company) HasNickname(nickname string) bool {
	for _, n := range c.Nicknames {
		if n == nickname {
			return true
		}
	}
	return false
}
