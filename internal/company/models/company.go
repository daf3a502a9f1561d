// Package models defines the core domain models for the Company entity.
// It includes definitions for Company, the CompanyForm write shape and the
// ListOptions pagination controls.
package models

import "fmt"

// Company defines the domain model for a company entity.
type Company struct {
	// ID is the opaque unique identifier for the company. Immutable once created.
	ID string `json:"id"`
	// Name is the company’s unique name.
	Name string `json:"name"`
	// Nicknames are alternative names the company is known by. Never nil.
	Nicknames []string `json:"nicknames"`
	// Description provides details about the company.
	Description string `json:"description"`
	// CreatedAt is the creation time in epoch seconds.
	CreatedAt int64 `json:"created_at"`
	// UpdatedAt is the last modification time in epoch seconds.
	UpdatedAt int64 `json:"updated_at"`
}

// String renders the company in its mention form, e.g. "Acme[[company:c1]]".
func (c Company) String() string {
	return fmt.Sprintf("%s[[company:%s]]", c.Name, c.ID)
}

// CompanyForm carries the caller-supplied fields for inserts and full updates.
// Nicknames may be nil, meaning "no nicknames".
type CompanyForm struct {
	ID          string
	Name        string
	Nicknames   []string
	Description string
}

// ListOptions holds optional pagination controls. A nil field means the
// control was not provided; a provided zero is taken literally.
type ListOptions struct {
	Skip  *int
	Limit *int
}
