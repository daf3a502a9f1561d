package handlers

// Company is the wire representation of a company. ID is optional on create;
// timestamps are ignored on input.
type Company struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Nicknames   []string `json:"nicknames"`
	Description string   `json:"description"`
	CreatedAt   int64    `json:"created_at,omitempty"`
	UpdatedAt   int64    `json:"updated_at,omitempty"`
}

type CreateCompanyRequest struct {
	Company *Company `json:"company"`
}

type CreateCompanyResponse struct {
	Company *Company `json:"company"`
}

type GetCompanyRequest struct {
	ID string `json:"id"`
}

type GetCompanyByNameRequest struct {
	Name string `json:"name"`
}

type GetCompanyByNicknameRequest struct {
	Nickname string `json:"nickname"`
}

// GetCompanyResponse answers every single-company lookup.
type GetCompanyResponse struct {
	Company *Company `json:"company"`
}

// ListCompaniesRequest pages through companies; absent fields mean "not set".
type ListCompaniesRequest struct {
	Skip  *int32 `json:"skip,omitempty"`
	Limit *int32 `json:"limit,omitempty"`
}

type ListCompaniesResponse struct {
	Companies []*Company `json:"companies"`
}

type UpdateCompanyRequest struct {
	ID      string   `json:"id"`
	Company *Company `json:"company"`
}

type UpdateCompanyResponse struct {
	Company *Company `json:"company"`
}

type DeleteCompanyRequest struct {
	ID string `json:"id"`
}

type DeleteCompanyResponse struct {
	Deleted bool `json:"deleted"`
}

type DeleteAllCompaniesRequest struct{}

type DeleteAllCompaniesResponse struct {
	Deleted bool `json:"deleted"`
}
