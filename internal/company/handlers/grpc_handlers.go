package handlers

import (
	"context"

	"github.com/gartstein/companies/internal/company/models"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CompanyHandler implements CompanyServiceServer on top of a CompanyController.
type CompanyHandler struct {
	service CompanyController
	logger  *zap.Logger
}

var _ CompanyServiceServer = (*CompanyHandler)(nil)

// NewCompanyHandler constructs a new CompanyHandler with the given service and logger.
func NewCompanyHandler(service CompanyController, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: service,
		logger:  logger.Named("grpc_handler"),
	}
}

// CreateCompany creates a new Company from the request payload.
func (h *CompanyHandler) CreateCompany(ctx context.Context, req *CreateCompanyRequest) (*CreateCompanyResponse, error) {
	form, err := messageToForm(req.Company)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "company data required")
	}
	if form.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "company name required")
	}

	created, err := h.service.CreateCompany(ctx, form)
	if err != nil {
		h.logger.Error("Create company failed", zap.Error(err))
		return nil, h.mapServiceError(err)
	}

	return &CreateCompanyResponse{Company: modelToMessage(created)}, nil
}

// GetCompany fetches a Company by ID, returning NotFound if absent.
func (h *CompanyHandler) GetCompany(ctx context.Context, req *GetCompanyRequest) (*GetCompanyResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "company ID required")
	}
	return h.lookup(h.service.GetCompany(ctx, req.ID))
}

// GetCompanyByName fetches a Company by its unique name.
func (h *CompanyHandler) GetCompanyByName(ctx context.Context, req *GetCompanyByNameRequest) (*GetCompanyResponse, error) {
	if req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "company name required")
	}
	return h.lookup(h.service.GetCompanyByName(ctx, req.Name))
}

// GetCompanyByNickname fetches the first Company carrying the nickname.
func (h *CompanyHandler) GetCompanyByNickname(ctx context.Context, req *GetCompanyByNicknameRequest) (*GetCompanyResponse, error) {
	if req.Nickname == "" {
		return nil, status.Error(codes.InvalidArgument, "nickname required")
	}
	return h.lookup(h.service.GetCompanyByNickname(ctx, req.Nickname))
}

func (h *CompanyHandler) lookup(company *models.Company, err error) (*GetCompanyResponse, error) {
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &GetCompanyResponse{Company: modelToMessage(company)}, nil
}

// ListCompanies returns companies newest first, honouring optional skip/limit.
func (h *CompanyHandler) ListCompanies(ctx context.Context, req *ListCompaniesRequest) (*ListCompaniesResponse, error) {
	companies, err := h.service.ListCompanies(ctx, listOptions(req))
	if err != nil {
		return nil, h.mapServiceError(err)
	}

	resp := &ListCompaniesResponse{Companies: make([]*Company, 0, len(companies))}
	for i := range companies {
		resp.Companies = append(resp.Companies, modelToMessage(&companies[i]))
	}
	return resp, nil
}

// UpdateCompany replaces name, nicknames and description of an existing Company.
func (h *CompanyHandler) UpdateCompany(ctx context.Context, req *UpdateCompanyRequest) (*UpdateCompanyResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "company ID required")
	}

	form, err := messageToForm(req.Company)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	updated, err := h.service.UpdateCompany(ctx, req.ID, form)
	if err != nil {
		return nil, h.mapServiceError(err)
	}

	return &UpdateCompanyResponse{Company: modelToMessage(updated)}, nil
}

// DeleteCompany removes a Company given its ID.
func (h *CompanyHandler) DeleteCompany(ctx context.Context, req *DeleteCompanyRequest) (*DeleteCompanyResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "company ID required")
	}

	if err := h.service.DeleteCompany(ctx, req.ID); err != nil {
		return nil, h.mapServiceError(err)
	}

	return &DeleteCompanyResponse{Deleted: true}, nil
}

// DeleteAllCompanies removes every Company.
func (h *CompanyHandler) DeleteAllCompanies(ctx context.Context, _ *DeleteAllCompaniesRequest) (*DeleteAllCompaniesResponse, error) {
	if err := h.service.DeleteAllCompanies(ctx); err != nil {
		return nil, h.mapServiceError(err)
	}

	h.logger.Warn("All companies deleted")
	return &DeleteAllCompaniesResponse{Deleted: true}, nil
}
