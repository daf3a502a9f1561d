package handlers

import (
	"errors"
	"fmt"

	e "github.com/gartstein/companies/internal/company/errors"
	"github.com/gartstein/companies/internal/company/models"
	"github.com/gartstein/companies/internal/pkg/utils"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const errorDomain = "company.v1"

// messageToForm converts a wire Company into the write shape used by the service.
func messageToForm(msg *Company) (*models.CompanyForm, error) {
	if msg == nil {
		return nil, errors.New("nil company data")
	}

	return &models.CompanyForm{
		ID:          msg.ID,
		Name:        msg.Name,
		Nicknames:   msg.Nicknames,
		Description: msg.Description,
	}, nil
}

// modelToMessage converts a domain Company into its wire form.
func modelToMessage(company *models.Company) *Company {
	nicknames := company.Nicknames
	if nicknames == nil {
		nicknames = []string{}
	}
	return &Company{
		ID:          company.ID,
		Name:        company.Name,
		Nicknames:   nicknames,
		Description: company.Description,
		CreatedAt:   company.CreatedAt,
		UpdatedAt:   company.UpdatedAt,
	}
}

func listOptions(req *ListCompaniesRequest) models.ListOptions {
	var opts models.ListOptions
	if req.Skip != nil {
		opts.Skip = utils.Ptr(int(*req.Skip))
	}
	if req.Limit != nil {
		opts.Limit = utils.Ptr(int(*req.Limit))
	}
	return opts
}

// mapServiceError maps domain or repository errors to appropriate gRPC status codes.
func (h *CompanyHandler) mapServiceError(err error) error {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, e.ErrDuplicateCompany):
		return duplicateError(err)
	case errors.Is(err, e.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		h.logger.Error("Internal server error", zap.Error(err))
		return status.Error(codes.Internal, fmt.Sprintf("internal server error: %v", err))
	}
}

func duplicateError(err error) error {
	st := status.New(codes.AlreadyExists, err.Error())
	withDetails, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: "DUPLICATE_COMPANY",
		Domain: errorDomain,
		Metadata: map[string]string{
			"constraint": "company id and name must be unique",
		},
	})
	if detailErr != nil {
		return st.Err()
	}
	return withDetails.Err()
}
