package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/dto"
	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/model"
	ctxutil "github.com/clientbridge/crm/pkg/context"
)

// ClientStore is the persistence surface the client service needs
type ClientStore interface {
	GetByID(ctx context.Context, id uint) (*model.Client, error)
	GetAll(ctx context.Context, limit, offset int, filter dto.ClientFilter) ([]model.Client, int64, error)
	Create(ctx context.Context, client *model.Client) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ClientService implements client company CRUD
type ClientService struct {
	clients ClientStore
}

func NewClientService(clients ClientStore) *ClientService {
	return &ClientService{clients: clients}
}

func (s *ClientService) Get(ctx context.Context, id uint) (*model.Client, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Get")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return client, nil
}

func (s *ClientService) List(ctx context.Context, limit, offset int, filter dto.ClientFilter) ([]model.Client, int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "List")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	clients, total, err := s.clients.GetAll(ctx, limit, offset, filter)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return clients, total, nil
}

func (s *ClientService) Create(ctx context.Context, req dto.CreateClientRequest, createdBy uint) (*model.Client, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	client := &model.Client{
		CompanyName:       req.CompanyName,
		Industry:          req.Industry,
		CompanySize:       req.CompanySize,
		Website:           req.Website,
		FoundedYear:       req.FoundedYear,
		Description:       req.Description,
		PrimaryEmail:      req.PrimaryEmail,
		PrimaryPhone:      req.PrimaryPhone,
		Address:           req.Address,
		City:              req.City,
		State:             req.State,
		Country:           req.Country,
		PostalCode:        req.PostalCode,
		AnnualRevenue:     req.AnnualRevenue,
		EmployeeCount:     req.EmployeeCount,
		BusinessType:      req.BusinessType,
		ServiceTier:       req.ServiceTier,
		ContractStartDate: req.ContractStartDate,
		ContractEndDate:   req.ContractEndDate,
		PaymentTerms:      req.PaymentTerms,
		Status:            req.Status,
		PriorityLevel:     req.PriorityLevel,
		Notes:             req.Notes,
		CreatedBy:         createdBy,
	}

	if client.Status == "" {
		client.Status = model.ClientStatusProspect
	}
	if client.ServiceTier == "" {
		client.ServiceTier = model.ServiceTierBasic
	}

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return client, nil
}

func (s *ClientService) Update(ctx context.Context, id uint, req dto.UpdateClientRequest) (*model.Client, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Update")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	fields := clientUpdateFields(req)

	if err := s.clients.Update(ctx, id, fields); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return s.Get(ctx, id)
}

func (s *ClientService) Delete(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Delete")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if err := s.clients.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return nil
}

// Stats returns client counts grouped by status
func (s *ClientService) Stats(ctx context.Context) (map[string]int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Stats")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	counts, err := s.clients.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return counts, nil
}

func clientUpdateFields(req dto.UpdateClientRequest) map[string]interface{} {
	fields := make(map[string]interface{})

	if req.CompanyName != nil {
		fields["company_name"] = *req.CompanyName
	}
	if req.Industry != nil {
		fields["industry"] = *req.Industry
	}
	if req.CompanySize != nil {
		fields["company_size"] = *req.CompanySize
	}
	if req.Website != nil {
		fields["website"] = *req.Website
	}
	if req.FoundedYear != nil {
		fields["founded_year"] = *req.FoundedYear
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.PrimaryEmail != nil {
		fields["primary_email"] = *req.PrimaryEmail
	}
	if req.PrimaryPhone != nil {
		fields["primary_phone"] = *req.PrimaryPhone
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.City != nil {
		fields["city"] = *req.City
	}
	if req.State != nil {
		fields["state"] = *req.State
	}
	if req.Country != nil {
		fields["country"] = *req.Country
	}
	if req.PostalCode != nil {
		fields["postal_code"] = *req.PostalCode
	}
	if req.AnnualRevenue != nil {
		fields["annual_revenue"] = *req.AnnualRevenue
	}
	if req.EmployeeCount != nil {
		fields["employee_count"] = *req.EmployeeCount
	}
	if req.BusinessType != nil {
		fields["business_type"] = *req.BusinessType
	}
	if req.ServiceTier != nil {
		fields["service_tier"] = *req.ServiceTier
	}
	if req.ContractStartDate != nil {
		fields["contract_start_date"] = *req.ContractStartDate
	}
	if req.ContractEndDate != nil {
		fields["contract_end_date"] = *req.ContractEndDate
	}
	if req.PaymentTerms != nil {
		fields["payment_terms"] = *req.PaymentTerms
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.PriorityLevel != nil {
		fields["priority_level"] = *req.PriorityLevel
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	return fields
}
