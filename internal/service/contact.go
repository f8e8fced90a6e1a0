package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/dto"
	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/model"
	ctxutil "github.com/clientbridge/crm/pkg/context"
)

// ContactStore is the persistence surface the contact service needs. The
// single-primary rule lives inside SetPrimary and Create; the service never
// flips the primary flag through a plain update.
type ContactStore interface {
	GetByID(ctx context.Context, id uint) (*model.ClientContact, error)
	GetByClient(ctx context.Context, clientID uint, activeOnly bool) ([]model.ClientContact, error)
	GetPrimary(ctx context.Context, clientID uint) (*model.ClientContact, error)
	Create(ctx context.Context, contact *model.ClientContact) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	SetPrimary(ctx context.Context, clientID, contactID uint) error
	Deactivate(ctx context.Context, id uint) error
}

// ContactService implements contact management for client companies
type ContactService struct {
	contacts ContactStore
	clients  ClientStore
}

func NewContactService(contacts ContactStore, clients ClientStore) *ContactService {
	return &ContactService{contacts: contacts, clients: clients}
}

func (s *ContactService) List(ctx context.Context, clientID uint, activeOnly bool) ([]model.ClientContact, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "List")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}

	contacts, err := s.contacts.GetByClient(ctx, clientID, activeOnly)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return contacts, nil
}

// GetPrimary returns a client's current primary contact, if it has one
func (s *ContactService) GetPrimary(ctx context.Context, clientID uint) (*model.ClientContact, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetPrimary")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}

	contact, err := s.contacts.GetPrimary(ctx, clientID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return contact, nil
}

func (s *ContactService) Create(ctx context.Context, clientID uint, req dto.CreateContactRequest) (*model.ClientContact, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}

	contact := &model.ClientContact{
		ClientID:               clientID,
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		Email:                  req.Email,
		Phone:                  req.Phone,
		Position:               req.Position,
		Department:             req.Department,
		ContactType:            req.ContactType,
		IsPrimaryContact:       req.IsPrimaryContact,
		CanMakeDecisions:       req.CanMakeDecisions,
		PreferredContactMethod: req.PreferredContactMethod,
		Timezone:               req.Timezone,
		AvailabilityNotes:      req.AvailabilityNotes,
		IsActive:               true,
	}

	if contact.ContactType == "" {
		contact.ContactType = "business"
	}
	if contact.PreferredContactMethod == "" {
		contact.PreferredContactMethod = "email"
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return contact, nil
}

// Update applies a partial update. The primary flag is not updatable here;
// SetPrimary is the only way to change it.
func (s *ContactService) Update(ctx context.Context, clientID, contactID uint, req dto.UpdateContactRequest) (*model.ClientContact, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Update")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	contact, err := s.getOwned(ctx, clientID, contactID)
	if err != nil {
		return nil, err
	}

	fields := contactUpdateFields(req)
	if len(fields) > 0 {
		if err := s.contacts.Update(ctx, contact.ID, fields); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrNotFound
			}
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	updated, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return updated, nil
}

// SetPrimary makes a contact the single primary for its client
func (s *ContactService) SetPrimary(ctx context.Context, clientID, contactID uint) (*model.ClientContact, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "SetPrimary")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if err := s.contacts.SetPrimary(ctx, clientID, contactID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return contact, nil
}

// Deactivate marks a contact inactive
func (s *ContactService) Deactivate(ctx context.Context, clientID, contactID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Deactivate")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if _, err := s.getOwned(ctx, clientID, contactID); err != nil {
		return err
	}

	if err := s.contacts.Deactivate(ctx, contactID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return nil
}

// getOwned fetches a contact and checks it belongs to the client named in
// the URL, so a contact can never be reached through another client's path.
func (s *ContactService) getOwned(ctx context.Context, clientID, contactID uint) (*model.ClientContact, error) {
	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if contact.ClientID != clientID {
		return nil, apperrors.ErrNotFound
	}

	return contact, nil
}

func (s *ContactService) requireClient(ctx context.Context, clientID uint) error {
	exists, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return nil
}

func contactUpdateFields(req dto.UpdateContactRequest) map[string]interface{} {
	fields := make(map[string]interface{})

	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Position != nil {
		fields["position"] = *req.Position
	}
	if req.Department != nil {
		fields["department"] = *req.Department
	}
	if req.ContactType != nil {
		fields["contact_type"] = *req.ContactType
	}
	if req.CanMakeDecisions != nil {
		fields["can_make_decisions"] = *req.CanMakeDecisions
	}
	if req.PreferredContactMethod != nil {
		fields["preferred_contact_method"] = *req.PreferredContactMethod
	}
	if req.Timezone != nil {
		fields["timezone"] = *req.Timezone
	}
	if req.AvailabilityNotes != nil {
		fields["availability_notes"] = *req.AvailabilityNotes
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
		// An inactive contact cannot stay primary.
		if !*req.IsActive {
			fields["is_primary_contact"] = false
		}
	}

	return fields
}
