package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/dto"
	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/model"
	ctxutil "github.com/clientbridge/crm/pkg/context"
)

// InteractionStore is the persistence surface the interaction service needs
type InteractionStore interface {
	GetByID(ctx context.Context, id uint) (*model.ClientInteraction, error)
	GetByClient(ctx context.Context, clientID uint, limit, offset int, filter dto.InteractionFilter) ([]model.ClientInteraction, int64, error)
	Create(ctx context.Context, interaction *model.ClientInteraction) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

// InteractionService records and manages client touchpoints
type InteractionService struct {
	interactions InteractionStore
	contacts     ContactStore
	clients      ClientStore
}

func NewInteractionService(interactions InteractionStore, contacts ContactStore, clients ClientStore) *InteractionService {
	return &InteractionService{interactions: interactions, contacts: contacts, clients: clients}
}

func (s *InteractionService) List(ctx context.Context, clientID uint, limit, offset int, filter dto.InteractionFilter) ([]model.ClientInteraction, int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "List")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	exists, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !exists {
		return nil, 0, apperrors.ErrNotFound
	}

	interactions, total, err := s.interactions.GetByClient(ctx, clientID, limit, offset, filter)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return interactions, total, nil
}

func (s *InteractionService) Create(ctx context.Context, clientID uint, req dto.CreateInteractionRequest, createdBy uint) (*model.ClientInteraction, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	exists, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !exists {
		return nil, apperrors.ErrNotFound
	}

	// A referenced contact must belong to the same client.
	if req.ContactID != nil {
		contact, err := s.contacts.GetByID(ctx, *req.ContactID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrInvalidInput
			}
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		if contact.ClientID != clientID {
			return nil, apperrors.ErrInvalidInput
		}
	}

	interaction := &model.ClientInteraction{
		ClientID:        clientID,
		ContactID:       req.ContactID,
		InteractionType: req.InteractionType,
		Subject:         req.Subject,
		Description:     req.Description,
		Outcome:         req.Outcome,
		ScheduledDate:   req.ScheduledDate,
		Status:          req.Status,
		CreatedBy:       createdBy,
	}

	if interaction.Status == "" {
		interaction.Status = model.InteractionStatusScheduled
	}
	if interaction.Status == model.InteractionStatusCompleted && interaction.CompletedDate == nil {
		now := time.Now()
		interaction.CompletedDate = &now
	}

	if err := s.interactions.Create(ctx, interaction); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return interaction, nil
}

func (s *InteractionService) Update(ctx context.Context, clientID, interactionID uint, req dto.UpdateInteractionRequest) (*model.ClientInteraction, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Update")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	interaction, err := s.getOwned(ctx, clientID, interactionID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.ContactID != nil {
		contact, err := s.contacts.GetByID(ctx, *req.ContactID)
		if err != nil || contact.ClientID != clientID {
			return nil, apperrors.ErrInvalidInput
		}
		fields["contact_id"] = *req.ContactID
	}
	if req.InteractionType != nil {
		fields["interaction_type"] = *req.InteractionType
	}
	if req.Subject != nil {
		fields["subject"] = *req.Subject
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Outcome != nil {
		fields["outcome"] = *req.Outcome
	}
	if req.ScheduledDate != nil {
		fields["scheduled_date"] = *req.ScheduledDate
	}
	if req.CompletedDate != nil {
		fields["completed_date"] = *req.CompletedDate
	}
	if req.Status != nil {
		fields["status"] = *req.Status
		// Completing an interaction stamps the completion time once.
		if *req.Status == model.InteractionStatusCompleted && interaction.CompletedDate == nil && req.CompletedDate == nil {
			fields["completed_date"] = time.Now()
		}
	}

	if len(fields) > 0 {
		if err := s.interactions.Update(ctx, interactionID, fields); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrNotFound
			}
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	updated, err := s.interactions.GetByID(ctx, interactionID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return updated, nil
}

func (s *InteractionService) Delete(ctx context.Context, clientID, interactionID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Delete")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if _, err := s.getOwned(ctx, clientID, interactionID); err != nil {
		return err
	}

	if err := s.interactions.Delete(ctx, interactionID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return nil
}

func (s *InteractionService) getOwned(ctx context.Context, clientID, interactionID uint) (*model.ClientInteraction, error) {
	interaction, err := s.interactions.GetByID(ctx, interactionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if interaction.ClientID != clientID {
		return nil, apperrors.ErrNotFound
	}

	return interaction, nil
}
