package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type EventService struct {
	eventRepo repository.EventRepository
}

func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

type CreateEventRequest struct {
	Name     string     `json:"name"`
	Status   string     `json:"status"`
	StartsAt *time.Time `json:"startsAt"`
	EndsAt   *time.Time `json:"endsAt"`
}

func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*model.Event, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("name is required: %w", common.ErrValidation)
	}
	if req.Status == "" {
		req.Status = model.EventUpcoming
	}
	if !model.ValidEventStatus(req.Status) {
		return nil, fmt.Errorf("invalid status %q: %w", req.Status, common.ErrValidation)
	}
	if req.StartsAt != nil && req.EndsAt != nil && req.EndsAt.Before(*req.StartsAt) {
		return nil, fmt.Errorf("endsAt must not be before startsAt: %w", common.ErrValidation)
	}

	eventSlug := slug.Make(req.Name)
	if eventSlug == "" {
		return nil, fmt.Errorf("name must contain letters or digits: %w", common.ErrValidation)
	}

	event := &model.Event{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Slug:     eventSlug,
		Status:   req.Status,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("an event named like this already exists: %w", common.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *EventService) GetBySlug(ctx context.Context, eventSlug string) (*model.Event, error) {
	event, err := s.eventRepo.FindBySlug(ctx, eventSlug)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("event not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return event, nil
}

func (s *EventService) UpdateStatus(ctx context.Context, id, status string) (*model.Event, error) {
	if !model.ValidEventStatus(status) {
		return nil, fmt.Errorf("invalid status %q: %w", status, common.ErrValidation)
	}
	if err := s.eventRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("event not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return event, nil
}
