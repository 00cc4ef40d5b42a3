package service

import (
	"context"

	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/repository"
)

type eventService struct {
	events repository.EventRepo
}

func NewEventService(events repository.EventRepo) EventService {
	return &eventService{events: events}
}

func (s *eventService) List(ctx context.Context, daoID string, limit int) ([]domain.Event, error) {
	return s.events.List(ctx, daoID, limit)
}
