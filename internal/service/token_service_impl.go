package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/repository"
	"github.com/google/uuid"
)

type tokenService struct {
	tokens repository.TokenRepo
}

func NewTokenService(tokens repository.TokenRepo) TokenService {
	return &tokenService{tokens: tokens}
}

// Mint issues a membership token. It is an operator tool; governance never
// mints, consumes or transfers tokens.
func (s *tokenService) Mint(ctx context.Context, req MintTokenRequest) (*domain.Token, error) {
	typ := strings.TrimSpace(req.Type)
	holder := strings.TrimSpace(req.Holder)
	if typ == "" || holder == "" {
		return nil, fmt.Errorf("minting token: type and holder are required")
	}
	t := &domain.Token{
		ID:       uuid.New().String(),
		Type:     typ,
		Holder:   holder,
		Origin:   strings.TrimSpace(req.Origin),
		IssuedAt: req.Now,
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("minting token: %w", err)
	}
	return t, nil
}

func (s *tokenService) GetByID(ctx context.Context, id string) (*domain.Token, error) {
	return s.tokens.GetByID(ctx, id)
}

func (s *tokenService) List(ctx context.Context, holder string) ([]*domain.Token, error) {
	if holder == "" {
		return s.tokens.List(ctx)
	}
	return s.tokens.ListByHolder(ctx, holder)
}
