package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/agora/internal/db"
	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/repository"
	"github.com/google/uuid"
)

// CreationRules decides who may create a DAO.
type CreationRules struct {
	Policy domain.CreationPolicy
	Admins []string
}

// authorize checks the creator against the rules. Under the token policy the
// creator must hold a token that the new DAO's own predicate accepts.
func (r CreationRules) authorize(ctx context.Context, tokens repository.TokenRepo, creator, tokenID string, e domain.Eligibility) error {
	switch r.Policy {
	case domain.CreationByAdmin:
		if !slices.Contains(r.Admins, creator) {
			return fmt.Errorf("%w: %s is not an admin", domain.ErrCreationDenied, creator)
		}
		return nil
	case domain.CreationByToken, "":
		if tokenID == "" {
			return fmt.Errorf("%w: a qualifying token is required", domain.ErrCreationDenied)
		}
		tok, err := tokens.GetByID(ctx, tokenID)
		if err != nil {
			return err
		}
		return domain.Present(e, tok, creator)
	default:
		return fmt.Errorf("%w: unknown creation policy %q", domain.ErrCreationDenied, r.Policy)
	}
}

type daoService struct {
	daos     repository.DAORepo
	registry repository.RegistryRepo
	uow      db.UnitOfWork
	rules    CreationRules
	notifier Notifier
	observer UseCaseObserver
}

func NewDAOService(
	daos repository.DAORepo,
	registry repository.RegistryRepo,
	uow db.UnitOfWork,
	rules CreationRules,
	notifier Notifier,
	observers ...UseCaseObserver,
) DAOService {
	return &daoService{
		daos:     daos,
		registry: registry,
		uow:      uow,
		rules:    rules,
		notifier: notifierOrNoop(notifier),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *daoService) Create(ctx context.Context, req CreateDAORequest) (d *domain.DAO, err error) {
	startedAt := time.Now()
	fields := map[string]any{"name": req.Name, "creator": req.Creator}
	defer observeUseCase(ctx, s.observer, "create-dao", startedAt, fields, &err)

	d = &domain.DAO{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		MembershipType: strings.TrimSpace(req.MembershipType),
		Quorum:         req.Params.Quorum,
		VotingDelay:    req.Params.VotingDelay,
		VotingPeriod:   req.Params.VotingPeriod,
		Creator:        req.Creator,
		Version:        domain.CurrentVersion,
		CreatedAt:      req.Now,
		UpdatedAt:      req.Now,
	}
	if err = d.Validate(); err != nil {
		return nil, err
	}
	fields["dao_id"] = d.ID

	var box outbox
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := s.rules.authorize(ctx, repository.NewSQLiteTokenRepo(tx), req.Creator, req.TokenID, domain.EligibilityFor(d)); err != nil {
			return err
		}
		return s.insert(ctx, tx, &box, d, domain.HubID)
	})
	if err != nil {
		return nil, fmt.Errorf("creating dao: %w", err)
	}
	box.flush(ctx, s.notifier)
	return d, nil
}

func (s *daoService) CreateSub(ctx context.Context, req CreateSubDAORequest) (d *domain.DAO, err error) {
	startedAt := time.Now()
	fields := map[string]any{"name": req.Name, "parent_id": req.ParentID, "origin": req.Origin, "creator": req.Creator}
	defer observeUseCase(ctx, s.observer, "create-sub-dao", startedAt, fields, &err)

	var box outbox
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		parent, err := repository.NewSQLiteDAORepo(tx).GetByID(ctx, req.ParentID)
		if err != nil {
			return err
		}
		if err := parent.CheckVersion(); err != nil {
			return err
		}

		params := GovernanceParams{Quorum: parent.Quorum, VotingDelay: parent.VotingDelay, VotingPeriod: parent.VotingPeriod}
		if req.Params != nil {
			params = *req.Params
		}
		origin := strings.TrimSpace(req.Origin)
		d = &domain.DAO{
			ID:             uuid.New().String(),
			ParentID:       &parent.ID,
			Name:           strings.TrimSpace(req.Name),
			Description:    req.Description,
			MembershipType: parent.MembershipType,
			Origin:         &origin,
			Quorum:         params.Quorum,
			VotingDelay:    params.VotingDelay,
			VotingPeriod:   params.VotingPeriod,
			Creator:        req.Creator,
			Version:        domain.CurrentVersion,
			CreatedAt:      req.Now,
			UpdatedAt:      req.Now,
		}
		if err := d.Validate(); err != nil {
			return err
		}
		if err := s.rules.authorize(ctx, repository.NewSQLiteTokenRepo(tx), req.Creator, req.TokenID, domain.EligibilityFor(d)); err != nil {
			return err
		}
		return s.insert(ctx, tx, &box, d, parent.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("creating sub-dao: %w", err)
	}
	fields["dao_id"] = d.ID
	box.flush(ctx, s.notifier)
	return d, nil
}

// insert persists d, appends it to the registry under parentID and stages
// the creation event.
func (s *daoService) insert(ctx context.Context, tx db.DBTX, box *outbox, d *domain.DAO, parentID string) error {
	if err := repository.NewSQLiteDAORepo(tx).Create(ctx, d); err != nil {
		return err
	}
	if err := repository.NewSQLiteRegistryRepo(tx).Append(ctx, parentID, d.ID, d.CreatedAt); err != nil {
		return err
	}
	return box.add(ctx, tx, domain.DAOCreatedEvent(uuid.New().String(), d))
}

func (s *daoService) GetByID(ctx context.Context, id string) (*domain.DAO, error) {
	return s.daos.GetByID(ctx, id)
}

func (s *daoService) List(ctx context.Context) ([]*domain.DAO, error) {
	return s.daos.List(ctx)
}

func (s *daoService) Registered(ctx context.Context, parentID string) ([]string, error) {
	return s.registry.List(ctx, parentID)
}
