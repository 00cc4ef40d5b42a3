package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/agora/internal/db"
	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/repository"
	"github.com/google/uuid"
)

type proposalService struct {
	proposals repository.ProposalRepo
	uow       db.UnitOfWork
	notifier  Notifier
	observer  UseCaseObserver
}

func NewProposalService(
	proposals repository.ProposalRepo,
	uow db.UnitOfWork,
	notifier Notifier,
	observers ...UseCaseObserver,
) ProposalService {
	return &proposalService{
		proposals: proposals,
		uow:       uow,
		notifier:  notifierOrNoop(notifier),
		observer:  useCaseObserverOrNoop(observers),
	}
}

// presentToken loads tokenID and checks that identity holds it and that it
// qualifies for d.
func presentToken(ctx context.Context, tx db.DBTX, d *domain.DAO, tokenID, identity string) error {
	tok, err := repository.NewSQLiteTokenRepo(tx).GetByID(ctx, tokenID)
	if err != nil {
		return err
	}
	return domain.Present(domain.EligibilityFor(d), tok, identity)
}

func (s *proposalService) Create(ctx context.Context, req CreateProposalRequest) (p *domain.Proposal, err error) {
	startedAt := time.Now()
	fields := map[string]any{"dao_id": req.DAOID, "identity": req.Identity, "kind": string(req.Kind)}
	defer observeUseCase(ctx, s.observer, "create-proposal", startedAt, fields, &err)

	var box outbox
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		d, err := repository.NewSQLiteDAORepo(tx).GetByID(ctx, req.DAOID)
		if err != nil {
			return err
		}
		if err := d.CheckVersion(); err != nil {
			return err
		}
		if err := presentToken(ctx, tx, d, req.TokenID, req.Identity); err != nil {
			return err
		}

		p, err = domain.NewProposal(uuid.New().String(), d, domain.ProposalInput{
			Name:        req.Name,
			Description: req.Description,
			Kind:        req.Kind,
			Recipient:   req.Recipient,
			Amount:      req.Amount,
			Creator:     req.Identity,
		}, req.Now)
		if err != nil {
			return err
		}
		if err := repository.NewSQLiteProposalRepo(tx).Create(ctx, p); err != nil {
			return err
		}
		return box.add(ctx, tx, domain.ProposalCreatedEvent(uuid.New().String(), p))
	})
	if err != nil {
		return nil, fmt.Errorf("creating proposal: %w", err)
	}
	fields["proposal_id"] = p.ID
	box.flush(ctx, s.notifier)
	return p, nil
}

func (s *proposalService) Cancel(ctx context.Context, proposalID, identity string, now time.Time) (p *domain.Proposal, err error) {
	startedAt := time.Now()
	fields := map[string]any{"proposal_id": proposalID, "identity": identity}
	defer observeUseCase(ctx, s.observer, "cancel-proposal", startedAt, fields, &err)

	var box outbox
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		proposals := repository.NewSQLiteProposalRepo(tx)
		p, err = proposals.GetByID(ctx, proposalID)
		if err != nil {
			return err
		}
		d, err := repository.NewSQLiteDAORepo(tx).GetByID(ctx, p.DAOID)
		if err != nil {
			return err
		}
		if err := d.CheckVersion(); err != nil {
			return err
		}
		if err := p.Cancel(identity, now); err != nil {
			return err
		}
		if err := proposals.UpdateStatus(ctx, p); err != nil {
			return err
		}
		return box.add(ctx, tx, domain.ProposalCanceledEvent(uuid.New().String(), p, now))
	})
	if err != nil {
		return nil, fmt.Errorf("canceling proposal %s: %w", proposalID, err)
	}
	box.flush(ctx, s.notifier)
	return p, nil
}

func (s *proposalService) Resolve(ctx context.Context, proposalID string, now time.Time) (res *Resolution, err error) {
	startedAt := time.Now()
	fields := map[string]any{"proposal_id": proposalID}
	defer observeUseCase(ctx, s.observer, "resolve-proposal", startedAt, fields, &err)

	var box outbox
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		res, err = resolveInTx(ctx, tx, &box, proposalID, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("resolving proposal %s: %w", proposalID, err)
	}
	fields["status"] = string(res.Proposal.Status)
	if res.Payout != nil {
		fields["payout"] = res.Payout.Amount.String()
	}
	box.flush(ctx, s.notifier)
	return res, nil
}

// resolveInTx applies the resolution rule and, for an executed funding
// proposal, the treasury payout. The status write is guarded so that only
// the first resolver commits; a loser sees ErrWrongStatus and nothing of its
// work survives the rollback.
func resolveInTx(ctx context.Context, tx db.DBTX, box *outbox, proposalID string, now time.Time) (*Resolution, error) {
	proposals := repository.NewSQLiteProposalRepo(tx)
	daos := repository.NewSQLiteDAORepo(tx)

	p, err := proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	d, err := daos.GetByID(ctx, p.DAOID)
	if err != nil {
		return nil, err
	}
	if err := d.CheckVersion(); err != nil {
		return nil, err
	}

	payout, err := p.Resolve(d, now)
	if err != nil {
		return nil, err
	}
	if err := proposals.UpdateStatus(ctx, p); err != nil {
		return nil, err
	}
	if payout != nil {
		if err := daos.UpdateTreasury(ctx, d); err != nil {
			return nil, err
		}
		err := repository.NewSQLiteTreasuryRepo(tx).Record(ctx, &domain.TreasuryMovement{
			ID:         uuid.New().String(),
			DAOID:      d.ID,
			Direction:  domain.MovementPayout,
			Party:      payout.Recipient,
			Amount:     payout.Amount,
			ProposalID: &p.ID,
			CreatedAt:  now,
		})
		if err != nil {
			return nil, err
		}
	}
	if err := box.add(ctx, tx, domain.ProposalResolvedEvent(uuid.New().String(), p, payout, now)); err != nil {
		return nil, err
	}
	return &Resolution{Proposal: p, Payout: payout}, nil
}

func (s *proposalService) ResolveDue(ctx context.Context, now time.Time) (result *SweepResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"now_ms": now.UnixMilli()}
	defer observeUseCase(ctx, s.observer, "resolve-due", startedAt, fields, &err)

	due, err := s.proposals.ListDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("listing due proposals: %w", err)
	}

	result = &SweepResult{}
	for _, candidate := range due {
		res, rerr := s.Resolve(ctx, candidate.ID, now)
		if rerr != nil {
			result.Failed = append(result.Failed, SweepFailure{ProposalID: candidate.ID, Err: rerr})
			continue
		}
		result.Resolved = append(result.Resolved, *res)
	}
	fields["resolved"] = len(result.Resolved)
	fields["failed"] = len(result.Failed)
	return result, nil
}

func (s *proposalService) GetByID(ctx context.Context, id string) (*domain.Proposal, error) {
	return s.proposals.GetByID(ctx, id)
}

func (s *proposalService) ListByDAO(ctx context.Context, daoID string) ([]*domain.Proposal, error) {
	return s.proposals.ListByDAO(ctx, daoID)
}
