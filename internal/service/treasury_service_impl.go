package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/agora/internal/db"
	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/repository"
	"github.com/google/uuid"
)

type treasuryService struct {
	daos      repository.DAORepo
	movements repository.TreasuryRepo
	uow       db.UnitOfWork
	notifier  Notifier
	observer  UseCaseObserver
}

func NewTreasuryService(
	daos repository.DAORepo,
	movements repository.TreasuryRepo,
	uow db.UnitOfWork,
	notifier Notifier,
	observers ...UseCaseObserver,
) TreasuryService {
	return &treasuryService{
		daos:      daos,
		movements: movements,
		uow:       uow,
		notifier:  notifierOrNoop(notifier),
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Deposit credits a DAO treasury. Anyone may deposit.
func (s *treasuryService) Deposit(ctx context.Context, daoID, from string, amount domain.Amount, now time.Time) (d *domain.DAO, err error) {
	startedAt := time.Now()
	fields := map[string]any{"dao_id": daoID, "from": from, "amount": amount.String()}
	defer observeUseCase(ctx, s.observer, "deposit", startedAt, fields, &err)

	from = strings.TrimSpace(from)
	if from == "" {
		return nil, fmt.Errorf("depositing into %s: depositor is required", daoID)
	}

	var box outbox
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		daos := repository.NewSQLiteDAORepo(tx)
		var err error
		d, err = daos.GetByID(ctx, daoID)
		if err != nil {
			return err
		}
		if err := d.CheckVersion(); err != nil {
			return err
		}
		if err := d.Treasury.Deposit(amount); err != nil {
			return err
		}
		d.UpdatedAt = now
		if err := daos.UpdateTreasury(ctx, d); err != nil {
			return err
		}
		err = repository.NewSQLiteTreasuryRepo(tx).Record(ctx, &domain.TreasuryMovement{
			ID:        uuid.New().String(),
			DAOID:     d.ID,
			Direction: domain.MovementDeposit,
			Party:     from,
			Amount:    amount,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}
		return box.add(ctx, tx, domain.TreasuryDepositedEvent(uuid.New().String(), d.ID, from, amount, now))
	})
	if err != nil {
		return nil, fmt.Errorf("depositing into %s: %w", daoID, err)
	}
	fields["balance"] = d.Treasury.Balance.String()
	box.flush(ctx, s.notifier)
	return d, nil
}

func (s *treasuryService) Balance(ctx context.Context, daoID string) (domain.Amount, error) {
	d, err := s.daos.GetByID(ctx, daoID)
	if err != nil {
		return 0, err
	}
	return d.Treasury.Balance, nil
}

func (s *treasuryService) Movements(ctx context.Context, daoID string) ([]*domain.TreasuryMovement, error) {
	return s.movements.ListByDAO(ctx, daoID)
}

func (s *treasuryService) ReceivedBy(ctx context.Context, party string) (domain.Amount, error) {
	return s.movements.ReceivedBy(ctx, party)
}
