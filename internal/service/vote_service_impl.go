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

type voteService struct {
	uow      db.UnitOfWork
	notifier Notifier
	observer UseCaseObserver
}

func NewVoteService(uow db.UnitOfWork, notifier Notifier, observers ...UseCaseObserver) VoteService {
	return &voteService{
		uow:      uow,
		notifier: notifierOrNoop(notifier),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Cast presents the token, then runs the voting engine and persists its
// effects: ballot, voter aggregate, tally and the vote-cast event commit
// together or not at all.
func (s *voteService) Cast(ctx context.Context, req CastVoteRequest) (receipt *VoteReceipt, err error) {
	startedAt := time.Now()
	fields := map[string]any{
		"proposal_id": req.ProposalID,
		"token_id":    req.TokenID,
		"identity":    req.Identity,
		"vote_type":   string(req.VoteType),
	}
	defer observeUseCase(ctx, s.observer, "cast-vote", startedAt, fields, &err)

	var box outbox
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		proposals := repository.NewSQLiteProposalRepo(tx)
		p, err := proposals.GetByID(ctx, req.ProposalID)
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
		if err := presentToken(ctx, tx, d, req.TokenID, req.Identity); err != nil {
			return err
		}

		ballot, err := p.CastVote(req.TokenID, req.Identity, req.VoteType, req.Now)
		if err != nil {
			return err
		}
		if err := proposals.RecordVote(ctx, p, ballot); err != nil {
			return err
		}
		if err := box.add(ctx, tx, domain.VoteCastEvent(uuid.New().String(), p, ballot)); err != nil {
			return err
		}
		receipt = &VoteReceipt{Ballot: ballot, Tally: p.Tally, Voter: p.Voters[req.Identity]}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("casting vote on %s: %w", req.ProposalID, err)
	}
	box.flush(ctx, s.notifier)
	return receipt, nil
}
