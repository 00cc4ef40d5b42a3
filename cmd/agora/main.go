package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/agora/internal/cli"
	"github.com/alexanderramin/agora/internal/cli/formatter"
	"github.com/alexanderramin/agora/internal/config"
	"github.com/alexanderramin/agora/internal/db"
	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/repository"
	"github.com/alexanderramin/agora/internal/service"
	"github.com/alexanderramin/agora/internal/telemetry"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v [%s]\n", err, domain.ClassOf(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	color := string(cfg.Color)
	if cfg.Color == config.ColorAuto && !isatty.IsTerminal(os.Stdout.Fd()) {
		color = string(config.ColorNever)
	}
	formatter.SetColorMode(color)

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: telemetry.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("flushing traces", "error", err)
		}
	}()

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	daoRepo := repository.NewSQLiteDAORepo(database)
	tokenRepo := repository.NewSQLiteTokenRepo(database)
	proposalRepo := repository.NewSQLiteProposalRepo(database)
	treasuryRepo := repository.NewSQLiteTreasuryRepo(database)
	registryRepo := repository.NewSQLiteRegistryRepo(database)
	eventRepo := repository.NewSQLiteEventRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}
	if cfg.OTelEnabled && cfg.OTelEndpoint != "" {
		observers = append(observers, service.NewTraceUseCaseObserver(telemetry.Tracer()))
	}
	notifier := service.NewLogNotifier(logger)
	rules := service.CreationRules{Policy: cfg.CreationPolicy, Admins: cfg.Admins}

	app := &cli.App{
		DAOs:      service.NewDAOService(daoRepo, registryRepo, uow, rules, notifier, observers...),
		Tokens:    service.NewTokenService(tokenRepo),
		Proposals: service.NewProposalService(proposalRepo, uow, notifier, observers...),
		Votes:     service.NewVoteService(uow, notifier, observers...),
		Treasury:  service.NewTreasuryService(daoRepo, treasuryRepo, uow, notifier, observers...),
		Events:    service.NewEventService(eventRepo),
		Defaults: service.GovernanceParams{
			Quorum:       cfg.DefaultQuorum,
			VotingDelay:  cfg.DefaultVotingDelay,
			VotingPeriod: cfg.DefaultVotingPeriod,
		},
	}

	// Detect interactive terminal for forms and the board.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
