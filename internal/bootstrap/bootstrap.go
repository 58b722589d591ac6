// Package bootstrap wires configuration, storage, the grant strategy and the
// application services together for the server and the admin CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gitcollab/internal/application/service"
	"gitcollab/internal/config"
	"gitcollab/internal/database"
	"gitcollab/internal/domain/collab"
	"gitcollab/internal/domain/events"
	"gitcollab/internal/github"
	"gitcollab/internal/infrastructure/browser"
	"gitcollab/internal/infrastructure/encryption"
	infraGitHub "gitcollab/internal/infrastructure/github"
	"gitcollab/internal/infrastructure/persistence"
)

// Deps are the outside-world pieces the services are built on
type Deps struct {
	DB           *database.DB
	Cipher       persistence.Cipher
	Adapter      collab.GrantAdapter
	Readmes      service.ReadmeGists
	GrantTimeout time.Duration
	Logger       *slog.Logger
}

// Services holds the application layer
type Services struct {
	Dispatcher  *events.Dispatcher
	Users       *service.UserService
	Projects    *service.ProjectService
	Requests    *service.RequestService
	Invitations *service.InvitationService
	Profiles    *service.ProfileService
}

// NewServices builds the repositories, the event dispatcher and every service
func NewServices(d Deps) *Services {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dispatcher := events.NewDispatcher(logger)
	dispatcher.RegisterAll(events.AuditHandler(logger))

	userRepo := persistence.NewUserRepository(d.DB)
	projectRepo := persistence.NewProjectRepository(d.DB)
	engagement := persistence.NewEngagementRepository(d.DB)
	ledger := persistence.NewRequestLedger(d.DB)
	identities := persistence.NewIdentityStore(d.DB, d.Cipher)

	return &Services{
		Dispatcher:  dispatcher,
		Users:       service.NewUserService(userRepo, identities, dispatcher, logger),
		Projects:    service.NewProjectService(projectRepo, engagement, userRepo, ledger, dispatcher, logger),
		Requests:    service.NewRequestService(ledger, projectRepo, dispatcher, logger),
		Invitations: service.NewInvitationService(ledger, projectRepo, identities, d.Adapter, dispatcher, d.GrantTimeout, logger),
		Profiles:    service.NewProfileService(userRepo, identities, d.Readmes),
	}
}

// NewGrantAdapter selects the collaborator grant strategy from configuration
func NewGrantAdapter(cfg *config.Config, client *github.Client, logger *slog.Logger) (collab.GrantAdapter, error) {
	switch cfg.Grant.Strategy {
	case config.GrantStrategyAPI:
		return infraGitHub.NewAPIGrantAdapter(client, logger), nil
	case config.GrantStrategyBrowser:
		launcher := browser.NewChromeLauncher(browser.LaunchConfig{
			Headless:    cfg.Grant.Headless,
			ExecPath:    cfg.Grant.BrowserPath,
			UserDataDir: cfg.Grant.UserDataDir,
		})
		return browser.NewUIGrantAdapter(launcher, browser.UIConfig{
			WebBaseURL:  cfg.GitHub.WebBaseURL,
			StepTimeout: cfg.Grant.StepTimeout,
			SettleDelay: cfg.Grant.SettleDelay,
			Selectors:   browser.DefaultSelectors(),
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown grant strategy %q", cfg.Grant.Strategy)
	}
}

// App is a fully wired application
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *database.DB
	Adapter  collab.GrantAdapter
	Services *Services
}

// New connects to the database, runs migrations and wires everything from cfg
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app, err := wire(cfg, db, logger)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return app, nil
}

func wire(cfg *config.Config, db *database.DB, logger *slog.Logger) (*App, error) {
	cipher, err := encryption.NewService(cfg.Encryption.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize encryption: %w", err)
	}

	client, err := github.NewClient(cfg.GitHub.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GitHub client: %w", err)
	}

	adapter, err := NewGrantAdapter(cfg, client, logger)
	if err != nil {
		return nil, err
	}

	readmes := infraGitHub.NewReadmeService(client, cfg.Readme.CacheSize, cfg.Readme.CacheTTL, logger)

	services := NewServices(Deps{
		DB:           db,
		Cipher:       cipher,
		Adapter:      adapter,
		Readmes:      readmes,
		GrantTimeout: cfg.Grant.OperationTimeout,
		Logger:       logger,
	})

	logger.Info("application wired", "db_driver", db.Driver(), "grant_strategy", adapter.Strategy())

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Adapter:  adapter,
		Services: services,
	}, nil
}

// Close releases the database
func (a *App) Close() error {
	return a.DB.Close()
}
