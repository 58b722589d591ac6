package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"gitcollab/internal/domain/collab"
)

// Selectors locate the controls of GitHub's "Collaborators and teams" page
type Selectors struct {
	AddPeopleButton string
	SearchField     string
	FirstSuggestion string
	// AlreadyMember and ConfirmButton take the grantee username via %[1]s
	AlreadyMember string
	ConfirmButton string
}

// DefaultSelectors matches the GitHub settings/access page
func DefaultSelectors() Selectors {
	return Selectors{
		AddPeopleButton: `//button[contains(., 'Add people')]`,
		SearchField:     `#collaborator-search-field`,
		FirstSuggestion: `//*[contains(@class, 'autocomplete-results')]//li[1]`,
		AlreadyMember:   `//*[@role='dialog']//*[contains(., '%[1]s is already a collaborator') or contains(., '%[1]s already has a pending invitation')][not(*)]`,
		ConfirmButton:   `//button[contains(., 'Add %[1]s')]`,
	}
}

// UIConfig tunes the UI strategy
type UIConfig struct {
	WebBaseURL  string
	StepTimeout time.Duration
	SettleDelay time.Duration
	Selectors   Selectors
}

// UIGrantAdapter adds collaborators by driving the GitHub web UI as the
// account the browser profile is signed in with
type UIGrantAdapter struct {
	launcher Launcher
	cfg      UIConfig
	logger   *slog.Logger
}

// NewUIGrantAdapter creates the UI strategy
func NewUIGrantAdapter(launcher Launcher, cfg UIConfig, logger *slog.Logger) *UIGrantAdapter {
	if cfg.WebBaseURL == "" {
		cfg.WebBaseURL = "https://github.com"
	}
	cfg.WebBaseURL = strings.TrimRight(cfg.WebBaseURL, "/")
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = 10 * time.Second
	}
	if cfg.Selectors == (Selectors{}) {
		cfg.Selectors = DefaultSelectors()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UIGrantAdapter{launcher: launcher, cfg: cfg, logger: logger.With("component", "grant_ui")}
}

func (a *UIGrantAdapter) Strategy() string {
	return "browser"
}

// GrantAccess walks the add-collaborator dialog. The session is released on every path.
func (a *UIGrantAdapter) GrantAccess(ctx context.Context, req collab.GrantRequest) collab.GrantOutcome {
	session, err := a.launcher.Launch(ctx)
	if err != nil {
		return stepFailure("launch browser", err)
	}
	defer session.Close()

	step := a.cfg.StepTimeout
	sel := a.cfg.Selectors
	log := a.logger.With("repo", req.RepoOwner+"/"+req.RepoName, "grantee", req.GranteeUsername)

	settingsURL := fmt.Sprintf("%s/%s/%s/settings/access", a.cfg.WebBaseURL, req.RepoOwner, req.RepoName)
	if err := session.Navigate(settingsURL, step); err != nil {
		return stepFailure("open settings page", err)
	}

	current, err := session.CurrentURL(step)
	if err != nil {
		return stepFailure("read current URL", err)
	}
	if signedOut(current) {
		log.WarnContext(ctx, "browser session is not signed in to GitHub")
		return collab.Failed("auth required")
	}

	if err := session.Click(sel.AddPeopleButton, step); err != nil {
		return stepFailure("open add people dialog", err)
	}
	if err := session.Type(sel.SearchField, req.GranteeUsername, step); err != nil {
		return stepFailure("search user", err)
	}
	if err := session.Click(sel.FirstSuggestion, step); err != nil {
		return stepFailure("select user", err)
	}

	already, err := session.Present(fmt.Sprintf(sel.AlreadyMember, req.GranteeUsername), step)
	if err != nil {
		return stepFailure("check membership", err)
	}
	if already {
		log.InfoContext(ctx, "user already a collaborator or invited")
		return collab.AlreadyCollaboratorOrPending()
	}

	if err := session.Click(fmt.Sprintf(sel.ConfirmButton, req.GranteeUsername), step); err != nil {
		return stepFailure("confirm invitation", err)
	}

	if a.cfg.SettleDelay > 0 {
		select {
		case <-time.After(a.cfg.SettleDelay):
		case <-ctx.Done():
			return stepFailure("confirm invitation", ctx.Err())
		}
	}

	log.InfoContext(ctx, "collaborator invited through web UI")
	return collab.Granted()
}

// signedOut reports whether GitHub redirected to its sign-in pages
func signedOut(current string) bool {
	u, err := url.Parse(current)
	if err != nil {
		return false
	}
	switch path := strings.TrimRight(u.Path, "/"); {
	case path == "/login", strings.HasPrefix(path, "/login/"):
		return true
	case path == "/session", path == "/sessions", strings.HasPrefix(path, "/sessions/"):
		return true
	}
	return false
}

func stepFailure(step string, err error) collab.GrantOutcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return collab.TimedOut(step)
	}
	return collab.Failed("%s: %v", step, err)
}
