package browser_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gitcollab/internal/domain/collab"
	"gitcollab/internal/infrastructure/browser"
)

type fakeSession struct {
	url       string
	present   map[string]bool
	failOn    map[string]error
	clicked   []string
	typed     string
	navigated string
	closes    int
}

func (s *fakeSession) fail(sel string) error {
	return s.failOn[sel]
}

func (s *fakeSession) Navigate(url string, timeout time.Duration) error {
	s.navigated = url
	if s.url == "" {
		s.url = url
	}
	return s.fail("navigate")
}

func (s *fakeSession) CurrentURL(timeout time.Duration) (string, error) {
	return s.url, nil
}

func (s *fakeSession) Click(selector string, timeout time.Duration) error {
	if err := s.fail(selector); err != nil {
		return err
	}
	s.clicked = append(s.clicked, selector)
	return nil
}

func (s *fakeSession) Type(selector, text string, timeout time.Duration) error {
	s.typed = text
	return s.fail(selector)
}

func (s *fakeSession) Present(selector string, timeout time.Duration) (bool, error) {
	return s.present[selector], nil
}

func (s *fakeSession) Close() error {
	s.closes++
	return nil
}

type fakeLauncher struct {
	session *fakeSession
	err     error
}

func (l *fakeLauncher) Launch(ctx context.Context) (browser.Session, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.session, nil
}

var sel = browser.DefaultSelectors()

func request() collab.GrantRequest {
	return collab.GrantRequest{RepoOwner: "acme", RepoName: "widgets", GranteeUsername: "alice", GrantorUsername: "acme"}
}

func newAdapter(l browser.Launcher) *browser.UIGrantAdapter {
	return browser.NewUIGrantAdapter(l, browser.UIConfig{
		WebBaseURL:  "https://github.com/",
		StepTimeout: time.Second,
	}, nil)
}

func TestUIGrantAdapterGrants(t *testing.T) {
	s := &fakeSession{}
	out := newAdapter(&fakeLauncher{session: s}).GrantAccess(context.Background(), request())

	assert.Equal(t, collab.OutcomeGranted, out.Kind)
	assert.Equal(t, "https://github.com/acme/widgets/settings/access", s.navigated)
	assert.Equal(t, "alice", s.typed)
	assert.Equal(t, []string{sel.AddPeopleButton, sel.FirstSuggestion, fmt.Sprintf(sel.ConfirmButton, "alice")}, s.clicked)
	assert.Equal(t, 1, s.closes)
}

func TestUIGrantAdapterOutcomes(t *testing.T) {
	confirm := fmt.Sprintf(sel.ConfirmButton, "alice")

	tests := []struct {
		name         string
		session      *fakeSession
		wantKind     collab.OutcomeKind
		wantTimedOut bool
		wantReason   string
	}{
		{
			name:       "login redirect",
			session:    &fakeSession{url: "https://github.com/login?return_to=%2Facme"},
			wantKind:   collab.OutcomeFailed,
			wantReason: "auth required",
		},
		{
			name:     "signed-in page of a repo named like login",
			session:  &fakeSession{url: "https://github.com/acme/login-service/settings/access"},
			wantKind: collab.OutcomeGranted,
		},
		{
			name:       "sessions redirect",
			session:    &fakeSession{url: "https://github.com/sessions/two-factor"},
			wantKind:   collab.OutcomeFailed,
			wantReason: "auth required",
		},
		{
			name:     "already collaborator",
			session:  &fakeSession{present: map[string]bool{fmt.Sprintf(sel.AlreadyMember, "alice"): true}},
			wantKind: collab.OutcomeAlreadyCollaboratorOrPending,
		},
		{
			name:     "another user has a pending invite",
			session:  &fakeSession{present: map[string]bool{fmt.Sprintf(sel.AlreadyMember, "bob"): true}},
			wantKind: collab.OutcomeGranted,
		},
		{
			name:         "confirm step times out",
			session:      &fakeSession{failOn: map[string]error{confirm: context.DeadlineExceeded}},
			wantKind:     collab.OutcomeFailed,
			wantTimedOut: true,
			wantReason:   "timed out: confirm invitation",
		},
		{
			name:       "suggestion list missing",
			session:    &fakeSession{failOn: map[string]error{sel.FirstSuggestion: errors.New("node not found")}},
			wantKind:   collab.OutcomeFailed,
			wantReason: "select user: node not found",
		},
		{
			name:         "search field never appears",
			session:      &fakeSession{failOn: map[string]error{sel.SearchField: fmt.Errorf("wait: %w", context.DeadlineExceeded)}},
			wantKind:     collab.OutcomeFailed,
			wantTimedOut: true,
			wantReason:   "timed out: search user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := newAdapter(&fakeLauncher{session: tt.session}).GrantAccess(context.Background(), request())

			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, tt.wantTimedOut, out.TimedOut)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, out.Reason)
			}
			assert.Equal(t, 1, tt.session.closes, "session must be released exactly once")
		})
	}
}

func TestUIGrantAdapterAlreadySkipsConfirm(t *testing.T) {
	s := &fakeSession{present: map[string]bool{fmt.Sprintf(sel.AlreadyMember, "alice"): true}}
	newAdapter(&fakeLauncher{session: s}).GrantAccess(context.Background(), request())
	assert.NotContains(t, s.clicked, fmt.Sprintf(sel.ConfirmButton, "alice"))
}

func TestUIGrantAdapterLaunchFailure(t *testing.T) {
	out := newAdapter(&fakeLauncher{err: errors.New("chrome not found")}).GrantAccess(context.Background(), request())
	assert.Equal(t, collab.OutcomeFailed, out.Kind)
	assert.Contains(t, out.Reason, "chrome not found")
}

func TestUIGrantAdapterSettleRespectsContext(t *testing.T) {
	s := &fakeSession{}
	adapter := browser.NewUIGrantAdapter(&fakeLauncher{session: s}, browser.UIConfig{
		StepTimeout: time.Second,
		SettleDelay: time.Hour,
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	out := adapter.GrantAccess(ctx, request())
	assert.True(t, out.TimedOut)
	assert.Equal(t, 1, s.closes)
}

func TestDefaultAlreadyMemberSelectorIsScoped(t *testing.T) {
	got := fmt.Sprintf(sel.AlreadyMember, "alice")
	assert.Contains(t, got, "@role='dialog'")
	assert.Contains(t, got, "alice is already a collaborator")
	assert.Contains(t, got, "alice already has a pending invitation")
	assert.NotContains(t, got, "Pending Invite")
}
