package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"gitcollab/internal/domain/collab"
	"gitcollab/internal/domain/events"
	"gitcollab/internal/domain/identity"
	"gitcollab/internal/domain/project"
	"gitcollab/internal/domain/request"
	"gitcollab/internal/domain/user"
)

// Mock implementations

type mockUserRepository struct {
	users       map[string]*user.User
	shouldError bool
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*user.User)}
}

func (m *mockUserRepository) Save(ctx context.Context, u *user.User) error {
	if m.shouldError {
		return errors.New("repository error")
	}
	m.users[u.ID().String()] = u
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id user.UserID) (*user.User, error) {
	if m.shouldError {
		return nil, errors.New("repository error")
	}
	u, ok := m.users[id.String()]
	if !ok {
		return nil, user.NotFound(id.String())
	}
	return u, nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username user.Username) (*user.User, error) {
	if m.shouldError {
		return nil, errors.New("repository error")
	}
	for _, u := range m.users {
		if u.Username().Equals(username) {
			return u, nil
		}
	}
	return nil, user.NotFound(username.String())
}

func (m *mockUserRepository) List(ctx context.Context, limit, offset int32) ([]*user.User, error) {
	if m.shouldError {
		return nil, errors.New("repository error")
	}
	var out []*user.User
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username().String() < out[j].Username().String() })
	if int(offset) >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > int(limit) {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.shouldError {
		return 0, errors.New("repository error")
	}
	return int64(len(m.users)), nil
}

func (m *mockUserRepository) add(name string) *user.User {
	u, err := user.NewUser(name, "")
	if err != nil {
		panic(err)
	}
	m.users[u.ID().String()] = u
	return u
}

type mockProjectRepository struct {
	mu          sync.Mutex
	projects    map[string]*project.Project
	shouldError bool
}

func newMockProjectRepository() *mockProjectRepository {
	return &mockProjectRepository{projects: make(map[string]*project.Project)}
}

func (m *mockProjectRepository) Save(ctx context.Context, p *project.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldError {
		return errors.New("repository error")
	}
	m.projects[p.ID().String()] = p
	return nil
}

func (m *mockProjectRepository) FindByID(ctx context.Context, id project.ProjectID) (*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldError {
		return nil, errors.New("repository error")
	}
	p, ok := m.projects[id.String()]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	return p, nil
}

func (m *mockProjectRepository) List(ctx context.Context, limit, offset int32) ([]*project.Project, error) {
	return m.filter(func(*project.Project) bool { return true }), nil
}

func (m *mockProjectRepository) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.projects)), nil
}

func (m *mockProjectRepository) FindByOwner(ctx context.Context, ownerID user.UserID, limit, offset int32) ([]*project.Project, error) {
	owned := m.filter(func(p *project.Project) bool { return p.BelongsToUser(ownerID) })
	start := min(int(offset), len(owned))
	end := min(start+int(limit), len(owned))
	return owned[start:end], nil
}

func (m *mockProjectRepository) CountByOwner(ctx context.Context, ownerID user.UserID) (int64, error) {
	return int64(len(m.filter(func(p *project.Project) bool { return p.BelongsToUser(ownerID) }))), nil
}

func (m *mockProjectRepository) ExistsByRepositoryURL(ctx context.Context, ownerID user.UserID, repoURL project.RepositoryURL) (bool, error) {
	return len(m.filter(func(p *project.Project) bool {
		return p.BelongsToUser(ownerID) && p.RepositoryURL().Equals(repoURL)
	})) > 0, nil
}

func (m *mockProjectRepository) Delete(ctx context.Context, id project.ProjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, id.String())
	return nil
}

func (m *mockProjectRepository) DecrementCapacity(ctx context.Context, id project.ProjectID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id.String()]
	if !ok {
		return 0, project.ErrProjectNotFound
	}
	n := max(0, p.ContributorsNeeded()-1)
	if err := p.Update(p.RepositoryURL().String(), p.Description().String(), n); err != nil {
		return 0, err
	}
	return n, nil
}

func (m *mockProjectRepository) filter(keep func(*project.Project) bool) []*project.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*project.Project
	for _, p := range m.projects {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out
}

func (m *mockProjectRepository) add(owner user.UserID, url string, capacity int) *project.Project {
	p, err := project.NewProject(owner, url, "looking for help", capacity)
	if err != nil {
		panic(err)
	}
	m.projects[p.ID().String()] = p
	return p
}

type mockEngagement struct {
	likes    map[string]map[string]bool
	comments map[string][]*project.Comment
}

func newMockEngagement() *mockEngagement {
	return &mockEngagement{
		likes:    make(map[string]map[string]bool),
		comments: make(map[string][]*project.Comment),
	}
}

func (m *mockEngagement) ToggleLike(ctx context.Context, pid project.ProjectID, uid user.UserID) (bool, error) {
	set, ok := m.likes[pid.String()]
	if !ok {
		set = make(map[string]bool)
		m.likes[pid.String()] = set
	}
	if set[uid.String()] {
		delete(set, uid.String())
		return false, nil
	}
	set[uid.String()] = true
	return true, nil
}

func (m *mockEngagement) CountLikes(ctx context.Context, pid project.ProjectID) (int64, error) {
	return int64(len(m.likes[pid.String()])), nil
}

func (m *mockEngagement) HasLiked(ctx context.Context, pid project.ProjectID, uid user.UserID) (bool, error) {
	return m.likes[pid.String()][uid.String()], nil
}

func (m *mockEngagement) AddComment(ctx context.Context, c *project.Comment) error {
	m.comments[c.ProjectID().String()] = append(m.comments[c.ProjectID().String()], c)
	return nil
}

func (m *mockEngagement) ListComments(ctx context.Context, pid project.ProjectID) ([]*project.Comment, error) {
	return m.comments[pid.String()], nil
}

// mockLedger keeps requests in memory and applies the same checks as the SQL ledger
type mockLedger struct {
	mu       sync.Mutex
	requests map[string]*request.ContributorRequest
	order    []string
	projects *mockProjectRepository
	users    *mockUserRepository
	commits  int
}

func newMockLedger(projects *mockProjectRepository, users *mockUserRepository) *mockLedger {
	return &mockLedger{
		requests: make(map[string]*request.ContributorRequest),
		projects: projects,
		users:    users,
	}
}

func (m *mockLedger) Create(ctx context.Context, req *request.ContributorRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.IsPending() && r.ProjectID().Equals(req.ProjectID()) && r.RequesterID().Equals(req.RequesterID()) {
			return request.ErrDuplicatePending(req.ProjectID(), req.RequesterID())
		}
	}
	m.requests[req.ID().String()] = copyRequest(req, req.Status())
	m.order = append(m.order, req.ID().String())
	return nil
}

func (m *mockLedger) FindByID(ctx context.Context, id request.RequestID) (*request.ContributorRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id.String()]
	if !ok {
		return nil, request.ErrRequestNotFound(id.String())
	}
	return copyRequest(r, r.Status()), nil
}

func (m *mockLedger) ListPending(ctx context.Context, pid project.ProjectID) ([]*request.PendingView, error) {
	return m.pending(func(r *request.ContributorRequest, p *project.Project) bool { return r.ProjectID().Equals(pid) }), nil
}

func (m *mockLedger) ListPendingForOwner(ctx context.Context, ownerID user.UserID) ([]*request.PendingView, error) {
	return m.pending(func(r *request.ContributorRequest, p *project.Project) bool { return p.BelongsToUser(ownerID) }), nil
}

func (m *mockLedger) ListByRequester(ctx context.Context, uid user.UserID) ([]*request.ContributorRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*request.ContributorRequest
	for i := len(m.order) - 1; i >= 0; i-- {
		r := m.requests[m.order[i]]
		if r.RequesterID().Equals(uid) {
			out = append(out, copyRequest(r, r.Status()))
		}
	}
	return out, nil
}

func (m *mockLedger) Transition(ctx context.Context, id request.RequestID, target request.Status, actor user.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.cas(id, target, actor)
	return err
}

func (m *mockLedger) CommitAcceptance(ctx context.Context, id request.RequestID, actor user.UserID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.cas(id, request.StatusAccepted, actor)
	if err != nil {
		return 0, err
	}
	m.commits++
	return m.projects.DecrementCapacity(ctx, r.ProjectID())
}

func (m *mockLedger) cas(id request.RequestID, target request.Status, actor user.UserID) (*request.ContributorRequest, error) {
	r, ok := m.requests[id.String()]
	if !ok {
		return nil, request.ErrRequestNotFound(id.String())
	}
	p, err := m.projects.FindByID(context.Background(), r.ProjectID())
	if err != nil {
		return nil, err
	}
	if !p.BelongsToUser(actor) {
		return nil, request.ErrNotAuthorized(actor, p.ID())
	}
	if !r.Status().CanTransitionTo(target) {
		return nil, request.ErrInvalidTransition(r.ID(), r.Status(), target)
	}
	updated := copyRequest(r, target)
	m.requests[id.String()] = updated
	return updated, nil
}

func (m *mockLedger) pending(keep func(*request.ContributorRequest, *project.Project) bool) []*request.PendingView {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*request.PendingView
	for _, id := range m.order {
		r := m.requests[id]
		if !r.IsPending() {
			continue
		}
		p, err := m.projects.FindByID(context.Background(), r.ProjectID())
		if err != nil || !keep(r, p) {
			continue
		}
		name := ""
		if u, err := m.users.FindByID(context.Background(), r.RequesterID()); err == nil {
			name = u.Username().String()
		}
		out = append(out, &request.PendingView{
			Request:           copyRequest(r, r.Status()),
			RequesterUsername: name,
			RepositoryURL:     p.RepositoryURL().String(),
		})
	}
	return out
}

func (m *mockLedger) status(id string) request.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[id].Status()
}

func copyRequest(r *request.ContributorRequest, status request.Status) *request.ContributorRequest {
	c, err := request.Reconstitute(r.ID().String(), r.ProjectID().String(), r.RequesterID().String(),
		status.String(), r.CreatedAt(), r.UpdatedAt())
	if err != nil {
		panic(err)
	}
	return c
}

type mockIdentityStore struct {
	mu          sync.Mutex
	identities  map[string]*identity.ExternalIdentity
	shouldError bool
}

func newMockIdentityStore() *mockIdentityStore {
	return &mockIdentityStore{identities: make(map[string]*identity.ExternalIdentity)}
}

func (m *mockIdentityStore) Lookup(ctx context.Context, uid user.UserID, provider string) (*identity.ExternalIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldError {
		return nil, errors.New("store error")
	}
	i, ok := m.identities[uid.String()+"/"+provider]
	if !ok {
		return nil, identity.ErrIdentityNotFound
	}
	return i, nil
}

func (m *mockIdentityStore) FindByExternalID(ctx context.Context, provider, externalID string) (*identity.ExternalIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldError {
		return nil, errors.New("store error")
	}
	for _, i := range m.identities {
		if i.Provider() == provider && i.ExternalID() == externalID {
			return i, nil
		}
	}
	return nil, identity.ErrIdentityNotFound
}

func (m *mockIdentityStore) Save(ctx context.Context, i *identity.ExternalIdentity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldError {
		return errors.New("store error")
	}
	m.identities[i.UserID().String()+"/"+i.Provider()] = i
	return nil
}

func (m *mockIdentityStore) link(u *user.User, login, token string) {
	i, err := identity.New(u.ID(), identity.ProviderGitHub, "gh-"+login, login, token)
	if err != nil {
		panic(err)
	}
	m.identities[u.ID().String()+"/"+identity.ProviderGitHub] = i
}

// fakeGrantAdapter returns scripted outcomes and records every call
type fakeGrantAdapter struct {
	mu       sync.Mutex
	outcomes []collab.GrantOutcome
	calls    []collab.GrantRequest
	block    chan struct{}
}

func (f *fakeGrantAdapter) GrantAccess(ctx context.Context, req collab.GrantRequest) collab.GrantOutcome {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	n := len(f.calls)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.outcomes) == 0 {
		return collab.Granted()
	}
	if n > len(f.outcomes) {
		return f.outcomes[len(f.outcomes)-1]
	}
	return f.outcomes[n-1]
}

func (f *fakeGrantAdapter) Strategy() string {
	return "fake"
}

func (f *fakeGrantAdapter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// recordingPublisher keeps dispatched events in order
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *recordingPublisher) Dispatch(ctx context.Context, e events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type fakeReadmes struct {
	gists map[string]string
	asked []string
}

func (f *fakeReadmes) ReadmeGist(ctx context.Context, login string) (string, bool) {
	f.asked = append(f.asked, login)
	text, ok := f.gists[strings.ToLower(login)]
	if !ok {
		return "No profile README", false
	}
	return text, true
}
