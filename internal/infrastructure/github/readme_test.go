package github_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	ghclient "gitcollab/internal/github"
	infra "gitcollab/internal/infrastructure/github"
)

type fakeReadmes struct {
	calls   int
	content map[string]string
	err     error
}

func (f *fakeReadmes) GetReadme(ctx context.Context, token, owner, repo string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	text, ok := f.content[owner+"/"+repo]
	if !ok {
		return "", ghclient.ErrNotFound
	}
	return text, nil
}

func TestReadmeGist(t *testing.T) {
	long := strings.Repeat("ab", 150)
	fake := &fakeReadmes{content: map[string]string{
		"octocat/octocat": "# Hi",
		"verbose/verbose": long,
	}}
	svc := infra.NewReadmeService(fake, 16, time.Minute, nil)
	ctx := context.Background()

	g := svc.Gist(ctx, "octocat")
	assert.True(t, g.Found)
	assert.Equal(t, "# Hi", g.Text)

	g = svc.Gist(ctx, "verbose")
	assert.Len(t, g.Text, 200)
	assert.Equal(t, long[:200], g.Text)

	g = svc.Gist(ctx, "ghost")
	assert.False(t, g.Found)
	assert.Equal(t, infra.NoReadme, g.Text)

	// cached, including the not-found answer
	calls := fake.calls
	svc.Gist(ctx, "OctoCat")
	svc.Gist(ctx, "ghost")
	assert.Equal(t, calls, fake.calls)
}

func TestReadmeGistErrorNotCached(t *testing.T) {
	fake := &fakeReadmes{err: errors.New("connection reset")}
	svc := infra.NewReadmeService(fake, 16, time.Minute, nil)

	g := svc.Gist(context.Background(), "octocat")
	assert.Equal(t, infra.ReadmeUnavailable, g.Text)

	svc.Gist(context.Background(), "octocat")
	assert.Equal(t, 2, fake.calls)
}
