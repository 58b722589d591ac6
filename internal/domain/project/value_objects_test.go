package project_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitcollab/internal/domain/errs"
	"gitcollab/internal/domain/project"
)

func TestNewRepositoryURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"owner and repo", "https://github.com/acme/widgets", "https://github.com/acme/widgets", false},
		{"trailing slash stripped", "https://github.com/acme/widgets/", "https://github.com/acme/widgets", false},
		{"git suffix stripped", "https://github.com/acme/widgets.git", "https://github.com/acme/widgets", false},
		{"whitespace trimmed", "  https://github.com/acme/widgets  ", "https://github.com/acme/widgets", false},
		{"owner only", "https://github.com/acme", "", true},
		{"owner only with slash", "https://github.com/acme/", "", true},
		{"wrong host", "https://gitlab.com/acme/widgets", "", true},
		{"plain http", "http://github.com/acme/widgets", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := project.NewRepositoryURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errs.CodeInvalidRepositoryURL, errs.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestRepositoryURLOwnerAndName(t *testing.T) {
	u, err := project.NewRepositoryURL("https://github.com/acme/widgets/tree/main")
	require.NoError(t, err)

	owner, name, err := u.OwnerAndName()
	require.NoError(t, err)
	assert.Equal(t, "tree", owner)
	assert.Equal(t, "main", name)

	u, _ = project.NewRepositoryURL("https://github.com/acme/widgets")
	owner, name, err = u.OwnerAndName()
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "widgets", name)
}

func TestRepositoryURLOwnerAndNameMalformed(t *testing.T) {
	var zero project.RepositoryURL
	_, _, err := zero.OwnerAndName()
	assert.True(t, errors.Is(err, errs.New(errs.CodeMalformedRepoReference, "")))
}

func TestCapacityDecrementClamps(t *testing.T) {
	c, err := project.NewCapacity(1)
	require.NoError(t, err)

	c = c.Decrement()
	assert.Equal(t, 0, c.Int())
	c = c.Decrement()
	assert.Equal(t, 0, c.Int())

	_, err = project.NewCapacity(-1)
	assert.Error(t, err)
}

func TestNewDescription(t *testing.T) {
	_, err := project.NewDescription(strings.Repeat("é", 500))
	assert.NoError(t, err)

	_, err = project.NewDescription(strings.Repeat("a", 501))
	assert.Error(t, err)
}
