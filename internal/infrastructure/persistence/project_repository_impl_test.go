package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitcollab/internal/domain/project"
	"gitcollab/internal/infrastructure/persistence"
)

func TestProjectRepositoryCRUD(t *testing.T) {
	db := openDB(t)
	repo := persistence.NewProjectRepository(db)
	ctx := context.Background()
	owner := mustUser(t, db, "acme")

	first := mustProject(t, db, owner, "widgets", 2)
	tick()
	second := mustProject(t, db, owner, "gadgets", 1)

	got, err := repo.FindByID(ctx, first.ID())
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widgets", got.RepositoryURL().String())
	assert.Equal(t, 2, got.ContributorsNeeded())

	list, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].ID().Equals(second.ID()), "newest first")

	owned, err := repo.FindByOwner(ctx, owner.ID(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	owned, err = repo.FindByOwner(ctx, owner.ID(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	count, err := repo.CountByOwner(ctx, owner.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByOwner(ctx, mustUser(t, db, "nobody").ID())
	require.NoError(t, err)
	assert.Zero(t, count)

	exists, err := repo.ExistsByRepositoryURL(ctx, owner.ID(), first.RepositoryURL())
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, got.Update("https://github.com/acme/widgets", "updated", 4))
	require.NoError(t, repo.Save(ctx, got))
	got, err = repo.FindByID(ctx, first.ID())
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Description().String())
	assert.Equal(t, 4, got.ContributorsNeeded())

	require.NoError(t, repo.Delete(ctx, first.ID()))
	_, err = repo.FindByID(ctx, first.ID())
	assert.True(t, errors.Is(err, project.ErrProjectNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, first.ID()), project.ErrProjectNotFound))
}

func TestDecrementCapacityClampsAtZero(t *testing.T) {
	db := openDB(t)
	repo := persistence.NewProjectRepository(db)
	ctx := context.Background()
	p := mustProject(t, db, mustUser(t, db, "acme"), "widgets", 2)

	for _, want := range []int{1, 0, 0, 0} {
		remaining, err := repo.DecrementCapacity(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, want, remaining)
	}

	_, err := repo.DecrementCapacity(ctx, project.NewProjectID())
	assert.True(t, errors.Is(err, project.ErrProjectNotFound))
}

func TestEngagementLikesAndComments(t *testing.T) {
	db := openDB(t)
	eng := persistence.NewEngagementRepository(db)
	ctx := context.Background()
	owner := mustUser(t, db, "acme")
	fan := mustUser(t, db, "fan")
	p := mustProject(t, db, owner, "widgets", 1)

	liked, err := eng.ToggleLike(ctx, p.ID(), fan.ID())
	require.NoError(t, err)
	assert.True(t, liked)

	n, err := eng.CountLikes(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	liked, err = eng.ToggleLike(ctx, p.ID(), fan.ID())
	require.NoError(t, err)
	assert.False(t, liked)

	has, err := eng.HasLiked(ctx, p.ID(), fan.ID())
	require.NoError(t, err)
	assert.False(t, has)

	c1, _ := project.NewComment(p.ID(), fan.ID(), "first")
	require.NoError(t, eng.AddComment(ctx, c1))
	tick()
	c2, _ := project.NewComment(p.ID(), owner.ID(), "second")
	require.NoError(t, eng.AddComment(ctx, c2))

	comments, err := eng.ListComments(ctx, p.ID())
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text())
	assert.Equal(t, "second", comments[1].Text())
}
