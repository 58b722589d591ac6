package persistence_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitcollab/internal/config"
	"gitcollab/internal/database"
	"gitcollab/internal/domain/project"
	"gitcollab/internal/domain/user"
	"gitcollab/internal/infrastructure/persistence"
)

func openDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewConnection(context.Background(), &config.DatabaseConfig{
		Driver: database.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "gitcollab.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustUser(t *testing.T, db *database.DB, username string) *user.User {
	t.Helper()
	u, err := user.NewUser(username, "")
	require.NoError(t, err)
	require.NoError(t, persistence.NewUserRepository(db).Save(context.Background(), u))
	return u
}

func mustProject(t *testing.T, db *database.DB, owner *user.User, repo string, needed int) *project.Project {
	t.Helper()
	p, err := project.NewProject(owner.ID(), "https://github.com/"+owner.Username().String()+"/"+repo, "", needed)
	require.NoError(t, err)
	require.NoError(t, persistence.NewProjectRepository(db).Save(context.Background(), p))
	return p
}

// tick keeps created_at values strictly ordered between inserts.
func tick() {
	time.Sleep(5 * time.Millisecond)
}
