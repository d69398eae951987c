// Package testdb opens a migrated sqlite database for tests.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Skotchmaster/incident_service/internal/models"
	pkgdb "github.com/Skotchmaster/incident_service/pkg/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, pkgdb.Migrate(db, &models.User{}, &models.Incident{}))

	t.Cleanup(func() { _ = pkgdb.Close(db) })
	return db
}
