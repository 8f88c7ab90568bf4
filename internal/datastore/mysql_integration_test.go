//go:build integration

package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/datastore/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
)

func TestMySQLManager_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	ctr, err := tcmysql.Run(ctx, "mysql:8.0.36",
		tcmysql.WithDatabase("reefkb"),
		tcmysql.WithUsername("reef"),
		tcmysql.WithPassword("coral"),
	)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	m, err := NewMySQLManager(&conf.MySQLSettings{
		Host: host, Port: port.Port(), Username: "reef", Password: "coral", Database: "reefkb",
	}, Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Initialize())
	assert.Equal(t, conf.DatabaseMySQL, m.Dialect())

	store := repository.NewStore(m.DB())
	site := &entities.Site{Name: "Al Fahal", NameAbbreviation: "AF", TimeZone: "+03:00", Country: "Saudi Arabia"}
	require.NoError(t, store.Sites.Create(ctx, site))

	// MySQL reports error 1062, which must come back as a duplicate key.
	err = store.Sites.Create(ctx, &entities.Site{Name: "Other", NameAbbreviation: "AF", TimeZone: "+03:00", Country: "Saudi Arabia"})
	require.ErrorIs(t, err, repository.ErrDuplicateKey)

	var dup *repository.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Contains(t, dup.Constraint, "name_abbreviation")

	require.NoError(t, store.Sites.Delete(ctx, site.ID))
}
