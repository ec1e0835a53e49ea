package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/juju/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/storage/storagetest"
	"github.com/aanand-mishra/enrollment-api/internal/types"
)

func TestSQLiteBackend(t *testing.T) {
	suite.Run(t, storagetest.NewSuite(func(clk clock.Clock, ids storage.IDGenerator) (storage.Storage, error) {
		return New(":memory:", clk, ids)
	}))
}

func TestNewResetsFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.db")

	first, err := New(path, clock.WallClock, storage.NewUUID)
	require.NoError(t, err)
	_, err = first.Students().Create(types.StudentInput{FullName: "Ana", Email: "ana@x.com", Age: 19})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(path, clock.WallClock, storage.NewUUID)
	require.NoError(t, err)
	defer second.Close()

	all, err := second.Students().GetAll()
	require.NoError(t, err)
	assert.Empty(t, all, "state must not survive a restart")
}
