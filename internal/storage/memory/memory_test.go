package memory

import (
	"sync"
	"testing"

	"github.com/juju/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/storage/storagetest"
	"github.com/aanand-mishra/enrollment-api/internal/types"
)

func TestMemoryBackend(t *testing.T) {
	suite.Run(t, storagetest.NewSuite(func(clk clock.Clock, ids storage.IDGenerator) (storage.Storage, error) {
		return New(clk, ids), nil
	}))
}

func TestGetAllReturnsACopy(t *testing.T) {
	store := NewEnrollmentStore(clock.WallClock)
	_, err := store.Create("s1", "c1")
	require.NoError(t, err)

	all, err := store.GetAll()
	require.NoError(t, err)
	all[0].StudentID = "tampered"

	ok, err := store.Exists("s1", "c1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConcurrentCreates(t *testing.T) {
	store := NewStudentStore(clock.WallClock, storage.NewUUID)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Create(types.StudentInput{FullName: "N", Email: "n@x.com", Age: 20})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 50)
}
