package service

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trackodds/internal/repository"
)

const fixturePath = "../repository/testdata/fixture.json"

// fixtureNow is a day before the 2026 Daytona 500 in the fixture
var fixtureNow = time.Date(2026, 2, 14, 18, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newFixtureService(t *testing.T, opts Options) (*DataService, *repository.MemoryStore) {
	t.Helper()
	f, err := repository.LoadFixtureFile(fixturePath)
	require.NoError(t, err)
	return newServiceFor(f, opts)
}

func newServiceFor(f repository.Fixture, opts Options) (*DataService, *repository.MemoryStore) {
	store := repository.NewMemoryStore(f)
	svc := NewDataService(repository.NewMemoryRepositories(store), opts, quietLogger())
	svc.SetClock(func() time.Time { return fixtureNow })
	return svc, store
}
