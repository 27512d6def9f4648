package datasource

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackodds/internal/config"
	"github.com/yourusername/trackodds/internal/database"
	"github.com/yourusername/trackodds/internal/repository"
)

// Backend is an opened store: its repositories and the function releasing it
type Backend struct {
	Repos  *repository.Repositories
	Driver string
	close  func()
}

// Close releases connections held by the backend
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Factory creates the repository backend selected by configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new backend factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// Open creates the backend named by store.driver
func (f *Factory) Open(ctx context.Context) (*Backend, error) {
	if f.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	store := f.config.Store
	switch store.Driver {
	case config.StoreDriverREST:
		return f.openREST()
	case config.StoreDriverPostgres:
		return f.openPostgres(ctx)
	case config.StoreDriverMemory:
		return f.openMemory()
	default:
		return nil, fmt.Errorf("unknown store driver: %s", store.Driver)
	}
}

func (f *Factory) openREST() (*Backend, error) {
	store := f.config.Store

	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = store.Timeout()
	httpCfg.MaxRetries = store.MaxRetries
	httpCfg.RateLimit = store.RateLimit
	httpClient := NewRateLimitedHTTPClient(httpCfg, f.logger)

	client, err := NewRESTClient(httpClient, store.URL, store.APIKey, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST store client: %w", err)
	}

	f.log().WithField("url", store.URL).Info("Using hosted REST store")
	return &Backend{
		Repos:  NewRESTRepositories(client, store.ResultsTable),
		Driver: config.StoreDriverREST,
		close:  func() { _ = httpClient.Close() },
	}, nil
}

func (f *Factory) openPostgres(ctx context.Context) (*Backend, error) {
	db, err := database.NewDB(ctx, &f.config.Database)
	if err != nil {
		return nil, err
	}

	repos, err := repository.NewRepositories(db, f.config.Store.ResultsTable)
	if err != nil {
		db.Close()
		return nil, err
	}

	f.log().WithFields(logrus.Fields{
		"host":     f.config.Database.Host,
		"database": f.config.Database.Name,
	}).Info("Using Postgres store")
	return &Backend{Repos: repos, Driver: config.StoreDriverPostgres, close: db.Close}, nil
}

func (f *Factory) openMemory() (*Backend, error) {
	var fixture repository.Fixture
	if path := f.config.Store.FixturePath; path != "" {
		var err error
		fixture, err = repository.LoadFixtureFile(path)
		if err != nil {
			return nil, err
		}
	}

	f.log().WithFields(logrus.Fields{
		"fixture": f.config.Store.FixturePath,
		"drivers": len(fixture.Drivers),
	}).Info("Using in-memory store")
	return &Backend{
		Repos:  repository.NewMemoryRepositories(repository.NewMemoryStore(fixture)),
		Driver: config.StoreDriverMemory,
	}, nil
}

func (f *Factory) log() logrus.FieldLogger {
	if f.logger == nil {
		return logrus.StandardLogger()
	}
	return f.logger
}
