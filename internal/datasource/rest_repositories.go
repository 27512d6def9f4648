package datasource

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/yourusername/trackodds/internal/models"
	"github.com/yourusername/trackodds/internal/repository"
)

// NewRESTRepositories creates repositories reading through the REST client.
// resultsTable names the table holding race results.
func NewRESTRepositories(client *RESTClient, resultsTable string) *repository.Repositories {
	if resultsTable == "" {
		resultsTable = repository.TableResults
	}
	return &repository.Repositories{
		Driver: &restDrivers{client: client},
		Track:  &restTracks{client: client},
		Race:   &restRaces{client: client},
		Odds:   &restOdds{client: client},
		Result: &restResults{client: client, table: resultsTable},
		Schema: &restSchema{client: client},
	}
}

// selectRows reads table into rows of type R and converts each with model
func selectRows[R any, M any](ctx context.Context, c *RESTClient, table string, params url.Values, model func(R) M) ([]M, error) {
	var rows []R
	if err := c.Select(ctx, table, params, &rows); err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r R, _ int) M { return model(r) }), nil
}

// selectOne reads at most one row, returning models.ErrNotFound when there is none
func selectOne[R any, M any](ctx context.Context, c *RESTClient, table string, params url.Values, model func(R) M) (*M, error) {
	params.Set("limit", "1")
	items, err := selectRows(ctx, c, table, params, model)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrNotFound
	}
	return &items[0], nil
}

type restDrivers struct {
	client *RESTClient
}

func (r *restDrivers) ListActive(ctx context.Context) ([]models.Driver, error) {
	return selectRows(ctx, r.client, repository.TableDrivers, url.Values{
		"is_active": {eq("true")},
		"order":     {"name.asc"},
	}, driverRow.model)
}

func (r *restDrivers) List(ctx context.Context) ([]models.Driver, error) {
	return selectRows(ctx, r.client, repository.TableDrivers, url.Values{"order": {"name.asc"}}, driverRow.model)
}

func (r *restDrivers) GetByID(ctx context.Context, id string) (*models.Driver, error) {
	return selectOne(ctx, r.client, repository.TableDrivers, url.Values{"id": {eq(id)}}, driverRow.model)
}

func (r *restDrivers) FindByName(ctx context.Context, name string) (*models.Driver, error) {
	matches, err := r.ListByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, models.ErrNotFound
	}
	d, ok := lo.Find(matches, func(d models.Driver) bool { return d.IsActive })
	if !ok {
		d = matches[0]
	}
	return &d, nil
}

func (r *restDrivers) ListByName(ctx context.Context, name string) ([]models.Driver, error) {
	// ilike treats * as a wildcard, so narrow to exact matches afterwards
	drivers, err := selectRows(ctx, r.client, repository.TableDrivers, url.Values{
		"name": {"ilike." + name},
	}, driverRow.model)
	if err != nil {
		return nil, err
	}
	return lo.Filter(drivers, func(d models.Driver, _ int) bool {
		return strings.EqualFold(d.Name, name)
	}), nil
}

type restTracks struct {
	client *RESTClient
}

func (r *restTracks) List(ctx context.Context) ([]models.Track, error) {
	return selectRows(ctx, r.client, repository.TableTracks, url.Values{"order": {"name.asc"}}, trackRow.model)
}

func (r *restTracks) GetByID(ctx context.Context, id string) (*models.Track, error) {
	return selectOne(ctx, r.client, repository.TableTracks, url.Values{"id": {eq(id)}}, trackRow.model)
}

type restRaces struct {
	client *RESTClient
}

func (r *restRaces) List(ctx context.Context) ([]models.Race, error) {
	return selectRows(ctx, r.client, repository.TableRaces, url.Values{"order": {"scheduled_date.asc"}}, raceRow.model)
}

func (r *restRaces) GetByID(ctx context.Context, id string) (*models.Race, error) {
	return selectOne(ctx, r.client, repository.TableRaces, url.Values{"id": {eq(id)}}, raceRow.model)
}

func (r *restRaces) NextUpcoming(ctx context.Context, now time.Time) (*models.Race, error) {
	return selectOne(ctx, r.client, repository.TableRaces, url.Values{
		"scheduled_date": {"gte." + now.UTC().Format(time.RFC3339)},
		"order":          {"scheduled_date.asc"},
	}, raceRow.model)
}

type restOdds struct {
	client *RESTClient
}

func (r *restOdds) ListByRace(ctx context.Context, raceID string) ([]models.OddsQuote, error) {
	return selectRows(ctx, r.client, repository.TableOdds, url.Values{
		"race_id": {eq(raceID)},
		"order":   {"created_at.desc"},
	}, oddsRow.model)
}

func (r *restOdds) LatestForDriver(ctx context.Context, driverID, raceID string) (*models.OddsQuote, error) {
	return selectOne(ctx, r.client, repository.TableOdds, url.Values{
		"driver_id": {eq(driverID)},
		"race_id":   {eq(raceID)},
		"order":     {"created_at.desc"},
	}, oddsRow.model)
}

type restResults struct {
	client *RESTClient
	table  string
}

func (r *restResults) List(ctx context.Context) ([]models.ResultRecord, error) {
	return selectRows(ctx, r.client, r.table, url.Values{}, resultRow.model)
}

func (r *restResults) ListByDrivers(ctx context.Context, driverIDs []string) ([]models.ResultRecord, error) {
	if len(driverIDs) == 0 {
		return nil, nil
	}
	return selectRows(ctx, r.client, r.table, url.Values{"driver_id": {inList(driverIDs)}}, resultRow.model)
}

// restSchema infers columns from a sample row since the REST interface has no catalog
type restSchema struct {
	client *RESTClient
}

func (s *restSchema) Columns(ctx context.Context, table string) ([]string, error) {
	row, err := s.client.SampleRow(ctx, table)
	if err != nil {
		return nil, err
	}
	cols := lo.Keys(row)
	sort.Strings(cols)
	return cols, nil
}

func (s *restSchema) TableExists(ctx context.Context, table string) (bool, error) {
	return s.client.TableExists(ctx, table)
}
