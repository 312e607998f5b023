package inmemdb

import (
	"context"
	"sort"

	"github.com/elixirhub/metricsdb/core/metrics"
)

type metricsRepository struct {
	db *DB
}

var _ metrics.Repository = (*metricsRepository)(nil) // interface compliance check

func NewMetricsRepository(db *DB) *metricsRepository {
	return &metricsRepository{db: db}
}

func (repo *metricsRepository) CreateQuality(_ context.Context, records []metrics.Quality) ([]metrics.Quality, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	created := make([]metrics.Quality, len(records))
	for i, rec := range records {
		rec.ID = repo.db.nextPK()
		stored := rec
		repo.db.quality[rec.ID] = &stored
		created[i] = rec
	}
	return created, nil
}

func (repo *metricsRepository) CreateImpact(_ context.Context, records []metrics.Impact) ([]metrics.Impact, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	created := make([]metrics.Impact, len(records))
	for i, rec := range records {
		rec.ID = repo.db.nextPK()
		stored := rec
		repo.db.impact[rec.ID] = &stored
		created[i] = rec
	}
	return created, nil
}

func (repo *metricsRepository) CreateDemographic(_ context.Context, records []metrics.Demographic) ([]metrics.Demographic, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	created := make([]metrics.Demographic, len(records))
	for i, rec := range records {
		rec.ID = repo.db.nextPK()
		stored := rec
		repo.db.demographic[rec.ID] = &stored
		created[i] = rec
	}
	return created, nil
}

func (repo *metricsRepository) QueryQuality(_ context.Context, eventID *int) ([]metrics.Quality, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]metrics.Quality, 0, len(repo.db.quality))
	for _, rec := range repo.db.quality {
		if eventID == nil || rec.EventID == *eventID {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (repo *metricsRepository) QueryImpact(_ context.Context, eventID *int) ([]metrics.Impact, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]metrics.Impact, 0, len(repo.db.impact))
	for _, rec := range repo.db.impact {
		if eventID == nil || rec.EventID == *eventID {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (repo *metricsRepository) QueryDemographic(_ context.Context, eventID *int) ([]metrics.Demographic, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]metrics.Demographic, 0, len(repo.db.demographic))
	for _, rec := range repo.db.demographic {
		if eventID == nil || rec.EventID == *eventID {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}
