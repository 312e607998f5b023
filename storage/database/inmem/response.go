package inmemdb

import (
	"context"
	"sort"

	"github.com/elixirhub/metricsdb/core/response"
)

type responseRepository struct {
	db *DB
}

var _ response.Repository = (*responseRepository)(nil) // interface compliance check

func NewResponseRepository(db *DB) *responseRepository {
	return &responseRepository{db: db}
}

func (repo *responseRepository) CreateResponseSets(_ context.Context, sets []response.ResponseSet) ([]response.ResponseSet, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	created := make([]response.ResponseSet, len(sets))
	for i, set := range sets {
		set.ID = repo.db.nextPK()
		for j := range set.Responses {
			set.Responses[j].ID = repo.db.nextPK()
			set.Responses[j].ResponseSetID = set.ID
		}
		stored := set
		stored.Responses = append([]response.Response(nil), set.Responses...)
		repo.db.responseSets[set.ID] = &stored
		created[i] = set
	}
	return created, nil
}

func (repo *responseRepository) query(match func(response.ResponseSet) bool) []response.ResponseSet {
	sets := make([]response.ResponseSet, 0)
	for _, set := range repo.db.responseSets {
		if match(*set) {
			copied := *set
			copied.Responses = append([]response.Response(nil), set.Responses...)
			sets = append(sets, copied)
		}
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].ID < sets[j].ID })
	return sets
}

func (repo *responseRepository) QueryResponseSetsByEvent(_ context.Context, eventID int) ([]response.ResponseSet, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(func(set response.ResponseSet) bool { return set.EventID == eventID }), nil
}

func (repo *responseRepository) QueryResponseSetsBySet(_ context.Context, questionSetID int) ([]response.ResponseSet, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(func(set response.ResponseSet) bool { return set.QuestionSetID == questionSetID }), nil
}

func (repo *responseRepository) CountResponseSets(_ context.Context, questionSetID, eventID int) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	count := 0
	for _, set := range repo.db.responseSets {
		if set.QuestionSetID == questionSetID && set.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (repo *responseRepository) DeleteResponseSetsByEvent(_ context.Context, eventID int, questionSetID *int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for id, set := range repo.db.responseSets {
		if set.EventID != eventID {
			continue
		}
		if questionSetID != nil && set.QuestionSetID != *questionSetID {
			continue
		}
		delete(repo.db.responseSets, id)
	}
	return nil
}
