package response

import (
	"context"
	"errors"
	"time"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/alias"
	"github.com/elixirhub/metricsdb/core/catalog"
)

var (
	// errors
	ErrNotFound = errors.New("response set not found")
)

type (
	Repository interface {
		// CreateResponseSets persists sets and their responses atomically:
		// either every set is stored or none is.
		CreateResponseSets(ctx context.Context, sets []ResponseSet) ([]ResponseSet, error)
		QueryResponseSetsByEvent(ctx context.Context, eventID int) ([]ResponseSet, error)
		QueryResponseSetsBySet(ctx context.Context, questionSetID int) ([]ResponseSet, error)
		CountResponseSets(ctx context.Context, questionSetID, eventID int) (int, error)
		// DeleteResponseSetsByEvent bulk-deletes an event's submissions,
		// optionally narrowed to one question set (metrics reset).
		DeleteResponseSetsByEvent(ctx context.Context, eventID int, questionSetID *int) error
	}

	Service struct {
		repo    Repository
		aliases *alias.Resolver
		log     core.Logger
	}
)

func NewService(repo Repository, aliases *alias.Resolver, log core.Logger) *Service {
	return &Service{repo: repo, aliases: aliases, log: log}
}

// Submit validates payload against the set's current schema and stores one
// ResponseSet with one Response per selected answer. A payload answering no
// questions stores nothing and returns ErrNotFound-free zero value.
func (svc *Service) Submit(ctx context.Context, set catalog.QuestionSet, eventID, userID int, payload Payload) (ResponseSet, error) {
	selected, err := BuildValidator(set, svc.aliases).Validate(payload)
	if err != nil {
		return ResponseSet{}, err
	}
	if len(selected) == 0 {
		return ResponseSet{}, nil
	}

	rs := NewResponseSet(set, eventID, userID, selected, time.Now().UTC())
	created, err := svc.repo.CreateResponseSets(ctx, []ResponseSet{rs})
	if err != nil {
		return ResponseSet{}, err
	}
	return created[0], nil
}

func (svc *Service) QueryByEvent(ctx context.Context, eventID int) ([]ResponseSet, error) {
	return svc.repo.QueryResponseSetsByEvent(ctx, eventID)
}

// ResetEvent drops every submission recorded for the event against the given
// question set (nil = all sets).
func (svc *Service) ResetEvent(ctx context.Context, eventID int, questionSetID *int) error {
	return svc.repo.DeleteResponseSetsByEvent(ctx, eventID, questionSetID)
}

// NewResponseSet flattens validated selections into the stored shape.
func NewResponseSet(set catalog.QuestionSet, eventID, userID int, selected map[string][]catalog.Answer, now time.Time) ResponseSet {
	rs := ResponseSet{
		EventID:       eventID,
		QuestionSetID: set.ID,
		UserID:        userID,
		Created:       now,
		Modified:      now,
	}
	for _, answers := range selected {
		for _, ans := range answers {
			rs.Responses = append(rs.Responses, Response{AnswerID: ans.ID})
		}
	}
	return rs
}
