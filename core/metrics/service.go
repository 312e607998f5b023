package metrics

import (
	"context"
	"errors"

	"github.com/elixirhub/metricsdb/core"
)

var (
	// errors
	ErrNotFound = errors.New("metrics record not found")
)

type (
	Repository interface {
		// Create* persist an import batch atomically: either every record is
		// stored or none is.
		CreateQuality(ctx context.Context, records []Quality) ([]Quality, error)
		CreateImpact(ctx context.Context, records []Impact) ([]Impact, error)
		CreateDemographic(ctx context.Context, records []Demographic) ([]Demographic, error)

		QueryQuality(ctx context.Context, eventID *int) ([]Quality, error)
		QueryImpact(ctx context.Context, eventID *int) ([]Impact, error)
		QueryDemographic(ctx context.Context, eventID *int) ([]Demographic, error)
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Records loads the legacy records of one model as the generic Record view the
// migration engine consumes. eventID narrows to one event; nil loads all.
func (svc *Service) Records(ctx context.Context, model string, eventID *int) ([]Record, error) {
	switch model {
	case ModelQuality:
		rows, err := svc.repo.QueryQuality(ctx, eventID)
		if err != nil {
			return nil, err
		}
		records := make([]Record, len(rows))
		for i, row := range rows {
			records[i] = row
		}
		return records, nil
	case ModelImpact:
		rows, err := svc.repo.QueryImpact(ctx, eventID)
		if err != nil {
			return nil, err
		}
		records := make([]Record, len(rows))
		for i, row := range rows {
			records[i] = row
		}
		return records, nil
	case ModelDemographic:
		rows, err := svc.repo.QueryDemographic(ctx, eventID)
		if err != nil {
			return nil, err
		}
		records := make([]Record, len(rows))
		for i, row := range rows {
			records[i] = row
		}
		return records, nil
	}
	_, err := SpecFor(model)
	return nil, err
}
