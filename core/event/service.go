package event

import (
	"context"
	"errors"
	"time"

	"github.com/elixirhub/metricsdb/core"
)

var (
	// errors
	ErrNotFound            = errors.New("event not found")
	ErrNodeNotFound        = errors.New("node not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInstitutionNotFound = errors.New("institution not found")
	ErrCodeExists          = errors.New("an event with this code already exists")
	ErrInvalidDates        = errors.New("invalid event dates")
)

type (
	NodeRepository interface {
		GetNodeByName(ctx context.Context, name string) (Node, error)
		QueryAllNodes(ctx context.Context) ([]Node, error)
	}

	UserRepository interface {
		GetUserByUsername(ctx context.Context, username string) (User, error)
	}

	InstitutionRepository interface {
		GetInstitutionByIdentifier(ctx context.Context, identifier string) (Institution, error)
		CreateInstitution(ctx context.Context, inst Institution) (Institution, error)
	}

	Repository interface {
		GetEventByCode(ctx context.Context, code string) (Event, error)
		QueryAllEvents(ctx context.Context) ([]Event, error)
		// CreateEvents persists the batch atomically: either every event is
		// stored or none is.
		CreateEvents(ctx context.Context, events []Event) ([]Event, error)
	}

	Service struct {
		repo  Repository
		nodes NodeRepository
		log   core.Logger
	}
)

func NewService(repo Repository, nodes NodeRepository, log core.Logger) *Service {
	return &Service{repo: repo, nodes: nodes, log: log}
}

func (svc *Service) GetByCode(ctx context.Context, code string) (Event, error) {
	return svc.repo.GetEventByCode(ctx, core.CleanString(code))
}

func (svc *Service) QueryAll(ctx context.Context) ([]Event, error) {
	return svc.repo.QueryAllEvents(ctx)
}

// Create validates and persists a single event owned by the given node/user.
func (svc *Service) Create(ctx context.Context, ne NewEvent, nodeID, createdByID int) (Event, error) {
	if err := ne.Validate(); err != nil {
		return Event{}, err
	}
	now := time.Now().UTC()
	created, err := svc.repo.CreateEvents(ctx, []Event{{
		Code:                ne.Code,
		Title:               ne.Title,
		NodeID:              nodeID,
		NodeNames:           ne.NodeNames,
		DateStart:           ne.DateStart,
		DateEnd:             ne.DateEnd,
		Type:                ne.Type,
		Funding:             ne.Funding,
		TargetAudience:      ne.TargetAudience,
		AdditionalPlatforms: ne.AdditionalPlatforms,
		LocationCity:        ne.LocationCity,
		LocationCountry:     ne.LocationCountry,
		NumParticipants:     ne.NumParticipants,
		NumTrainers:         ne.NumTrainers,
		CreatedByID:         createdByID,
		Created:             now,
		Modified:            now,
	}})
	if err != nil {
		return Event{}, err
	}
	return created[0], nil
}
