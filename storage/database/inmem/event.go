package inmemdb

import (
	"context"
	"sort"

	"github.com/elixirhub/metricsdb/core/event"
)

type nodeRepository struct {
	db *DB
}

var _ event.NodeRepository = (*nodeRepository)(nil) // interface compliance check

func NewNodeRepository(db *DB) *nodeRepository {
	return &nodeRepository{db: db}
}

func (repo *nodeRepository) GetNodeByName(_ context.Context, name string) (event.Node, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, node := range repo.db.nodes {
		if node.Name == name {
			return *node, nil
		}
	}
	return event.Node{}, event.ErrNodeNotFound
}

func (repo *nodeRepository) QueryAllNodes(_ context.Context) ([]event.Node, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	nodes := make([]event.Node, 0, len(repo.db.nodes))
	for _, node := range repo.db.nodes {
		nodes = append(nodes, *node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes, nil
}

type userRepository struct {
	db *DB
}

var _ event.UserRepository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) GetUserByUsername(_ context.Context, username string) (event.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.users {
		if usr.Username == username {
			return *usr, nil
		}
	}
	return event.User{}, event.ErrUserNotFound
}

type institutionRepository struct {
	db *DB
}

var _ event.InstitutionRepository = (*institutionRepository)(nil) // interface compliance check

func NewInstitutionRepository(db *DB) *institutionRepository {
	return &institutionRepository{db: db}
}

func (repo *institutionRepository) GetInstitutionByIdentifier(_ context.Context, identifier string) (event.Institution, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, inst := range repo.db.institutions {
		if inst.Identifier == identifier {
			return *inst, nil
		}
	}
	return event.Institution{}, event.ErrInstitutionNotFound
}

func (repo *institutionRepository) CreateInstitution(_ context.Context, inst event.Institution) (event.Institution, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	inst.ID = repo.db.nextPK()
	stored := inst
	repo.db.institutions[inst.ID] = &stored
	return inst, nil
}

type eventRepository struct {
	db *DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) *eventRepository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) GetEventByCode(_ context.Context, code string) (event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, evt := range repo.db.events {
		if evt.Code == code {
			return *evt, nil
		}
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) QueryAllEvents(_ context.Context) ([]event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	events := make([]event.Event, 0, len(repo.db.events))
	for _, evt := range repo.db.events {
		events = append(events, *evt)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (repo *eventRepository) CreateEvents(_ context.Context, events []event.Event) ([]event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// uniqueness check first so a mid-batch conflict leaves nothing behind
	for _, evt := range events {
		for _, existing := range repo.db.events {
			if existing.Code == evt.Code {
				return nil, event.ErrCodeExists
			}
		}
	}

	created := make([]event.Event, len(events))
	for i, evt := range events {
		evt.ID = repo.db.nextPK()
		stored := evt
		repo.db.events[evt.ID] = &stored
		created[i] = evt
	}
	return created, nil
}
