package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/elixirhub/metricsdb/core/event"
)

type nodeRepository struct {
	db *sqlx.DB
}

var _ event.NodeRepository = (*nodeRepository)(nil) // interface compliance check

func NewNodeRepository(db *sqlx.DB) *nodeRepository {
	return &nodeRepository{db: db}
}

func (repo nodeRepository) GetNodeByName(ctx context.Context, name string) (event.Node, error) {
	var node event.Node
	err := repo.db.QueryRowxContext(ctx,
		`SELECT id, name FROM node WHERE name = $1`, name).Scan(&node.ID, &node.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Node{}, event.ErrNodeNotFound
		}
		return event.Node{}, errors.Wrap(err, "getting node")
	}
	return node, nil
}

func (repo nodeRepository) QueryAllNodes(ctx context.Context) ([]event.Node, error) {
	rows, err := repo.db.QueryxContext(ctx, `SELECT id, name FROM node ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying nodes")
	}
	defer func() { _ = rows.Close() }()

	var nodes []event.Node
	for rows.Next() {
		var node event.Node
		if err = rows.Scan(&node.ID, &node.Name); err != nil {
			return nil, errors.Wrap(err, "scanning node")
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

type userRepository struct {
	db *sqlx.DB
}

var _ event.UserRepository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) GetUserByUsername(ctx context.Context, username string) (event.User, error) {
	var usr event.User
	err := repo.db.QueryRowxContext(ctx,
		`SELECT id, username, email, node_id FROM account WHERE username = $1`, username).
		Scan(&usr.ID, &usr.Username, &usr.Email, &usr.NodeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.User{}, event.ErrUserNotFound
		}
		return event.User{}, errors.Wrap(err, "getting user")
	}
	return usr, nil
}

type institutionRepository struct {
	db *sqlx.DB
}

var _ event.InstitutionRepository = (*institutionRepository)(nil) // interface compliance check

func NewInstitutionRepository(db *sqlx.DB) *institutionRepository {
	return &institutionRepository{db: db}
}

func (repo institutionRepository) GetInstitutionByIdentifier(ctx context.Context, identifier string) (event.Institution, error) {
	var inst event.Institution
	err := repo.db.QueryRowxContext(ctx,
		`SELECT id, name, country, identifier FROM institution WHERE identifier = $1`, identifier).
		Scan(&inst.ID, &inst.Name, &inst.Country, &inst.Identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Institution{}, event.ErrInstitutionNotFound
		}
		return event.Institution{}, errors.Wrap(err, "getting institution")
	}
	return inst, nil
}

func (repo institutionRepository) CreateInstitution(ctx context.Context, inst event.Institution) (event.Institution, error) {
	err := repo.db.GetContext(ctx, &inst.ID,
		`INSERT INTO institution (name, country, identifier) VALUES ($1, $2, $3) RETURNING id`,
		inst.Name, inst.Country, inst.Identifier)
	if err != nil {
		return event.Institution{}, errors.Wrap(err, "creating institution")
	}
	return inst, nil
}

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) *eventRepository {
	return &eventRepository{db: db}
}

type eventRow struct {
	ID                  int            `db:"id"`
	Code                string         `db:"code"`
	Title               string         `db:"title"`
	NodeID              int            `db:"node_id"`
	NodeNames           pq.StringArray `db:"node_names"`
	DateStart           time.Time      `db:"date_start"`
	DateEnd             time.Time      `db:"date_end"`
	Type                string         `db:"type"`
	Funding             pq.StringArray `db:"funding"`
	TargetAudience      pq.StringArray `db:"target_audience"`
	AdditionalPlatforms pq.StringArray `db:"additional_platforms"`
	LocationCity        string         `db:"location_city"`
	LocationCountry     string         `db:"location_country"`
	NumParticipants     int            `db:"number_participants"`
	NumTrainers         int            `db:"number_trainers"`
	CreatedByID         int            `db:"created_by_id"`
	Created             time.Time      `db:"created"`
	Modified            time.Time      `db:"modified"`
}

func (r eventRow) toDomain() event.Event {
	return event.Event{
		ID:                  r.ID,
		Code:                r.Code,
		Title:               r.Title,
		NodeID:              r.NodeID,
		NodeNames:           r.NodeNames,
		DateStart:           r.DateStart,
		DateEnd:             r.DateEnd,
		Type:                r.Type,
		Funding:             r.Funding,
		TargetAudience:      r.TargetAudience,
		AdditionalPlatforms: r.AdditionalPlatforms,
		LocationCity:        r.LocationCity,
		LocationCountry:     r.LocationCountry,
		NumParticipants:     r.NumParticipants,
		NumTrainers:         r.NumTrainers,
		CreatedByID:         r.CreatedByID,
		Created:             r.Created,
		Modified:            r.Modified,
	}
}

const eventColumns = `id, code, title, node_id, node_names, date_start, date_end, type, funding,
	target_audience, additional_platforms, location_city, location_country,
	number_participants, number_trainers, created_by_id, created, modified`

func (repo eventRepository) GetEventByCode(ctx context.Context, code string) (event.Event, error) {
	var row eventRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+eventColumns+` FROM event WHERE code = $1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, errors.Wrap(err, "getting event")
	}
	evt := row.toDomain()
	if evt.InstitutionIDs, err = repo.institutionIDs(ctx, evt.ID); err != nil {
		return event.Event{}, err
	}
	return evt, nil
}

func (repo eventRepository) institutionIDs(ctx context.Context, eventID int) ([]int, error) {
	var ids []int
	err := repo.db.SelectContext(ctx, &ids,
		`SELECT institution_id FROM event_institution WHERE event_id = $1 ORDER BY institution_id`, eventID)
	return ids, errors.Wrap(err, "querying event institutions")
}

func (repo eventRepository) QueryAllEvents(ctx context.Context) ([]event.Event, error) {
	var rows []eventRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT `+eventColumns+` FROM event ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]event.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toDomain()
		if events[i].InstitutionIDs, err = repo.institutionIDs(ctx, events[i].ID); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (repo eventRepository) CreateEvents(ctx context.Context, events []event.Event) ([]event.Event, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	created := make([]event.Event, len(events))
	for i, evt := range events {
		err = tx.GetContext(ctx, &evt.ID,
			`INSERT INTO event (code, title, node_id, node_names, date_start, date_end, type, funding,
			                    target_audience, additional_platforms, location_city, location_country,
			                    number_participants, number_trainers, created_by_id, created, modified)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			 RETURNING id`,
			evt.Code, evt.Title, evt.NodeID, pq.StringArray(evt.NodeNames), evt.DateStart, evt.DateEnd,
			evt.Type, pq.StringArray(evt.Funding), pq.StringArray(evt.TargetAudience),
			pq.StringArray(evt.AdditionalPlatforms), evt.LocationCity, evt.LocationCountry,
			evt.NumParticipants, evt.NumTrainers, evt.CreatedByID, evt.Created, evt.Modified)
		if err != nil {
			return nil, errors.Wrap(err, "creating event")
		}
		for _, instID := range evt.InstitutionIDs {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO event_institution (event_id, institution_id) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`, evt.ID, instID)
			if err != nil {
				return nil, errors.Wrap(err, "linking institution")
			}
		}
		created[i] = evt
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing events")
	}
	return created, nil
}
