package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/elixirhub/metricsdb/core/response"
)

type responseRepository struct {
	db *sqlx.DB
}

type responseSetRow struct {
	ID            int       `db:"id"`
	EventID       int       `db:"event_id"`
	QuestionSetID int       `db:"question_set_id"`
	UserID        int       `db:"user_id"`
	Created       time.Time `db:"created"`
	Modified      time.Time `db:"modified"`
}

type responseRow struct {
	ID            int `db:"id"`
	ResponseSetID int `db:"response_set_id"`
	AnswerID      int `db:"answer_id"`
}

var _ response.Repository = (*responseRepository)(nil) // interface compliance check

func NewResponseRepository(db *sqlx.DB) *responseRepository {
	return &responseRepository{db: db}
}

func (repo responseRepository) CreateResponseSets(ctx context.Context, sets []response.ResponseSet) ([]response.ResponseSet, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	created := make([]response.ResponseSet, len(sets))
	for i, set := range sets {
		err = tx.GetContext(ctx, &set.ID,
			`INSERT INTO response_set (event_id, question_set_id, user_id, created, modified)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			set.EventID, set.QuestionSetID, set.UserID, set.Created, set.Modified)
		if err != nil {
			return nil, errors.Wrap(err, "creating response set")
		}
		for j := range set.Responses {
			set.Responses[j].ResponseSetID = set.ID
			err = tx.GetContext(ctx, &set.Responses[j].ID,
				`INSERT INTO response (response_set_id, answer_id) VALUES ($1, $2) RETURNING id`,
				set.ID, set.Responses[j].AnswerID)
			if err != nil {
				return nil, errors.Wrap(err, "creating response")
			}
		}
		created[i] = set
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing response sets")
	}
	return created, nil
}

func (repo responseRepository) QueryResponseSetsByEvent(ctx context.Context, eventID int) ([]response.ResponseSet, error) {
	return repo.querySets(ctx,
		`SELECT id, event_id, question_set_id, user_id, created, modified
		 FROM response_set WHERE event_id = $1 ORDER BY id`, eventID)
}

func (repo responseRepository) QueryResponseSetsBySet(ctx context.Context, questionSetID int) ([]response.ResponseSet, error) {
	return repo.querySets(ctx,
		`SELECT id, event_id, question_set_id, user_id, created, modified
		 FROM response_set WHERE question_set_id = $1 ORDER BY id`, questionSetID)
}

func (repo responseRepository) querySets(ctx context.Context, query string, args ...interface{}) ([]response.ResponseSet, error) {
	var rows []responseSetRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying response sets")
	}
	sets := make([]response.ResponseSet, len(rows))
	if len(rows) == 0 {
		return sets, nil
	}

	ids := make([]int, len(rows))
	byID := make(map[int]*response.ResponseSet, len(rows))
	for i, row := range rows {
		sets[i] = response.ResponseSet{
			ID:            row.ID,
			EventID:       row.EventID,
			QuestionSetID: row.QuestionSetID,
			UserID:        row.UserID,
			Created:       row.Created,
			Modified:      row.Modified,
		}
		ids[i] = row.ID
		byID[row.ID] = &sets[i]
	}

	query, inArgs, err := sqlx.In(
		`SELECT id, response_set_id, answer_id FROM response WHERE response_set_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building responses query")
	}
	var resps []responseRow
	if err = repo.db.SelectContext(ctx, &resps, repo.db.Rebind(query), inArgs...); err != nil {
		return nil, errors.Wrap(err, "querying responses")
	}
	for _, resp := range resps {
		set := byID[resp.ResponseSetID]
		set.Responses = append(set.Responses, response.Response(resp))
	}
	return sets, nil
}

func (repo responseRepository) CountResponseSets(ctx context.Context, questionSetID, eventID int) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count,
		`SELECT count(*) FROM response_set WHERE question_set_id = $1 AND event_id = $2`,
		questionSetID, eventID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, errors.Wrap(err, "counting response sets")
	}
	return count, nil
}

func (repo responseRepository) DeleteResponseSetsByEvent(ctx context.Context, eventID int, questionSetID *int) error {
	var err error
	if questionSetID != nil {
		_, err = repo.db.ExecContext(ctx,
			`DELETE FROM response_set WHERE event_id = $1 AND question_set_id = $2`, eventID, *questionSetID)
	} else {
		_, err = repo.db.ExecContext(ctx, `DELETE FROM response_set WHERE event_id = $1`, eventID)
	}
	return errors.Wrap(err, "deleting response sets")
}
