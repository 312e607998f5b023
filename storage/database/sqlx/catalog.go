package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/elixirhub/metricsdb/core/catalog"
)

type catalogRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *sqlx.DB) *catalogRepository {
	return &catalogRepository{db: db}
}

type questionRow struct {
	ID            int       `db:"id"`
	Text          string    `db:"text"`
	Slug          string    `db:"slug"`
	Description   string    `db:"description"`
	IsMultichoice bool      `db:"is_multichoice"`
	NodeID        null.Int  `db:"node_id"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r questionRow) toDomain() catalog.Question {
	return catalog.Question{
		ID:            r.ID,
		Text:          r.Text,
		Slug:          r.Slug,
		Description:   r.Description,
		IsMultichoice: r.IsMultichoice,
		NodeID:        r.NodeID.Ptr(),
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type answerRow struct {
	ID         int       `db:"id"`
	Text       string    `db:"text"`
	Slug       string    `db:"slug"`
	QuestionID int       `db:"question_id"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r answerRow) toDomain() catalog.Answer {
	return catalog.Answer(r)
}

type questionSetRow struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	NodeID    null.Int  `db:"node_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r questionSetRow) toDomain() catalog.QuestionSet {
	return catalog.QuestionSet{
		ID:        r.ID,
		Name:      r.Name,
		Slug:      r.Slug,
		NodeID:    r.NodeID.Ptr(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (repo catalogRepository) GetQuestionSetBySlug(ctx context.Context, slug string) (catalog.QuestionSet, error) {
	var row questionSetRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, name, slug, node_id, created_at, updated_at FROM question_set WHERE slug = $1`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.QuestionSet{}, catalog.ErrNotFound
		}
		return catalog.QuestionSet{}, errors.Wrap(err, "getting question set")
	}
	return repo.loadSet(ctx, row)
}

func (repo catalogRepository) getSetByID(ctx context.Context, id int) (catalog.QuestionSet, error) {
	var row questionSetRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, name, slug, node_id, created_at, updated_at FROM question_set WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.QuestionSet{}, catalog.ErrNotFound
		}
		return catalog.QuestionSet{}, errors.Wrap(err, "getting question set")
	}
	return repo.loadSet(ctx, row)
}

// loadSet attaches the set's questions and their answers.
func (repo catalogRepository) loadSet(ctx context.Context, row questionSetRow) (catalog.QuestionSet, error) {
	set := row.toDomain()

	var qRows []questionRow
	err := repo.db.SelectContext(ctx, &qRows,
		`SELECT q.id, q.text, q.slug, q.description, q.is_multichoice, q.node_id, q.is_active, q.created_at, q.updated_at
		 FROM question q
		 JOIN question_set_question sq ON sq.question_id = q.id
		 WHERE sq.question_set_id = $1
		 ORDER BY q.id`, set.ID)
	if err != nil {
		return catalog.QuestionSet{}, errors.Wrap(err, "querying questions")
	}
	if len(qRows) == 0 {
		return set, nil
	}

	ids := make([]int, len(qRows))
	byID := make(map[int]*catalog.Question, len(qRows))
	set.Questions = make([]catalog.Question, len(qRows))
	for i, qr := range qRows {
		ids[i] = qr.ID
		set.Questions[i] = qr.toDomain()
		byID[qr.ID] = &set.Questions[i]
	}

	query, args, err := sqlx.In(
		`SELECT id, text, slug, question_id, is_active, created_at, updated_at
		 FROM answer WHERE question_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return catalog.QuestionSet{}, errors.Wrap(err, "building answers query")
	}
	var aRows []answerRow
	if err = repo.db.SelectContext(ctx, &aRows, repo.db.Rebind(query), args...); err != nil {
		return catalog.QuestionSet{}, errors.Wrap(err, "querying answers")
	}
	for _, ar := range aRows {
		q := byID[ar.QuestionID]
		q.Answers = append(q.Answers, ar.toDomain())
	}
	return set, nil
}

func (repo catalogRepository) QueryQuestionSets(ctx context.Context) ([]catalog.QuestionSet, error) {
	var rows []questionSetRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, name, slug, node_id, created_at, updated_at FROM question_set ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying question sets")
	}
	sets := make([]catalog.QuestionSet, 0, len(rows))
	for _, row := range rows {
		set, err := repo.loadSet(ctx, row)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func (repo catalogRepository) CreateQuestionSet(ctx context.Context, set catalog.QuestionSet) (catalog.QuestionSet, error) {
	err := repo.db.GetContext(ctx, &set.ID,
		`INSERT INTO question_set (name, slug, node_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		set.Name, set.Slug, null.IntFromPtr(set.NodeID), set.CreatedAt, set.UpdatedAt)
	if err != nil {
		return catalog.QuestionSet{}, errors.Wrap(err, "creating question set")
	}
	return set, nil
}

func (repo catalogRepository) AddQuestionToSet(ctx context.Context, setID, questionID int) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO question_set_question (question_set_id, question_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, setID, questionID)
	return errors.Wrap(err, "adding question to set")
}

func (repo catalogRepository) GetSuperSetBySlug(ctx context.Context, slug string) (catalog.QuestionSuperSet, error) {
	var row superSetRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, name, slug, node_id, use_for_metrics, use_for_upload, created_at, updated_at
		 FROM question_super_set WHERE slug = $1`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.QuestionSuperSet{}, catalog.ErrNotFound
		}
		return catalog.QuestionSuperSet{}, errors.Wrap(err, "getting super set")
	}
	return repo.loadSuperSet(ctx, row)
}

type superSetRow struct {
	ID            int       `db:"id"`
	Name          string    `db:"name"`
	Slug          string    `db:"slug"`
	NodeID        null.Int  `db:"node_id"`
	UseForMetrics bool      `db:"use_for_metrics"`
	UseForUpload  bool      `db:"use_for_upload"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (repo catalogRepository) loadSuperSet(ctx context.Context, row superSetRow) (catalog.QuestionSuperSet, error) {
	sset := catalog.QuestionSuperSet{
		ID:            row.ID,
		Name:          row.Name,
		Slug:          row.Slug,
		NodeID:        row.NodeID.Ptr(),
		UseForMetrics: row.UseForMetrics,
		UseForUpload:  row.UseForUpload,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}

	var setIDs []int
	err := repo.db.SelectContext(ctx, &setIDs,
		`SELECT question_set_id FROM question_super_set_set WHERE question_super_set_id = $1 ORDER BY question_set_id`,
		sset.ID)
	if err != nil {
		return catalog.QuestionSuperSet{}, errors.Wrap(err, "querying super set members")
	}
	for _, id := range setIDs {
		set, err := repo.getSetByID(ctx, id)
		if err != nil {
			return catalog.QuestionSuperSet{}, err
		}
		sset.QuestionSets = append(sset.QuestionSets, set)
	}
	return sset, nil
}

func (repo catalogRepository) QuerySuperSets(ctx context.Context, useForMetrics, useForUpload *bool) ([]catalog.QuestionSuperSet, error) {
	query := `SELECT id, name, slug, node_id, use_for_metrics, use_for_upload, created_at, updated_at
	          FROM question_super_set WHERE TRUE`
	var args []interface{}
	if useForMetrics != nil {
		args = append(args, *useForMetrics)
		query += " AND use_for_metrics = $1"
	}
	if useForUpload != nil {
		args = append(args, *useForUpload)
		if len(args) == 1 {
			query += " AND use_for_upload = $1"
		} else {
			query += " AND use_for_upload = $2"
		}
	}
	query += " ORDER BY id"

	var rows []superSetRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying super sets")
	}
	ssets := make([]catalog.QuestionSuperSet, 0, len(rows))
	for _, row := range rows {
		sset, err := repo.loadSuperSet(ctx, row)
		if err != nil {
			return nil, err
		}
		ssets = append(ssets, sset)
	}
	return ssets, nil
}

func (repo catalogRepository) CreateQuestion(ctx context.Context, q catalog.Question) (catalog.Question, error) {
	err := repo.db.GetContext(ctx, &q.ID,
		`INSERT INTO question (text, slug, description, is_multichoice, node_id, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		q.Text, q.Slug, q.Description, q.IsMultichoice, null.IntFromPtr(q.NodeID), q.IsActive, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return catalog.Question{}, errors.Wrap(err, "creating question")
	}
	return q, nil
}

func (repo catalogRepository) UpdateQuestion(ctx context.Context, q catalog.Question) (catalog.Question, error) {
	_, err := repo.db.ExecContext(ctx,
		`UPDATE question SET text = $1, description = $2, is_multichoice = $3, is_active = $4, updated_at = $5
		 WHERE id = $6`,
		q.Text, q.Description, q.IsMultichoice, q.IsActive, q.UpdatedAt, q.ID)
	if err != nil {
		return catalog.Question{}, errors.Wrap(err, "updating question")
	}
	return q, nil
}

func (repo catalogRepository) CreateAnswer(ctx context.Context, a catalog.Answer) (catalog.Answer, error) {
	err := repo.db.GetContext(ctx, &a.ID,
		`INSERT INTO answer (text, slug, question_id, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		a.Text, a.Slug, a.QuestionID, a.IsActive, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return catalog.Answer{}, errors.Wrap(err, "creating answer")
	}
	return a, nil
}

func (repo catalogRepository) UpdateAnswer(ctx context.Context, a catalog.Answer) (catalog.Answer, error) {
	_, err := repo.db.ExecContext(ctx,
		`UPDATE answer SET text = $1, is_active = $2, updated_at = $3 WHERE id = $4`,
		a.Text, a.IsActive, a.UpdatedAt, a.ID)
	if err != nil {
		return catalog.Answer{}, errors.Wrap(err, "updating answer")
	}
	return a, nil
}
