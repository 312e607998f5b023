package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/elixirhub/metricsdb/core/metrics"
)

type metricsRepository struct {
	db *sqlx.DB
}

var _ metrics.Repository = (*metricsRepository)(nil) // interface compliance check

func NewMetricsRepository(db *sqlx.DB) *metricsRepository {
	return &metricsRepository{db: db}
}

func (repo metricsRepository) CreateQuality(ctx context.Context, records []metrics.Quality) ([]metrics.Quality, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	created := make([]metrics.Quality, len(records))
	for i, rec := range records {
		err = tx.GetContext(ctx, &rec.ID,
			`INSERT INTO quality_metrics (event_id, user_id, used_resources_before, used_resources_future,
			                              recommend_course, course_rating, balance, email_contact, created)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
			rec.EventID, rec.UserID, rec.UsedResourcesBefore, rec.UsedResourcesFuture,
			rec.RecommendCourse, rec.CourseRating, rec.Balance, rec.EmailContact, rec.Created)
		if err != nil {
			return nil, errors.Wrap(err, "creating quality record")
		}
		created[i] = rec
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing quality records")
	}
	return created, nil
}

func (repo metricsRepository) CreateImpact(ctx context.Context, records []metrics.Impact) ([]metrics.Impact, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	created := make([]metrics.Impact, len(records))
	for i, rec := range records {
		err = tx.GetContext(ctx, &rec.ID,
			`INSERT INTO impact_metrics (event_id, user_id, when_attend_training, main_attend_reason,
			                             how_often_use_before, how_often_use_after, able_to_explain,
			                             able_use_now, help_work, attending_led_to, people_share_knowledge,
			                             recommend_others, created)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`,
			rec.EventID, rec.UserID, rec.WhenAttendTraining, rec.MainAttendReason,
			rec.HowOftenUseBefore, rec.HowOftenUseAfter, rec.AbleToExplain, rec.AbleUseNow,
			pq.StringArray(rec.HelpWork), pq.StringArray(rec.AttendingLedTo),
			rec.PeopleShareKnowledge, rec.RecommendOthers, rec.Created)
		if err != nil {
			return nil, errors.Wrap(err, "creating impact record")
		}
		created[i] = rec
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing impact records")
	}
	return created, nil
}

func (repo metricsRepository) CreateDemographic(ctx context.Context, records []metrics.Demographic) ([]metrics.Demographic, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	created := make([]metrics.Demographic, len(records))
	for i, rec := range records {
		err = tx.GetContext(ctx, &rec.ID,
			`INSERT INTO demographic_metrics (event_id, user_id, heard_from, employment_sector,
			                                  employment_country, gender, career_stage, created)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			rec.EventID, rec.UserID, pq.StringArray(rec.HeardFrom), rec.EmploymentSector,
			rec.EmploymentCountry, rec.Gender, rec.CareerStage, rec.Created)
		if err != nil {
			return nil, errors.Wrap(err, "creating demographic record")
		}
		created[i] = rec
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing demographic records")
	}
	return created, nil
}

type qualityRow struct {
	ID                  int       `db:"id"`
	EventID             int       `db:"event_id"`
	UserID              int       `db:"user_id"`
	UsedResourcesBefore string    `db:"used_resources_before"`
	UsedResourcesFuture string    `db:"used_resources_future"`
	RecommendCourse     string    `db:"recommend_course"`
	CourseRating        string    `db:"course_rating"`
	Balance             string    `db:"balance"`
	EmailContact        string    `db:"email_contact"`
	Created             time.Time `db:"created"`
}

func (repo metricsRepository) QueryQuality(ctx context.Context, eventID *int) ([]metrics.Quality, error) {
	query := `SELECT id, event_id, user_id, used_resources_before, used_resources_future,
	                 recommend_course, course_rating, balance, email_contact, created
	          FROM quality_metrics`
	var rows []qualityRow
	if err := repo.selectRecords(ctx, &rows, query, eventID); err != nil {
		return nil, errors.Wrap(err, "querying quality records")
	}
	records := make([]metrics.Quality, len(rows))
	for i, row := range rows {
		records[i] = metrics.Quality(row)
	}
	return records, nil
}

type impactRow struct {
	ID                   int            `db:"id"`
	EventID              int            `db:"event_id"`
	UserID               int            `db:"user_id"`
	WhenAttendTraining   string         `db:"when_attend_training"`
	MainAttendReason     string         `db:"main_attend_reason"`
	HowOftenUseBefore    string         `db:"how_often_use_before"`
	HowOftenUseAfter     string         `db:"how_often_use_after"`
	AbleToExplain        string         `db:"able_to_explain"`
	AbleUseNow           string         `db:"able_use_now"`
	HelpWork             pq.StringArray `db:"help_work"`
	AttendingLedTo       pq.StringArray `db:"attending_led_to"`
	PeopleShareKnowledge string         `db:"people_share_knowledge"`
	RecommendOthers      string         `db:"recommend_others"`
	Created              time.Time      `db:"created"`
}

func (repo metricsRepository) QueryImpact(ctx context.Context, eventID *int) ([]metrics.Impact, error) {
	query := `SELECT id, event_id, user_id, when_attend_training, main_attend_reason,
	                 how_often_use_before, how_often_use_after, able_to_explain, able_use_now,
	                 help_work, attending_led_to, people_share_knowledge, recommend_others, created
	          FROM impact_metrics`
	var rows []impactRow
	if err := repo.selectRecords(ctx, &rows, query, eventID); err != nil {
		return nil, errors.Wrap(err, "querying impact records")
	}
	records := make([]metrics.Impact, len(rows))
	for i, row := range rows {
		records[i] = metrics.Impact{
			ID:                   row.ID,
			EventID:              row.EventID,
			UserID:               row.UserID,
			WhenAttendTraining:   row.WhenAttendTraining,
			MainAttendReason:     row.MainAttendReason,
			HowOftenUseBefore:    row.HowOftenUseBefore,
			HowOftenUseAfter:     row.HowOftenUseAfter,
			AbleToExplain:        row.AbleToExplain,
			AbleUseNow:           row.AbleUseNow,
			HelpWork:             row.HelpWork,
			AttendingLedTo:       row.AttendingLedTo,
			PeopleShareKnowledge: row.PeopleShareKnowledge,
			RecommendOthers:      row.RecommendOthers,
			Created:              row.Created,
		}
	}
	return records, nil
}

type demographicRow struct {
	ID                int            `db:"id"`
	EventID           int            `db:"event_id"`
	UserID            int            `db:"user_id"`
	HeardFrom         pq.StringArray `db:"heard_from"`
	EmploymentSector  string         `db:"employment_sector"`
	EmploymentCountry string         `db:"employment_country"`
	Gender            string         `db:"gender"`
	CareerStage       string         `db:"career_stage"`
	Created           time.Time      `db:"created"`
}

func (repo metricsRepository) QueryDemographic(ctx context.Context, eventID *int) ([]metrics.Demographic, error) {
	query := `SELECT id, event_id, user_id, heard_from, employment_sector, employment_country,
	                 gender, career_stage, created
	          FROM demographic_metrics`
	var rows []demographicRow
	if err := repo.selectRecords(ctx, &rows, query, eventID); err != nil {
		return nil, errors.Wrap(err, "querying demographic records")
	}
	records := make([]metrics.Demographic, len(rows))
	for i, row := range rows {
		records[i] = metrics.Demographic{
			ID:                row.ID,
			EventID:           row.EventID,
			UserID:            row.UserID,
			HeardFrom:         row.HeardFrom,
			EmploymentSector:  row.EmploymentSector,
			EmploymentCountry: row.EmploymentCountry,
			Gender:            row.Gender,
			CareerStage:       row.CareerStage,
			Created:           row.Created,
		}
	}
	return records, nil
}

func (repo metricsRepository) selectRecords(ctx context.Context, dest interface{}, query string, eventID *int) error {
	if eventID != nil {
		return repo.db.SelectContext(ctx, dest, query+" WHERE event_id = $1 ORDER BY id", *eventID)
	}
	return repo.db.SelectContext(ctx, dest, query+" ORDER BY id")
}
