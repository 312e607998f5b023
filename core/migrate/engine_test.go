package migrate_test

import (
	"context"
	"testing"

	"github.com/elixirhub/metricsdb/core/alias"
	"github.com/elixirhub/metricsdb/core/metrics"
	"github.com/elixirhub/metricsdb/core/migrate"
	"github.com/elixirhub/metricsdb/core/response"
	inmemdb "github.com/elixirhub/metricsdb/storage/database/inmem"
	testutil "github.com/elixirhub/metricsdb/tests"
)

func newEngine(t *testing.T) (*migrate.Engine, response.Repository) {
	t.Helper()
	repo := inmemdb.NewResponseRepository(inmemdb.NewDB())
	aliases, err := alias.NewResolver("", nil)
	if err != nil {
		t.Fatalf("alias.NewResolver() failed: %v", err)
	}
	return migrate.NewEngine(repo, aliases, testutil.Logger{}), repo
}

func qualityRecord(eventID, userID int) metrics.Quality {
	return metrics.Quality{
		EventID:             eventID,
		UserID:              userID,
		UsedResourcesBefore: "Never - unaware of them",
		UsedResourcesFuture: "Yes",
		RecommendCourse:     "Yes",
		CourseRating:        "Very Good",
		Balance:             "About right",
		EmailContact:        "No",
	}
}

func TestEngine_Migrate_quality(t *testing.T) {
	engine, repo := newEngine(t)
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())

	records := []metrics.Record{
		qualityRecord(10, 1),
		qualityRecord(10, 2),
		metrics.Quality{EventID: 10, UserID: 3}, // all fields blank
	}
	res, err := engine.Migrate(context.Background(), set, metrics.QualitySpec(), records)
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if res.ResponseSets != 2 {
		t.Errorf("ResponseSets = %d, want 2", res.ResponseSets)
	}
	if res.Responses != 12 { // 6 single-choice answers per record
		t.Errorf("Responses = %d, want 12", res.Responses)
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}

	stored, err := repo.QueryResponseSetsBySet(context.Background(), set.ID)
	if err != nil {
		t.Fatalf("QueryResponseSetsBySet() failed: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d response sets, want 2", len(stored))
	}
	for _, rs := range stored {
		if rs.EventID != 10 {
			t.Errorf("stored set event = %d, want 10", rs.EventID)
		}
		if len(rs.Responses) != 6 {
			t.Errorf("stored set holds %d responses, want 6", len(rs.Responses))
		}
	}
}

func TestEngine_Migrate_driftedSpellingViaAlias(t *testing.T) {
	engine, _ := newEngine(t)
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())

	rec := qualityRecord(7, 1)
	rec.CourseRating = "Very Good - 4" // historical export spelling
	res, err := engine.Migrate(context.Background(), set, metrics.QualitySpec(), []metrics.Record{rec})
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if res.ResponseSets != 1 {
		t.Errorf("ResponseSets = %d, want 1", res.ResponseSets)
	}
}

func TestEngine_Migrate_partiallyAnsweredRecord(t *testing.T) {
	engine, repo := newEngine(t)
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())

	rec := metrics.Quality{EventID: 10, UserID: 1, CourseRating: "Good", Balance: "About right"}
	res, err := engine.Migrate(context.Background(), set, metrics.QualitySpec(), []metrics.Record{rec})
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if res.ResponseSets != 1 || res.Responses != 2 {
		t.Errorf("Result = %+v, want 1 set with 2 responses", res)
	}
	if res.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", res.Skipped)
	}

	stored, err := repo.QueryResponseSetsBySet(context.Background(), set.ID)
	if err != nil {
		t.Fatalf("QueryResponseSetsBySet() failed: %v", err)
	}
	if len(stored) != 1 || len(stored[0].Responses) != 2 {
		t.Fatalf("stored = %+v, want 1 set with 2 responses", stored)
	}
}

func TestEngine_Migrate_truncatedHelpWorkViaAlias(t *testing.T) {
	engine, _ := newEngine(t)
	set := testutil.QuestionSetFromSpec(t, metrics.ImpactSpec())

	rec := metrics.Impact{
		EventID: 7, UserID: 1,
		// truncated spelling seen in early exports
		HelpWork: []string{"It improved communication with the bioinformatician/ statistician"},
	}
	res, err := engine.Migrate(context.Background(), set, metrics.ImpactSpec(), []metrics.Record{rec})
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if res.ResponseSets != 1 || res.Responses != 1 {
		t.Errorf("Result = %+v, want 1 set with 1 response", res)
	}
}

func TestEngine_Migrate_invalidRecordAbortsRun(t *testing.T) {
	engine, repo := newEngine(t)
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())

	bad := qualityRecord(10, 2)
	bad.CourseRating = "Out of this world"
	records := []metrics.Record{qualityRecord(10, 1), bad}

	if _, err := engine.Migrate(context.Background(), set, metrics.QualitySpec(), records); err == nil {
		t.Fatal("Migrate() expected error, got nil")
	}
	stored, err := repo.QueryResponseSetsBySet(context.Background(), set.ID)
	if err != nil {
		t.Fatalf("QueryResponseSetsBySet() failed: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("aborted run persisted %d response sets, want 0", len(stored))
	}
}

func TestEngine_Migrate_incompatibleSetFailsPreflight(t *testing.T) {
	engine, repo := newEngine(t)
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())
	set.Questions = set.Questions[1:] // drop the first declared field

	_, err := engine.Migrate(context.Background(), set, metrics.QualitySpec(), []metrics.Record{qualityRecord(1, 1)})
	if err == nil {
		t.Fatal("Migrate() expected compatibility error, got nil")
	}
	if _, ok := err.(*migrate.CompatibilityError); !ok {
		t.Errorf("Migrate() error = %T, want *CompatibilityError", err)
	}
	stored, _ := repo.QueryResponseSetsBySet(context.Background(), set.ID)
	if len(stored) != 0 {
		t.Errorf("failed pre-flight persisted %d response sets, want 0", len(stored))
	}
}

func TestBuildPayload(t *testing.T) {
	rec := metrics.Impact{
		EventID:            1,
		UserID:             2,
		WhenAttendTraining: "Less than 6 months ago",
		HelpWork:           []string{"Other", ""},
	}
	payload := migrate.BuildPayload(rec)

	if got, ok := payload["impact-when_attend_training"].(string); !ok || got != "less-than-6-months-ago" {
		t.Errorf("single-choice field = %v, want slugified string", payload["impact-when_attend_training"])
	}
	multi, ok := payload["impact-help_work"].([]string)
	if !ok || len(multi) != 1 || multi[0] != "other" {
		t.Errorf("multi-choice field = %v, want [other]", payload["impact-help_work"])
	}
	if _, present := payload["impact-main_attend_reason"]; present {
		t.Error("blank field should be dropped from the payload")
	}
}
