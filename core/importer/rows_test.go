package importer_test

import (
	"testing"
	"time"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/alias"
	"github.com/elixirhub/metricsdb/core/importer"
)

func newResolver(t *testing.T) *alias.Resolver {
	t.Helper()
	r, err := alias.NewResolver("", nil)
	if err != nil {
		t.Fatalf("alias.NewResolver() failed: %v", err)
	}
	return r
}

func validEventRow() importer.Row {
	return importer.Row{
		"code":                    "EV-2024-001",
		"title":                   "Intro to Workflows",
		"node":                    "Belgium",
		"date_start":              "2024-03-01",
		"date_end":                "2024-03-02",
		"type":                    "Training - face to face",
		"funding":                 "ELIXIR Node",
		"target_audience":         "PhD candidates, Postdoctoral researchers",
		"additional_platforms":    "",
		"location":                "Leuven, Belgium",
		"number_participants":     "25",
		"number_trainers":         "3",
		"organizing_institutions": "https://ror.org/01",
	}
}

func fieldMap(t *testing.T, err error) map[string][]string {
	t.Helper()
	vErr, ok := core.AsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return vErr.FieldMap()
}

func TestParseEventRow(t *testing.T) {
	parsed, err := importer.ParseEventRow(newResolver(t), validEventRow())
	if err != nil {
		t.Fatalf("ParseEventRow() failed: %v", err)
	}
	if parsed.New.Code != "EV-2024-001" {
		t.Errorf("Code = %q", parsed.New.Code)
	}
	if parsed.New.LocationCity != "Leuven" || parsed.New.LocationCountry != "Belgium" {
		t.Errorf("location = %q / %q, want Leuven / Belgium", parsed.New.LocationCity, parsed.New.LocationCountry)
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !parsed.New.DateStart.Equal(want) {
		t.Errorf("DateStart = %v, want %v", parsed.New.DateStart, want)
	}
	if len(parsed.New.TargetAudience) != 2 {
		t.Errorf("TargetAudience = %v, want 2 entries", parsed.New.TargetAudience)
	}
	if len(parsed.Institutions) != 1 || parsed.Institutions[0] != "https://ror.org/01" {
		t.Errorf("Institutions = %v", parsed.Institutions)
	}
}

func TestParseEventRow_fundingDefault(t *testing.T) {
	row := validEventRow()
	row["funding"] = ""
	parsed, err := importer.ParseEventRow(newResolver(t), row)
	if err != nil {
		t.Fatalf("ParseEventRow() failed: %v", err)
	}
	if len(parsed.New.Funding) != 1 || parsed.New.Funding[0] != "ELIXIR Node" {
		t.Errorf("Funding = %v, want default [ELIXIR Node]", parsed.New.Funding)
	}
}

func TestParseEventRow_fundingAliases(t *testing.T) {
	row := validEventRow()
	row["funding"] = "elixir, eu"
	parsed, err := importer.ParseEventRow(newResolver(t), row)
	if err != nil {
		t.Fatalf("ParseEventRow() failed: %v", err)
	}
	want := []string{"ELIXIR Node", "EU funds"}
	if len(parsed.New.Funding) != 2 || parsed.New.Funding[0] != want[0] || parsed.New.Funding[1] != want[1] {
		t.Errorf("Funding = %v, want %v", parsed.New.Funding, want)
	}
}

func TestParseEventRow_badDates(t *testing.T) {
	row := validEventRow()
	row["date_start"] = "01/03/2024"
	row["date_end"] = ""
	_, err := importer.ParseEventRow(newResolver(t), row)
	flds := fieldMap(t, err)
	if _, ok := flds["date_start"]; !ok {
		t.Errorf("missing date_start error: %v", flds)
	}
	if _, ok := flds["date_end"]; !ok {
		t.Errorf("missing date_end error: %v", flds)
	}
}

func TestParseEventRow_endBeforeStart(t *testing.T) {
	row := validEventRow()
	row["date_start"] = "2024-03-05"
	row["date_end"] = "2024-03-01"
	_, err := importer.ParseEventRow(newResolver(t), row)
	flds := fieldMap(t, err)
	if _, ok := flds["date_end"]; !ok {
		t.Errorf("missing date_end ordering error: %v", flds)
	}
}

func TestParseEventRow_badLocation(t *testing.T) {
	row := validEventRow()
	row["location"] = "Leuven"
	_, err := importer.ParseEventRow(newResolver(t), row)
	flds := fieldMap(t, err)
	if _, ok := flds["location"]; !ok {
		t.Errorf("missing location error: %v", flds)
	}
}

func TestParseEventRow_badCounts(t *testing.T) {
	row := validEventRow()
	row["number_participants"] = "lots"
	row["number_trainers"] = "-2"
	_, err := importer.ParseEventRow(newResolver(t), row)
	flds := fieldMap(t, err)
	if _, ok := flds["number_participants"]; !ok {
		t.Errorf("missing number_participants error: %v", flds)
	}
	if _, ok := flds["number_trainers"]; !ok {
		t.Errorf("missing number_trainers error: %v", flds)
	}
}

func TestParseQualityRow(t *testing.T) {
	row := importer.Row{
		"event":                 "EV-2024-001",
		"used_resources_before": "Never - unaware of them",
		"used_resources_future": "Yes",
		"recommend_course":      "Yes",
		"course_rating":         "Very Good - 4", // drifted, folded by alias
		"balance":               "About right",
		"email_contact":         "No",
	}
	parsed, err := importer.ParseQualityRow(newResolver(t), row)
	if err != nil {
		t.Fatalf("ParseQualityRow() failed: %v", err)
	}
	if parsed.EventCode != "EV-2024-001" {
		t.Errorf("EventCode = %q", parsed.EventCode)
	}
	if parsed.Quality.CourseRating != "Very Good" {
		t.Errorf("CourseRating = %q, want canonical Very Good", parsed.Quality.CourseRating)
	}
}

func TestParseQualityRow_blanksAllowed(t *testing.T) {
	parsed, err := importer.ParseQualityRow(newResolver(t), importer.Row{"event": "EV-1"})
	if err != nil {
		t.Fatalf("ParseQualityRow() failed: %v", err)
	}
	if parsed.Quality.CourseRating != "" {
		t.Errorf("CourseRating = %q, want blank", parsed.Quality.CourseRating)
	}
}

func TestParseQualityRow_unknownChoice(t *testing.T) {
	row := importer.Row{"event": "EV-1", "course_rating": "Mediocre"}
	_, err := importer.ParseQualityRow(newResolver(t), row)
	flds := fieldMap(t, err)
	if _, ok := flds["course_rating"]; !ok {
		t.Errorf("missing course_rating error: %v", flds)
	}
}

func TestParseQualityRow_missingEventCode(t *testing.T) {
	_, err := importer.ParseQualityRow(newResolver(t), importer.Row{})
	flds := fieldMap(t, err)
	if _, ok := flds["event"]; !ok {
		t.Errorf("missing event error: %v", flds)
	}
}

func TestParseImpactRow_multiChoiceList(t *testing.T) {
	row := importer.Row{
		"event":            "EV-1",
		"attending_led_to": "Increased productivity, useful contacts", // second entry drifted
	}
	parsed, err := importer.ParseImpactRow(newResolver(t), row)
	if err != nil {
		t.Fatalf("ParseImpactRow() failed: %v", err)
	}
	want := []string{"Increased productivity", "Useful collaboration(s)"}
	if len(parsed.Impact.AttendingLedTo) != 2 {
		t.Fatalf("AttendingLedTo = %v, want %v", parsed.Impact.AttendingLedTo, want)
	}
	for i := range want {
		if parsed.Impact.AttendingLedTo[i] != want[i] {
			t.Errorf("AttendingLedTo[%d] = %q, want %q", i, parsed.Impact.AttendingLedTo[i], want[i])
		}
	}
}

func TestParseDemographicRow(t *testing.T) {
	row := importer.Row{
		"event":              "EV-1",
		"heard_from":         "TeSS, Colleague",
		"employment_sector":  "academia", // drifted
		"employment_country": "UK",       // drifted
		"gender":             "Female",
		"career_stage":       "PhD candidate",
	}
	parsed, err := importer.ParseDemographicRow(newResolver(t), row)
	if err != nil {
		t.Fatalf("ParseDemographicRow() failed: %v", err)
	}
	if parsed.Demog.EmploymentSector != "Academia/ Research Institution" {
		t.Errorf("EmploymentSector = %q", parsed.Demog.EmploymentSector)
	}
	if parsed.Demog.EmploymentCountry != "United Kingdom" {
		t.Errorf("EmploymentCountry = %q", parsed.Demog.EmploymentCountry)
	}
	if len(parsed.Demog.HeardFrom) != 2 {
		t.Errorf("HeardFrom = %v, want 2 entries", parsed.Demog.HeardFrom)
	}
}
