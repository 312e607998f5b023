package response_test

import (
	"testing"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/alias"
	"github.com/elixirhub/metricsdb/core/metrics"
	"github.com/elixirhub/metricsdb/core/response"
	testutil "github.com/elixirhub/metricsdb/tests"
)

func newResolver(t *testing.T) *alias.Resolver {
	t.Helper()
	r, err := alias.NewResolver("", nil)
	if err != nil {
		t.Fatalf("alias.NewResolver() failed: %v", err)
	}
	return r
}

func fullQualityPayload() response.Payload {
	return response.Payload{
		"quality-used_resources_before": "never-unaware-of-them",
		"quality-used_resources_future": "yes",
		"quality-recommend_course":      "yes",
		"quality-course_rating":         "very-good",
		"quality-balance":               "about-right",
		"quality-email_contact":         "no",
	}
}

func TestValidator_Validate_fullSubmission(t *testing.T) {
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())
	v := response.BuildValidator(set, newResolver(t))

	selected, err := v.Validate(fullQualityPayload())
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if len(selected) != 6 {
		t.Fatalf("Validate() selected %d questions, want 6", len(selected))
	}
	if got := selected["quality-course_rating"]; len(got) != 1 || got[0].Slug != "very-good" {
		t.Errorf("course_rating selection = %+v, want single very-good", got)
	}
}

func TestValidator_Validate_emptyPayload(t *testing.T) {
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())
	v := response.BuildValidator(set, newResolver(t))

	selected, err := v.Validate(response.Payload{})
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if len(selected) != 0 {
		t.Errorf("Validate() = %+v, want empty result", selected)
	}
}

func TestValidator_Validate_allOrNothing(t *testing.T) {
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())
	v := response.BuildValidator(set, newResolver(t))

	_, err := v.Validate(response.Payload{"quality-course_rating": "good"})
	if err == nil {
		t.Fatal("Validate() expected error for partial submission, got nil")
	}
	vErr, ok := core.AsValidationError(err)
	if !ok {
		t.Fatalf("Validate() error = %v, want ValidationError", err)
	}
	// one error per unanswered question
	if len(vErr.Fields) != 5 {
		t.Fatalf("Validate() reported %d field errors, want 5: %+v", len(vErr.Fields), vErr.Fields)
	}
	for _, fld := range vErr.Fields {
		if fld.Error != "all responses need to be submitted simultaneously" {
			t.Errorf("field %s: error = %q", fld.Field, fld.Error)
		}
	}
}

func TestValidator_ValidateAnswered_partialPayload(t *testing.T) {
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())
	v := response.BuildValidator(set, newResolver(t))

	selected, err := v.ValidateAnswered(response.Payload{"quality-course_rating": "good"})
	if err != nil {
		t.Fatalf("ValidateAnswered() failed: %v", err)
	}
	if len(selected) != 1 {
		t.Fatalf("ValidateAnswered() selected %d questions, want 1", len(selected))
	}
	if got := selected["quality-course_rating"]; len(got) != 1 || got[0].Slug != "good" {
		t.Errorf("course_rating selection = %+v, want good", got)
	}
}

func TestValidator_ValidateAnswered_stillRejectsUnmatchedAnswers(t *testing.T) {
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())
	v := response.BuildValidator(set, newResolver(t))

	_, err := v.ValidateAnswered(response.Payload{"quality-course_rating": "out of this world"})
	vErr, ok := core.AsValidationError(err)
	if !ok {
		t.Fatalf("ValidateAnswered() error = %v, want ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "quality-course_rating" {
		t.Errorf("ValidateAnswered() fields = %+v, want single course_rating error", vErr.Fields)
	}
}

func TestValidator_Validate_unknownKey(t *testing.T) {
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())
	v := response.BuildValidator(set, newResolver(t))

	_, err := v.Validate(response.Payload{"quality-bogus": "yes"})
	vErr, ok := core.AsValidationError(err)
	if !ok {
		t.Fatalf("Validate() error = %v, want ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "quality-bogus" {
		t.Errorf("Validate() fields = %+v, want single quality-bogus error", vErr.Fields)
	}
}

func TestValidator_Validate_singleChoiceRejectsMultiple(t *testing.T) {
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())
	v := response.BuildValidator(set, newResolver(t))

	payload := fullQualityPayload()
	payload["quality-course_rating"] = []string{"good", "poor"}
	_, err := v.Validate(payload)
	vErr, ok := core.AsValidationError(err)
	if !ok {
		t.Fatalf("Validate() error = %v, want ValidationError", err)
	}
	found := false
	for _, fld := range vErr.Fields {
		if fld.Field == "quality-course_rating" && fld.Error == "this question accepts a single answer" {
			found = true
		}
	}
	if !found {
		t.Errorf("Validate() fields = %+v, want single-answer error on course_rating", vErr.Fields)
	}
}

func TestValidator_Validate_freeTextSlugified(t *testing.T) {
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())
	v := response.BuildValidator(set, newResolver(t))

	payload := fullQualityPayload()
	payload["quality-course_rating"] = "Very Good" // display text, not slug
	selected, err := v.Validate(payload)
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if got := selected["quality-course_rating"]; len(got) != 1 || got[0].Slug != "very-good" {
		t.Errorf("course_rating selection = %+v, want very-good", got)
	}
}

func TestValidator_Validate_aliasAbsorbsDrift(t *testing.T) {
	set := testutil.QuestionSetFromSpec(t, metrics.QualitySpec())
	v := response.BuildValidator(set, newResolver(t))

	payload := fullQualityPayload()
	payload["quality-course_rating"] = "Very Good - 4" // historical spelling
	selected, err := v.Validate(payload)
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if got := selected["quality-course_rating"]; len(got) != 1 || got[0].Slug != "very-good" {
		t.Errorf("course_rating selection = %+v, want very-good via alias", got)
	}
}

func fullImpactPayload() response.Payload {
	return response.Payload{
		"impact-when_attend_training":   "less-than-6-months-ago",
		"impact-main_attend_reason":     "other",
		"impact-how_often_use_before":   "occasionally",
		"impact-how_often_use_after":    "frequently",
		"impact-able_to_explain":        "yes",
		"impact-able_use_now":           "independently",
		"impact-help_work":              []string{"other"},
		"impact-attending_led_to":       []string{"increased-productivity"},
		"impact-people_share_knowledge": "1-to-5",
		"impact-recommend_others":       "yes",
	}
}

func TestValidator_Validate_listAndCSVEquivalent(t *testing.T) {
	set := testutil.QuestionSetFromSpec(t, metrics.ImpactSpec())
	v := response.BuildValidator(set, newResolver(t))

	asList := fullImpactPayload()
	asList["impact-attending_led_to"] = []string{"increased-productivity", "new-collaboration-s"}
	asCSV := fullImpactPayload()
	asCSV["impact-attending_led_to"] = "increased-productivity,new-collaboration-s"

	selList, err := v.Validate(asList)
	if err != nil {
		t.Fatalf("Validate(list) failed: %v", err)
	}
	selCSV, err := v.Validate(asCSV)
	if err != nil {
		t.Fatalf("Validate(csv) failed: %v", err)
	}

	gotList := selList["impact-attending_led_to"]
	gotCSV := selCSV["impact-attending_led_to"]
	if len(gotList) != 2 || len(gotCSV) != 2 {
		t.Fatalf("selections differ: list=%d csv=%d, want 2 each", len(gotList), len(gotCSV))
	}
	for i := range gotList {
		if gotList[i].Slug != gotCSV[i].Slug {
			t.Errorf("selection %d differs: list=%q csv=%q", i, gotList[i].Slug, gotCSV[i].Slug)
		}
	}
}

func TestValidator_Validate_duplicatesFold(t *testing.T) {
	set := testutil.QuestionSetFromSpec(t, metrics.ImpactSpec())
	v := response.BuildValidator(set, newResolver(t))

	payload := fullImpactPayload()
	payload["impact-attending_led_to"] = []string{"other", "other"}
	selected, err := v.Validate(payload)
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if got := selected["impact-attending_led_to"]; len(got) != 1 {
		t.Errorf("duplicate selections not folded: %+v", got)
	}
}
