package testutil

import (
	"testing"
	"time"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/catalog"
	"github.com/elixirhub/metricsdb/core/metrics"
)

// Logger discards everything; hand it to services under test.
type Logger struct{}

var _ core.Logger = (*Logger)(nil)

func (Logger) Enable(bool)                        {}
func (Logger) Debug(string, ...interface{})       {}
func (Logger) Info(string, ...interface{})        {}
func (Logger) Warn(string, ...interface{})        {}
func (Logger) Error(string, ...interface{})       {}
func (Logger) Fatal(msg string, _ ...interface{}) { panic(msg) }

// QuestionSetFromSpec builds a question set fully covering a legacy model spec:
// one question per field ("{model}-{field}"), one answer per declared choice.
// IDs are assigned sequentially starting at 1 (the set itself).
func QuestionSetFromSpec(t *testing.T, spec metrics.ModelSpec) catalog.QuestionSet {
	t.Helper()

	now := time.Now().UTC()
	set := catalog.QuestionSet{
		ID:        1,
		Name:      spec.Model,
		Slug:      spec.Model,
		CreatedAt: now,
		UpdatedAt: now,
	}
	pk := 1
	for _, fld := range spec.Fields {
		pk++
		q := catalog.Question{
			ID:            pk,
			Text:          fld.Name,
			Slug:          spec.Model + "-" + fld.Name,
			IsMultichoice: fld.Multi,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, choice := range fld.Choices {
			pk++
			q.Answers = append(q.Answers, catalog.Answer{
				ID:         pk,
				Text:       choice,
				Slug:       core.Slugify(choice),
				QuestionID: q.ID,
				IsActive:   true,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}
		set.Questions = append(set.Questions, q)
	}
	return set
}
