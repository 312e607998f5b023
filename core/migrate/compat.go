package migrate

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/catalog"
	"github.com/elixirhub/metricsdb/core/metrics"
)

// MissingAnswer identifies one declared choice without a matching answer.
type MissingAnswer struct {
	QuestionSlug string
	Choice       string
}

// CompatibilityError is the exhaustive pre-flight report: every model field
// without a question and every declared choice without an answer, not just the
// first gap found.
type CompatibilityError struct {
	Model            string
	MissingQuestions []string
	MissingAnswers   []MissingAnswer
}

func (e *CompatibilityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "question set cannot represent model %q", e.Model)
	for _, slug := range e.MissingQuestions {
		fmt.Fprintf(&b, "\n  missing question: %s", slug)
	}
	for _, ma := range e.MissingAnswers {
		fmt.Fprintf(&b, "\n  missing answer: %s: %q", ma.QuestionSlug, ma.Choice)
	}
	return b.String()
}

// CheckCompatibility verifies that set can represent every field and every
// declared choice of the legacy model before any record is migrated. Question
// slugs follow "{model}-{field}"; choices are matched after slugification.
func CheckCompatibility(set catalog.QuestionSet, spec metrics.ModelSpec) error {
	cErr := &CompatibilityError{Model: spec.Model}

	for _, fld := range spec.Fields {
		qSlug := spec.Model + "-" + fld.Name
		q, ok := set.QuestionBySlug(qSlug)
		if !ok {
			cErr.MissingQuestions = append(cErr.MissingQuestions, qSlug)
			continue
		}

		answerSlugs := lo.Map(q.ActiveAnswers(), func(a catalog.Answer, _ int) string { return a.Slug })
		for _, choice := range fld.Choices {
			if !lo.Contains(answerSlugs, core.Slugify(choice)) {
				cErr.MissingAnswers = append(cErr.MissingAnswers, MissingAnswer{QuestionSlug: qSlug, Choice: choice})
			}
		}
	}

	if len(cErr.MissingQuestions) > 0 || len(cErr.MissingAnswers) > 0 {
		return cErr
	}
	return nil
}
