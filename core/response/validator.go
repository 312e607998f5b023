package response

import (
	"errors"
	"fmt"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/alias"
	"github.com/elixirhub/metricsdb/core/catalog"
)

var (
	ErrInvalidSubmission = errors.New("submission is invalid")

	incompleteText = "all responses need to be submitted simultaneously"
)

// Payload maps question slugs to submitted values. A value is a string or a
// list of strings; multi-choice questions additionally accept comma-separated
// strings.
type Payload map[string]interface{}

// Validator validates payloads against the current questions and answers of
// one QuestionSet. Build it fresh per submission so schema changes are picked
// up; the instance itself is cheap.
type Validator struct {
	set     catalog.QuestionSet
	aliases *alias.Resolver
}

// BuildValidator derives a validator from the set's current questions and
// answers. aliases may be nil, in which case only slug normalization applies.
func BuildValidator(set catalog.QuestionSet, aliases *alias.Resolver) *Validator {
	return &Validator{set: set, aliases: aliases}
}

// Validate normalizes and checks payload. On success it returns the selected
// answers per question slug. A payload answering no questions at all is valid
// and yields an empty result; a payload answering some but not all questions
// fails with one error per missing question. No partial results are returned.
func (v *Validator) Validate(payload Payload) (map[string][]catalog.Answer, error) {
	return v.validate(payload, true)
}

// ValidateAnswered checks only the questions the payload answers; unanswered
// active questions are not an error. Historical records routinely leave
// questions blank, so the migration engine submits through this mode. Unknown
// keys and unmatched answers still fail.
func (v *Validator) ValidateAnswered(payload Payload) (map[string][]catalog.Answer, error) {
	return v.validate(payload, false)
}

func (v *Validator) validate(payload Payload, requireComplete bool) (map[string][]catalog.Answer, error) {
	var flds []core.FieldError

	answered := make(map[string][]string, len(payload))
	for key, raw := range payload {
		q, ok := v.set.QuestionBySlug(key)
		if !ok {
			flds = append(flds, core.FieldError{Field: key, Error: "does not match a question in this set"})
			continue
		}
		if vals := coerceValues(raw, q.IsMultichoice); len(vals) > 0 {
			answered[q.Slug] = vals
		}
	}

	if len(answered) == 0 {
		if len(flds) > 0 {
			return nil, core.NewValidationError(ErrInvalidSubmission, flds...)
		}
		return map[string][]catalog.Answer{}, nil
	}

	result := make(map[string][]catalog.Answer, len(answered))
	for _, q := range v.set.ActiveQuestions() {
		vals, ok := answered[q.Slug]
		if !ok {
			if requireComplete {
				flds = append(flds, core.FieldError{Field: q.Slug, Error: incompleteText})
			}
			continue
		}
		if !q.IsMultichoice && len(vals) > 1 {
			flds = append(flds, core.FieldError{Field: q.Slug, Error: "this question accepts a single answer"})
			continue
		}

		selected := make([]catalog.Answer, 0, len(vals))
		seen := make(map[string]bool, len(vals))
		for _, val := range vals {
			ans, ok := v.resolveAnswer(q, val)
			if !ok {
				flds = append(flds, core.FieldError{
					Field: q.Slug,
					Error: fmt.Sprintf("%q does not match any answer of this question", val),
				})
				continue
			}
			if !seen[ans.Slug] {
				seen[ans.Slug] = true
				selected = append(selected, ans)
			}
		}
		result[q.Slug] = selected
	}

	if len(flds) > 0 {
		return nil, core.NewValidationError(ErrInvalidSubmission, flds...)
	}
	return result, nil
}

// resolveAnswer normalizes one submitted value down to an answer of q:
// slugified first, then mapped through the alias table to absorb historical
// spelling drift the slugifier cannot fold.
func (v *Validator) resolveAnswer(q catalog.Question, val string) (catalog.Answer, bool) {
	slugged := core.Slugify(val)
	if ans, ok := q.AnswerBySlug(slugged); ok {
		return ans, true
	}
	if v.aliases != nil {
		resolved := core.Slugify(v.aliases.Resolve(q.Slug, slugged))
		if ans, ok := q.AnswerBySlug(resolved); ok {
			return ans, true
		}
	}
	return catalog.Answer{}, false
}

// coerceValues folds the accepted payload value shapes into a list of
// non-empty strings. Multi-choice values are split on commas element-wise, so
// ["a","b"] and "a,b" are equivalent.
func coerceValues(raw interface{}, multi bool) []string {
	var vals []string
	switch v := raw.(type) {
	case string:
		vals = []string{v}
	case []string:
		vals = v
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				vals = append(vals, s)
			}
		}
	default:
		return nil
	}

	out := make([]string, 0, len(vals))
	for _, val := range vals {
		if multi {
			out = append(out, core.SplitList(val)...)
		} else if val = core.CleanString(val); val != "" {
			out = append(out, val)
		}
	}
	return out
}
