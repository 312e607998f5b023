package catalog

import (
	"context"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/elixirhub/metricsdb/core"
)

// SyncDocument mirrors the external catalog feed:
// {"values": [{"id": ..., "label": ..., "options": [{"id": ..., "label": ...}]}]}
type (
	SyncDocument struct {
		Values []SyncValue `json:"values"`
	}

	SyncValue struct {
		ID      string       `json:"id"`
		Label   string       `json:"label"`
		Options []SyncOption `json:"options"`
	}

	SyncOption struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
)

type SyncResult struct {
	QuestionsCreated     int
	QuestionsUpdated     int
	QuestionsDeactivated int
	AnswersCreated       int
	AnswersUpdated       int
	AnswersDeactivated   int
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseSyncDocument decodes an external catalog feed.
func ParseSyncDocument(r io.Reader) (SyncDocument, error) {
	var doc SyncDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return SyncDocument{}, errors.Wrap(err, "decoding sync document")
	}
	return doc, nil
}

// SyncQuestionSet reconciles the questions and answers of the set identified by
// setSlug against the external document. Question slugs are derived as
// "{set}-{value id}"; answer slugs from the option id. Entries missing from the
// document are deactivated, never deleted.
//
// Catalog mutations must not run concurrently with a metrics migration; the
// admin CLI runs them as separate, exclusive commands.
func (svc *Service) SyncQuestionSet(ctx context.Context, setSlug string, doc SyncDocument) (SyncResult, error) {
	var res SyncResult

	set, err := svc.repo.GetQuestionSetBySlug(ctx, core.CleanString(setSlug, true /* lower */))
	if err != nil {
		return res, err
	}

	now := time.Now().UTC()
	seenQuestions := make(map[string]bool, len(doc.Values))

	for _, val := range doc.Values {
		qSlug := set.Slug + "-" + core.Slugify(val.ID)
		seenQuestions[qSlug] = true

		q, found := lo.Find(set.Questions, func(q Question) bool { return q.Slug == qSlug })
		if !found {
			nq := NewQuestion{Text: val.Label, Slug: qSlug, NodeID: set.NodeID}
			if err = nq.Validate(); err != nil {
				return res, errors.Wrapf(err, "sync value %q", val.ID)
			}
			q, err = svc.repo.CreateQuestion(ctx, Question{
				Text:      nq.Text,
				Slug:      nq.Slug,
				NodeID:    nq.NodeID,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return res, errors.Wrapf(err, "creating question %q", qSlug)
			}
			if err = svc.repo.AddQuestionToSet(ctx, set.ID, q.ID); err != nil {
				return res, errors.Wrapf(err, "adding question %q to set %q", qSlug, set.Slug)
			}
			res.QuestionsCreated++
		} else if q.Text != val.Label || !q.IsActive {
			q.Text = val.Label
			q.IsActive = true
			q.UpdatedAt = now
			// keep the local copy: the repository returns the bare question
			// row without its answers, which syncAnswers still needs
			if _, err = svc.repo.UpdateQuestion(ctx, q); err != nil {
				return res, errors.Wrapf(err, "updating question %q", qSlug)
			}
			res.QuestionsUpdated++
		}

		if err = svc.syncAnswers(ctx, &q, val.Options, now, &res); err != nil {
			return res, err
		}
	}

	// deactivate questions dropped from the feed
	for _, q := range set.Questions {
		if !seenQuestions[q.Slug] && q.IsActive {
			q.IsActive = false
			q.UpdatedAt = now
			if _, err = svc.repo.UpdateQuestion(ctx, q); err != nil {
				return res, errors.Wrapf(err, "deactivating question %q", q.Slug)
			}
			res.QuestionsDeactivated++
		}
	}
	return res, nil
}

func (svc *Service) syncAnswers(ctx context.Context, q *Question, opts []SyncOption, now time.Time, res *SyncResult) error {
	seen := make(map[string]bool, len(opts))

	for _, opt := range opts {
		aSlug := core.Slugify(opt.ID)
		seen[aSlug] = true

		ans, found := lo.Find(q.Answers, func(a Answer) bool { return a.Slug == aSlug })
		if !found {
			created, err := svc.repo.CreateAnswer(ctx, Answer{
				Text:       opt.Label,
				Slug:       aSlug,
				QuestionID: q.ID,
				IsActive:   true,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
			if err != nil {
				return errors.Wrapf(err, "creating answer %q of question %q", aSlug, q.Slug)
			}
			q.Answers = append(q.Answers, created)
			res.AnswersCreated++
		} else if ans.Text != opt.Label || !ans.IsActive {
			ans.Text = opt.Label
			ans.IsActive = true
			ans.UpdatedAt = now
			if _, err := svc.repo.UpdateAnswer(ctx, ans); err != nil {
				return errors.Wrapf(err, "updating answer %q of question %q", aSlug, q.Slug)
			}
			res.AnswersUpdated++
		}
	}

	for _, ans := range q.Answers {
		if !seen[ans.Slug] && ans.IsActive {
			ans.IsActive = false
			ans.UpdatedAt = now
			if _, err := svc.repo.UpdateAnswer(ctx, ans); err != nil {
				return errors.Wrapf(err, "deactivating answer %q of question %q", ans.Slug, q.Slug)
			}
			res.AnswersDeactivated++
		}
	}
	return nil
}
