package catalog

import (
	"time"

	"github.com/elixirhub/metricsdb/core"
)

// Question is one survey question. Its slug is the identity used on the wire
// and in stored payloads; deactivate instead of deleting to keep historical
// references valid.
type Question struct {
	ID            int       `json:"id"`
	Text          string    `json:"text"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	IsMultichoice bool      `json:"is_multichoice"`
	NodeID        *int      `json:"node_id"` // nil = globally shared
	IsActive      bool      `json:"is_active"`
	Answers       []Answer  `json:"answers"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// AnswerBySlug returns the active answer with the given slug.
func (q Question) AnswerBySlug(slug string) (Answer, bool) {
	for _, ans := range q.Answers {
		if ans.Slug == slug && ans.IsActive {
			return ans, true
		}
	}
	return Answer{}, false
}

// ActiveAnswers filters out deactivated answers.
func (q Question) ActiveAnswers() []Answer {
	answers := make([]Answer, 0, len(q.Answers))
	for _, ans := range q.Answers {
		if ans.IsActive {
			answers = append(answers, ans)
		}
	}
	return answers
}

// Answer is one selectable choice. Its slug is unique within its question,
// not globally.
type Answer struct {
	ID         int       `json:"id"`
	Text       string    `json:"text"`
	Slug       string    `json:"slug"`
	QuestionID int       `json:"question_id"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// QuestionSet is one survey instrument; its question collection is the dynamic
// schema consumed by the response validator.
type QuestionSet struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	NodeID    *int       `json:"node_id"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"` // UTC
	UpdatedAt time.Time  `json:"updated_at"` // UTC
}

// QuestionBySlug returns the active question with the given slug.
func (qs QuestionSet) QuestionBySlug(slug string) (Question, bool) {
	for _, q := range qs.Questions {
		if q.Slug == slug && q.IsActive {
			return q, true
		}
	}
	return Question{}, false
}

// ActiveQuestions filters out deactivated questions.
func (qs QuestionSet) ActiveQuestions() []Question {
	questions := make([]Question, 0, len(qs.Questions))
	for _, q := range qs.Questions {
		if q.IsActive {
			questions = append(questions, q)
		}
	}
	return questions
}

// QuestionSuperSet bundles related question sets for metrics/upload feature
// toggles.
type QuestionSuperSet struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	NodeID        *int          `json:"node_id"`
	UseForMetrics bool          `json:"use_for_metrics"`
	UseForUpload  bool          `json:"use_for_upload"`
	QuestionSets  []QuestionSet `json:"question_sets"`
	CreatedAt     time.Time     `json:"created_at"` // UTC
	UpdatedAt     time.Time     `json:"updated_at"` // UTC
}

// NewQuestion contains information needed to create a new Question.
type NewQuestion struct {
	Text          string `json:"text" validate:"required"`
	Slug          string `json:"slug" validate:"required,slug"`
	Description   string `json:"description"`
	IsMultichoice bool   `json:"is_multichoice"`
	NodeID        *int   `json:"node_id"`
}

func (nq *NewQuestion) Validate() error {
	nq.Text = core.CleanString(nq.Text)
	nq.Slug = core.CleanString(nq.Slug, true /* lower */)
	return core.TranslateError(core.Validate.Struct(nq))
}

// NewAnswer contains information needed to create a new Answer under a Question.
type NewAnswer struct {
	Text       string `json:"text" validate:"required"`
	Slug       string `json:"slug" validate:"required,slug"`
	QuestionID int    `json:"question_id" validate:"required"`
}

func (na *NewAnswer) Validate() error {
	na.Text = core.CleanString(na.Text)
	na.Slug = core.CleanString(na.Slug, true /* lower */)
	return core.TranslateError(core.Validate.Struct(na))
}

// NewQuestionSet contains information needed to create a new QuestionSet.
type NewQuestionSet struct {
	Name   string `json:"name" validate:"required"`
	Slug   string `json:"slug" validate:"required,slug"`
	NodeID *int   `json:"node_id"`
}

func (ns *NewQuestionSet) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Slug = core.CleanString(ns.Slug, true /* lower */)
	return core.TranslateError(core.Validate.Struct(ns))
}
