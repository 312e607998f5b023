package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/elixirhub/metricsdb/core"
)

var (
	// errors
	ErrNotFound    = errors.New("catalog entry not found")
	ErrSlugExists  = errors.New("an entry with this slug already exists")
	ErrAnswerInUse = errors.New("answer is referenced by responses and can only be deactivated")
)

type (
	Repository interface {
		GetQuestionSetBySlug(ctx context.Context, slug string) (QuestionSet, error)
		QueryQuestionSets(ctx context.Context) ([]QuestionSet, error)
		CreateQuestionSet(ctx context.Context, set QuestionSet) (QuestionSet, error)
		AddQuestionToSet(ctx context.Context, setID, questionID int) error

		GetSuperSetBySlug(ctx context.Context, slug string) (QuestionSuperSet, error)
		// QuerySuperSets applies AND on the non-nil feature toggles.
		QuerySuperSets(ctx context.Context, useForMetrics, useForUpload *bool) ([]QuestionSuperSet, error)

		CreateQuestion(ctx context.Context, q Question) (Question, error)
		UpdateQuestion(ctx context.Context, q Question) (Question, error)
		CreateAnswer(ctx context.Context, a Answer) (Answer, error)
		UpdateAnswer(ctx context.Context, a Answer) (Answer, error)
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (svc *Service) GetSetBySlug(ctx context.Context, slug string) (QuestionSet, error) {
	return svc.repo.GetQuestionSetBySlug(ctx, core.CleanString(slug, true /* lower */))
}

func (svc *Service) QuerySets(ctx context.Context) ([]QuestionSet, error) {
	return svc.repo.QueryQuestionSets(ctx)
}

func (svc *Service) GetSuperSetBySlug(ctx context.Context, slug string) (QuestionSuperSet, error) {
	return svc.repo.GetSuperSetBySlug(ctx, core.CleanString(slug, true /* lower */))
}

// MetricsSuperSets returns the super sets enabled for metrics reporting.
func (svc *Service) MetricsSuperSets(ctx context.Context) ([]QuestionSuperSet, error) {
	yes := true
	return svc.repo.QuerySuperSets(ctx, &yes, nil)
}

// UploadSuperSets returns the super sets enabled for bulk upload.
func (svc *Service) UploadSuperSets(ctx context.Context) ([]QuestionSuperSet, error) {
	yes := true
	return svc.repo.QuerySuperSets(ctx, nil, &yes)
}

func (svc *Service) CreateSet(ctx context.Context, ns NewQuestionSet) (QuestionSet, error) {
	if err := ns.Validate(); err != nil {
		return QuestionSet{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateQuestionSet(ctx, QuestionSet{
		Name:      ns.Name,
		Slug:      ns.Slug,
		NodeID:    ns.NodeID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) CreateQuestion(ctx context.Context, nq NewQuestion) (Question, error) {
	if err := nq.Validate(); err != nil {
		return Question{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateQuestion(ctx, Question{
		Text:          nq.Text,
		Slug:          nq.Slug,
		Description:   nq.Description,
		IsMultichoice: nq.IsMultichoice,
		NodeID:        nq.NodeID,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (svc *Service) CreateAnswer(ctx context.Context, na NewAnswer) (Answer, error) {
	if err := na.Validate(); err != nil {
		return Answer{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateAnswer(ctx, Answer{
		Text:       na.Text,
		Slug:       na.Slug,
		QuestionID: na.QuestionID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// DeactivateAnswer soft-disables an answer; referenced answers are never deleted.
func (svc *Service) DeactivateAnswer(ctx context.Context, ans Answer) (Answer, error) {
	ans.IsActive = false
	ans.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAnswer(ctx, ans)
}
