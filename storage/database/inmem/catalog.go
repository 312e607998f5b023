package inmemdb

import (
	"context"
	"sort"

	"github.com/elixirhub/metricsdb/core/catalog"
)

type catalogRepository struct {
	db *DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

// buildSet assembles the stored set with its current questions and answers.
// Callers must hold at least the read lock.
func (repo *catalogRepository) buildSet(set catalog.QuestionSet) catalog.QuestionSet {
	set.Questions = nil
	for _, qid := range repo.db.setQuestions[set.ID] {
		q, ok := repo.db.questions[qid]
		if !ok {
			continue
		}
		question := *q
		question.Answers = nil
		for _, ans := range repo.answersOf(qid) {
			question.Answers = append(question.Answers, ans)
		}
		set.Questions = append(set.Questions, question)
	}
	return set
}

func (repo *catalogRepository) answersOf(questionID int) []catalog.Answer {
	answers := make([]catalog.Answer, 0)
	for _, ans := range repo.db.answers {
		if ans.QuestionID == questionID {
			answers = append(answers, *ans)
		}
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].ID < answers[j].ID })
	return answers
}

func (repo *catalogRepository) buildSuperSet(sset catalog.QuestionSuperSet) catalog.QuestionSuperSet {
	sset.QuestionSets = nil
	for _, setID := range repo.db.superSetSets[sset.ID] {
		if set, ok := repo.db.sets[setID]; ok {
			sset.QuestionSets = append(sset.QuestionSets, repo.buildSet(*set))
		}
	}
	return sset
}

func (repo *catalogRepository) GetQuestionSetBySlug(_ context.Context, slug string) (catalog.QuestionSet, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, set := range repo.db.sets {
		if set.Slug == slug {
			return repo.buildSet(*set), nil
		}
	}
	return catalog.QuestionSet{}, catalog.ErrNotFound
}

func (repo *catalogRepository) QueryQuestionSets(_ context.Context) ([]catalog.QuestionSet, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sets := make([]catalog.QuestionSet, 0, len(repo.db.sets))
	for _, set := range repo.db.sets {
		sets = append(sets, repo.buildSet(*set))
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].ID < sets[j].ID })
	return sets, nil
}

func (repo *catalogRepository) CreateQuestionSet(_ context.Context, set catalog.QuestionSet) (catalog.QuestionSet, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.sets {
		if existing.Slug == set.Slug {
			return catalog.QuestionSet{}, catalog.ErrSlugExists
		}
	}
	set.ID = repo.db.nextPK()
	stored := set
	stored.Questions = nil
	repo.db.sets[set.ID] = &stored
	return set, nil
}

func (repo *catalogRepository) AddQuestionToSet(_ context.Context, setID, questionID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.sets[setID]; !ok {
		return catalog.ErrNotFound
	}
	if _, ok := repo.db.questions[questionID]; !ok {
		return catalog.ErrNotFound
	}
	for _, qid := range repo.db.setQuestions[setID] {
		if qid == questionID {
			return nil
		}
	}
	repo.db.setQuestions[setID] = append(repo.db.setQuestions[setID], questionID)
	return nil
}

func (repo *catalogRepository) GetSuperSetBySlug(_ context.Context, slug string) (catalog.QuestionSuperSet, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, sset := range repo.db.superSets {
		if sset.Slug == slug {
			return repo.buildSuperSet(*sset), nil
		}
	}
	return catalog.QuestionSuperSet{}, catalog.ErrNotFound
}

func (repo *catalogRepository) QuerySuperSets(_ context.Context, useForMetrics, useForUpload *bool) ([]catalog.QuestionSuperSet, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ssets := make([]catalog.QuestionSuperSet, 0, len(repo.db.superSets))
	for _, sset := range repo.db.superSets {
		if useForMetrics != nil && sset.UseForMetrics != *useForMetrics {
			continue
		}
		if useForUpload != nil && sset.UseForUpload != *useForUpload {
			continue
		}
		ssets = append(ssets, repo.buildSuperSet(*sset))
	}
	sort.Slice(ssets, func(i, j int) bool { return ssets[i].ID < ssets[j].ID })
	return ssets, nil
}

func (repo *catalogRepository) CreateQuestion(_ context.Context, q catalog.Question) (catalog.Question, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.questions {
		if existing.Slug == q.Slug {
			return catalog.Question{}, catalog.ErrSlugExists
		}
	}
	q.ID = repo.db.nextPK()
	stored := q
	stored.Answers = nil
	repo.db.questions[q.ID] = &stored
	return q, nil
}

func (repo *catalogRepository) UpdateQuestion(_ context.Context, q catalog.Question) (catalog.Question, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.questions[q.ID]
	if !ok {
		return catalog.Question{}, catalog.ErrNotFound
	}
	orig.Text = q.Text
	orig.Description = q.Description
	orig.IsMultichoice = q.IsMultichoice
	orig.IsActive = q.IsActive
	orig.UpdatedAt = q.UpdatedAt
	return *orig, nil
}

func (repo *catalogRepository) CreateAnswer(_ context.Context, a catalog.Answer) (catalog.Answer, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.questions[a.QuestionID]; !ok {
		return catalog.Answer{}, catalog.ErrNotFound
	}
	for _, existing := range repo.db.answers {
		if existing.QuestionID == a.QuestionID && existing.Slug == a.Slug {
			return catalog.Answer{}, catalog.ErrSlugExists
		}
	}
	a.ID = repo.db.nextPK()
	stored := a
	repo.db.answers[a.ID] = &stored
	return a, nil
}

func (repo *catalogRepository) UpdateAnswer(_ context.Context, a catalog.Answer) (catalog.Answer, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.answers[a.ID]
	if !ok {
		return catalog.Answer{}, catalog.ErrNotFound
	}
	orig.Text = a.Text
	orig.IsActive = a.IsActive
	orig.UpdatedAt = a.UpdatedAt
	return *orig, nil
}
