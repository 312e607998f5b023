package metrics

import "time"

// Quality is the legacy fixed-column quality feedback record.
type Quality struct {
	ID                  int       `json:"id"`
	EventID             int       `json:"event_id"`
	UserID              int       `json:"user_id"`
	UsedResourcesBefore string    `json:"used_resources_before"`
	UsedResourcesFuture string    `json:"used_resources_future"`
	RecommendCourse     string    `json:"recommend_course"`
	CourseRating        string    `json:"course_rating"`
	Balance             string    `json:"balance"`
	EmailContact        string    `json:"email_contact"`
	Created             time.Time `json:"created"` // UTC
}

func (Quality) Model() string        { return ModelQuality }
func (q Quality) RecordEventID() int { return q.EventID }
func (q Quality) RecordUserID() int  { return q.UserID }

func (q Quality) Fields() []FieldValue {
	return []FieldValue{
		{Name: "used_resources_before", Values: []string{q.UsedResourcesBefore}},
		{Name: "used_resources_future", Values: []string{q.UsedResourcesFuture}},
		{Name: "recommend_course", Values: []string{q.RecommendCourse}},
		{Name: "course_rating", Values: []string{q.CourseRating}},
		{Name: "balance", Values: []string{q.Balance}},
		{Name: "email_contact", Values: []string{q.EmailContact}},
	}
}

func QualitySpec() ModelSpec {
	return ModelSpec{
		Model: ModelQuality,
		Fields: []FieldSpec{
			{Name: "used_resources_before", Choices: UsedResourcesBeforeChoices},
			{Name: "used_resources_future", Choices: YesNoMaybeChoices},
			{Name: "recommend_course", Choices: YesNoMaybeChoices},
			{Name: "course_rating", Choices: CourseRatingChoices},
			{Name: "balance", Choices: BalanceChoices},
			{Name: "email_contact", Choices: YesNoChoices},
		},
	}
}
