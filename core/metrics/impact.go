package metrics

import "time"

// Impact is the legacy fixed-column impact feedback record.
type Impact struct {
	ID                   int       `json:"id"`
	EventID              int       `json:"event_id"`
	UserID               int       `json:"user_id"`
	WhenAttendTraining   string    `json:"when_attend_training"`
	MainAttendReason     string    `json:"main_attend_reason"`
	HowOftenUseBefore    string    `json:"how_often_use_before"`
	HowOftenUseAfter     string    `json:"how_often_use_after"`
	AbleToExplain        string    `json:"able_to_explain"`
	AbleUseNow           string    `json:"able_use_now"`
	HelpWork             []string  `json:"help_work"`
	AttendingLedTo       []string  `json:"attending_led_to"`
	PeopleShareKnowledge string    `json:"people_share_knowledge"`
	RecommendOthers      string    `json:"recommend_others"`
	Created              time.Time `json:"created"` // UTC
}

func (Impact) Model() string        { return ModelImpact }
func (i Impact) RecordEventID() int { return i.EventID }
func (i Impact) RecordUserID() int  { return i.UserID }

func (i Impact) Fields() []FieldValue {
	return []FieldValue{
		{Name: "when_attend_training", Values: []string{i.WhenAttendTraining}},
		{Name: "main_attend_reason", Values: []string{i.MainAttendReason}},
		{Name: "how_often_use_before", Values: []string{i.HowOftenUseBefore}},
		{Name: "how_often_use_after", Values: []string{i.HowOftenUseAfter}},
		{Name: "able_to_explain", Values: []string{i.AbleToExplain}},
		{Name: "able_use_now", Values: []string{i.AbleUseNow}},
		{Name: "help_work", Values: i.HelpWork, Multi: true},
		{Name: "attending_led_to", Values: i.AttendingLedTo, Multi: true},
		{Name: "people_share_knowledge", Values: []string{i.PeopleShareKnowledge}},
		{Name: "recommend_others", Values: []string{i.RecommendOthers}},
	}
}

func ImpactSpec() ModelSpec {
	return ModelSpec{
		Model: ModelImpact,
		Fields: []FieldSpec{
			{Name: "when_attend_training", Choices: WhenAttendChoices},
			{Name: "main_attend_reason", Choices: AttendReasonChoices},
			{Name: "how_often_use_before", Choices: UsageFrequencyChoices},
			{Name: "how_often_use_after", Choices: UsageFrequencyChoices},
			{Name: "able_to_explain", Choices: YesNoMaybeChoices},
			{Name: "able_use_now", Choices: AbleUseNowChoices},
			{Name: "help_work", Choices: HelpWorkChoices, Multi: true},
			{Name: "attending_led_to", Choices: AttendingLedToChoices, Multi: true},
			{Name: "people_share_knowledge", Choices: PeopleShareKnowledgeChoices},
			{Name: "recommend_others", Choices: YesNoMaybeChoices},
		},
	}
}
