package metrics

import "time"

// Demographic is the legacy fixed-column demographic feedback record.
type Demographic struct {
	ID                int       `json:"id"`
	EventID           int       `json:"event_id"`
	UserID            int       `json:"user_id"`
	HeardFrom         []string  `json:"heard_from"`
	EmploymentSector  string    `json:"employment_sector"`
	EmploymentCountry string    `json:"employment_country"`
	Gender            string    `json:"gender"`
	CareerStage       string    `json:"career_stage"`
	Created           time.Time `json:"created"` // UTC
}

func (Demographic) Model() string        { return ModelDemographic }
func (d Demographic) RecordEventID() int { return d.EventID }
func (d Demographic) RecordUserID() int  { return d.UserID }

func (d Demographic) Fields() []FieldValue {
	return []FieldValue{
		{Name: "heard_from", Values: d.HeardFrom, Multi: true},
		{Name: "employment_sector", Values: []string{d.EmploymentSector}},
		{Name: "employment_country", Values: []string{d.EmploymentCountry}},
		{Name: "gender", Values: []string{d.Gender}},
		{Name: "career_stage", Values: []string{d.CareerStage}},
	}
}

func DemographicSpec() ModelSpec {
	return ModelSpec{
		Model: ModelDemographic,
		Fields: []FieldSpec{
			{Name: "heard_from", Choices: HeardFromChoices, Multi: true},
			{Name: "employment_sector", Choices: EmploymentSectorChoices},
			{Name: "employment_country", Choices: EmploymentCountryChoices},
			{Name: "gender", Choices: GenderChoices},
			{Name: "career_stage", Choices: CareerStageChoices},
		},
	}
}
