package event

import (
	"time"

	"github.com/elixirhub/metricsdb/core"
)

// Node is one network node (country-level organisation) owning events and users.
type Node struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User is an uploader/organizer account; only the fields the import pipeline
// needs to resolve identity and ownership.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	NodeID   int    `json:"node_id"`
}

// Institution is an organisation hosting or co-organizing events, keyed by its
// external directory identifier.
type Institution struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Country    string `json:"country"`
	Identifier string `json:"identifier"`
}

// Event is one training event; metrics submissions reference it by code.
type Event struct {
	ID                  int       `json:"id"`
	Code                string    `json:"code"` // unique
	Title               string    `json:"title"`
	NodeID              int       `json:"node_id"`
	NodeNames           []string  `json:"node_names"`
	DateStart           time.Time `json:"date_start"`
	DateEnd             time.Time `json:"date_end"`
	Type                string    `json:"type"`
	Funding             []string  `json:"funding"`
	TargetAudience      []string  `json:"target_audience"`
	AdditionalPlatforms []string  `json:"additional_platforms"`
	LocationCity        string    `json:"location_city"`
	LocationCountry     string    `json:"location_country"`
	NumParticipants     int       `json:"number_participants"`
	NumTrainers         int       `json:"number_trainers"`
	InstitutionIDs      []int     `json:"institution_ids"`
	CreatedByID         int       `json:"created_by_id"`
	Created             time.Time `json:"created"`  // UTC
	Modified            time.Time `json:"modified"` // UTC
}

// NewEvent contains the validated information needed to create an Event.
type NewEvent struct {
	Code                string    `json:"code" validate:"required"`
	Title               string    `json:"title" validate:"required"`
	NodeNames           []string  `json:"node_names" validate:"required,min=1"`
	DateStart           time.Time `json:"date_start" validate:"required"`
	DateEnd             time.Time `json:"date_end" validate:"required"`
	Type                string    `json:"type" validate:"required"`
	Funding             []string  `json:"funding" validate:"required,min=1"`
	TargetAudience      []string  `json:"target_audience"`
	AdditionalPlatforms []string  `json:"additional_platforms"`
	LocationCity        string    `json:"location_city"`
	LocationCountry     string    `json:"location_country"`
	NumParticipants     int       `json:"number_participants" validate:"min=0"`
	NumTrainers         int       `json:"number_trainers" validate:"min=0"`
}

func (ne *NewEvent) Validate() error {
	ne.Code = core.CleanString(ne.Code)
	ne.Title = core.CleanString(ne.Title)
	if err := core.TranslateError(core.Validate.Struct(ne)); err != nil {
		return err
	}
	if ne.DateEnd.Before(ne.DateStart) {
		return core.NewValidationError(ErrInvalidDates, core.FieldError{
			Field: "date_end", Error: "end date cannot precede start date",
		})
	}
	return nil
}
