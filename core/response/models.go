package response

import "time"

// ResponseSet is one respondent's full submission against one QuestionSet for
// one event. Append-mostly: never mutated after creation, only deleted in bulk
// when an event's metrics are reset.
type ResponseSet struct {
	ID            int       `json:"id"`
	EventID       int       `json:"event_id"`
	QuestionSetID int       `json:"question_set_id"`
	UserID        int       `json:"user_id"`
	Created       time.Time `json:"created"`  // UTC
	Modified      time.Time `json:"modified"` // UTC
	Responses     []Response `json:"responses"`
}

// Response is one selected answer. A multi-choice question yields one row per
// selected answer under the same response set.
type Response struct {
	ID            int `json:"id"`
	ResponseSetID int `json:"response_set_id"`
	AnswerID      int `json:"answer_id"`
}
