package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elixirhub/metricsdb/core"
	"github.com/elixirhub/metricsdb/core/alias"
	"github.com/elixirhub/metricsdb/core/event"
	"github.com/elixirhub/metricsdb/core/metrics"
)

var ErrInvalidRow = errors.New("row is invalid")

// Row is one inbound CSV row: column name to raw value. Blank fields are
// empty strings, never omitted.
type Row map[string]string

// Get returns the trimmed value of a column.
func (r Row) Get(col string) string { return core.CleanString(r[col]) }

const dateLayout = "2006-01-02"

// DefaultFunding is assumed when an event row leaves the funding column blank.
var DefaultFunding = []string{"ELIXIR Node"}

// rowParser reads columns through the alias resolver and accumulates field
// errors so one pass reports every problem of the row.
type rowParser struct {
	row     Row
	aliases *alias.Resolver
	flds    []core.FieldError
}

func (p *rowParser) fail(col, msg string) {
	p.flds = append(p.flds, core.FieldError{Field: col, Error: msg})
}

func (p *rowParser) str(col string) string {
	return p.aliases.Resolve(col, p.row.Get(col))
}

// list splits a comma-separated column and alias-resolves element-wise;
// a blank column falls back to the given default.
func (p *rowParser) list(col string, defaults ...string) []string {
	vals := core.SplitList(p.row[col])
	if len(vals) == 0 {
		return defaults
	}
	return p.aliases.ResolveList(col, vals)
}

func (p *rowParser) date(col string) time.Time {
	raw := p.row.Get(col)
	if raw == "" {
		p.fail(col, "this field is required")
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		p.fail(col, fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", raw))
		return time.Time{}
	}
	return t
}

func (p *rowParser) count(col string) int {
	raw := p.row.Get(col)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		p.fail(col, fmt.Sprintf("invalid count %q", raw))
		return 0
	}
	return n
}

// choice reads a single-choice column and checks membership in the canonical
// list (compared after slugification). Blank is allowed: respondents skip
// questions.
func (p *rowParser) choice(col string, choices []string) string {
	val := p.str(col)
	if val == "" {
		return ""
	}
	if canonical, ok := matchChoice(val, choices); ok {
		return canonical
	}
	p.fail(col, fmt.Sprintf("%q is not a known value", val))
	return ""
}

// choiceList reads a multi-choice column element-wise.
func (p *rowParser) choiceList(col string, choices []string) []string {
	vals := p.list(col)
	out := make([]string, 0, len(vals))
	for _, val := range vals {
		canonical, ok := matchChoice(val, choices)
		if !ok {
			p.fail(col, fmt.Sprintf("%q is not a known value", val))
			continue
		}
		out = append(out, canonical)
	}
	return out
}

func (p *rowParser) err() error {
	if len(p.flds) > 0 {
		return core.NewValidationError(ErrInvalidRow, p.flds...)
	}
	return nil
}

func matchChoice(val string, choices []string) (string, bool) {
	slugged := core.Slugify(val)
	for _, c := range choices {
		if core.Slugify(c) == slugged {
			return c, true
		}
	}
	return "", false
}

// ParsedEvent is an event row after parsing: the validated entity input plus
// the external institution identifiers still to be resolved.
type ParsedEvent struct {
	New          event.NewEvent
	Institutions []string
}

// ParseEventRow converts one event row into a validated NewEvent. Every column
// passes through the alias resolver; blank funding defaults to DefaultFunding;
// the location column holds "City, Country".
func ParseEventRow(aliases *alias.Resolver, row Row) (ParsedEvent, error) {
	p := &rowParser{row: row, aliases: aliases}

	ne := event.NewEvent{
		Code:                row.Get("code"),
		Title:               row.Get("title"),
		NodeNames:           p.list("node"),
		DateStart:           p.date("date_start"),
		DateEnd:             p.date("date_end"),
		Type:                p.str("type"),
		Funding:             p.list("funding", DefaultFunding...),
		TargetAudience:      p.list("target_audience"),
		AdditionalPlatforms: p.list("additional_platforms"),
		NumParticipants:     p.count("number_participants"),
		NumTrainers:         p.count("number_trainers"),
	}
	ne.LocationCity, ne.LocationCountry = p.location("location")

	parsed := ParsedEvent{New: ne, Institutions: core.SplitList(row["organizing_institutions"])}
	if err := p.err(); err != nil {
		return parsed, err
	}
	// whole-row validation last, so business-rule violations on structurally
	// valid rows still fail clearly
	if err := parsed.New.Validate(); err != nil {
		return parsed, err
	}
	return parsed, nil
}

// location splits "City, Country" on the last comma.
func (p *rowParser) location(col string) (city, country string) {
	raw := p.row.Get(col)
	if raw == "" {
		return "", ""
	}
	idx := strings.LastIndex(raw, ",")
	if idx <= 0 || idx == len(raw)-1 {
		p.fail(col, fmt.Sprintf("unparseable location %q: expected \"City, Country\"", raw))
		return "", ""
	}
	return core.CleanString(raw[:idx]), p.aliases.Resolve("location_country", raw[idx+1:])
}

// ParsedMetrics is a metrics row after parsing: the record plus the event code
// it references (resolved by the pipeline).
type ParsedMetrics struct {
	EventCode string
	Quality   *metrics.Quality
	Impact    *metrics.Impact
	Demog     *metrics.Demographic
}

func parseEventCode(p *rowParser) string {
	code := p.row.Get("event")
	if code == "" {
		p.fail("event", "this field is required")
	}
	return code
}

// ParseQualityRow converts one quality feedback row.
func ParseQualityRow(aliases *alias.Resolver, row Row) (ParsedMetrics, error) {
	p := &rowParser{row: row, aliases: aliases}
	parsed := ParsedMetrics{
		EventCode: parseEventCode(p),
		Quality: &metrics.Quality{
			UsedResourcesBefore: p.choice("used_resources_before", metrics.UsedResourcesBeforeChoices),
			UsedResourcesFuture: p.choice("used_resources_future", metrics.YesNoMaybeChoices),
			RecommendCourse:     p.choice("recommend_course", metrics.YesNoMaybeChoices),
			CourseRating:        p.choice("course_rating", metrics.CourseRatingChoices),
			Balance:             p.choice("balance", metrics.BalanceChoices),
			EmailContact:        p.choice("email_contact", metrics.YesNoChoices),
		},
	}
	return parsed, p.err()
}

// ParseImpactRow converts one impact feedback row.
func ParseImpactRow(aliases *alias.Resolver, row Row) (ParsedMetrics, error) {
	p := &rowParser{row: row, aliases: aliases}
	parsed := ParsedMetrics{
		EventCode: parseEventCode(p),
		Impact: &metrics.Impact{
			WhenAttendTraining:   p.choice("when_attend_training", metrics.WhenAttendChoices),
			MainAttendReason:     p.choice("main_attend_reason", metrics.AttendReasonChoices),
			HowOftenUseBefore:    p.choice("how_often_use_before", metrics.UsageFrequencyChoices),
			HowOftenUseAfter:     p.choice("how_often_use_after", metrics.UsageFrequencyChoices),
			AbleToExplain:        p.choice("able_to_explain", metrics.YesNoMaybeChoices),
			AbleUseNow:           p.choice("able_use_now", metrics.AbleUseNowChoices),
			HelpWork:             p.choiceList("help_work", metrics.HelpWorkChoices),
			AttendingLedTo:       p.choiceList("attending_led_to", metrics.AttendingLedToChoices),
			PeopleShareKnowledge: p.choice("people_share_knowledge", metrics.PeopleShareKnowledgeChoices),
			RecommendOthers:      p.choice("recommend_others", metrics.YesNoMaybeChoices),
		},
	}
	return parsed, p.err()
}

// ParseDemographicRow converts one demographic feedback row.
func ParseDemographicRow(aliases *alias.Resolver, row Row) (ParsedMetrics, error) {
	p := &rowParser{row: row, aliases: aliases}
	parsed := ParsedMetrics{
		EventCode: parseEventCode(p),
		Demog: &metrics.Demographic{
			HeardFrom:         p.choiceList("heard_from", metrics.HeardFromChoices),
			EmploymentSector:  p.choice("employment_sector", metrics.EmploymentSectorChoices),
			EmploymentCountry: p.choice("employment_country", metrics.EmploymentCountryChoices),
			Gender:            p.choice("gender", metrics.GenderChoices),
			CareerStage:       p.choice("career_stage", metrics.CareerStageChoices),
		},
	}
	return parsed, p.err()
}
