// Package metrics holds the legacy fixed-column feedback records (Quality,
// Impact, Demographic). They are read-only sources for the migration engine;
// new submissions land in the generic response schema instead.
package metrics

import "fmt"

// Model names; question slugs in the generic schema follow "{model}-{field}".
const (
	ModelQuality     = "quality"
	ModelImpact      = "impact"
	ModelDemographic = "demographic"
)

type (
	// FieldSpec declares one survey field of a legacy model: its column name,
	// the canonical choice list and whether multiple choices may be selected.
	FieldSpec struct {
		Name    string
		Choices []string
		Multi   bool
	}

	// ModelSpec is the full declared schema of one legacy model.
	ModelSpec struct {
		Model  string
		Fields []FieldSpec
	}

	// FieldValue carries the selected value(s) of one field of one record.
	FieldValue struct {
		Name   string
		Values []string
		Multi  bool
	}

	// Record is implemented by every legacy metrics record.
	Record interface {
		Model() string
		RecordEventID() int
		RecordUserID() int
		Fields() []FieldValue
	}
)

// SpecFor returns the declared schema of a legacy model.
func SpecFor(model string) (ModelSpec, error) {
	switch model {
	case ModelQuality:
		return QualitySpec(), nil
	case ModelImpact:
		return ImpactSpec(), nil
	case ModelDemographic:
		return DemographicSpec(), nil
	}
	return ModelSpec{}, fmt.Errorf("unknown metrics model %q", model)
}

// Canonical choice lists. Historical uploads drifted from these spellings; the
// alias table folds the drift back.
var (
	YesNoChoices      = []string{"Yes", "No"}
	YesNoMaybeChoices = []string{"Yes", "No", "Maybe"}

	UsageFrequencyChoices = []string{
		"Never - unaware of them",
		"Never - aware of them, but had not used them",
		"Occasionally",
		"Frequently",
	}

	CourseRatingChoices = []string{"Poor", "Satisfactory", "Good", "Very Good", "Excellent"}

	BalanceChoices = []string{"About right", "Too theoretical", "Too practical"}

	UsedResourcesBeforeChoices = []string{
		"Frequently (weekly to daily)",
		"Occasionally (once in a while to monthly)",
		"Never - used other service",
		"Never - aware of them, but not used them",
		"Never - unaware of them",
	}

	WhenAttendChoices = []string{
		"Less than 6 months ago",
		"6 months to a year ago",
		"Over a year ago",
	}

	AttendReasonChoices = []string{
		"To learn something new to aid me in my current research/work",
		"To build on existing knowledge to aid me in my current research/work",
		"By the suggestion of my project leader/line manager",
		"Other",
	}

	AbleUseNowChoices = []string{
		"Independently",
		"By copying and adapting examples",
		"With the help of an expert",
		"Other",
	}

	HelpWorkChoices = []string{
		"It did not help as I do not use the tool(s) in my work",
		"It enabled me to complete certain tasks more quickly",
		"It has not helped yet but I anticipate it will soon",
		"It improved communication with the bioinformatician/ statistician analyzing my data",
		"Other",
	}

	AttendingLedToChoices = []string{
		"Authoring of software",
		"Change in career",
		"Increased productivity",
		"New collaboration(s)",
		"Professional networking",
		"Publication of my work",
		"Submission of a grant application",
		"Useful collaboration(s)",
		"Other",
	}

	PeopleShareKnowledgeChoices = []string{"None", "1 to 5", "6 to 15", "16+"}

	EmploymentSectorChoices = []string{
		"Academia/ Research Institution",
		"Industry",
		"Non-Profit Organisation",
		"Healthcare",
		"Other",
	}

	EmploymentCountryChoices = []string{
		"Belgium", "Cyprus", "Czech Republic", "Denmark", "Estonia", "Finland",
		"France", "Germany", "Greece", "Hungary", "Ireland", "Israel", "Italy",
		"Luxembourg", "Netherlands", "Norway", "Portugal", "Slovenia", "Spain",
		"Sweden", "Switzerland", "United Kingdom", "Other",
	}

	GenderChoices = []string{"Male", "Female", "Non-binary", "Prefer not to say"}

	CareerStageChoices = []string{
		"Undergraduate student",
		"Masters student",
		"PhD candidate",
		"Postdoctoral researcher",
		"Senior scientist/ Principal investigator",
		"Research assistant/ Technician",
		"Other",
	}

	HeardFromChoices = []string{
		"TeSS",
		"Node website",
		"Mailing list",
		"Colleague",
		"Internet search",
		"Other",
	}
)
