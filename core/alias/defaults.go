package alias

// defaultAliases is the built-in alias table, keyed by field name then by the
// raw spelling (matched case-insensitively). It covers the drift observed in
// historical uploads; deployments add local spellings through the override file.
var defaultAliases = map[string]map[string]string{
	"funding": {
		"elixir":            "ELIXIR Node",
		"elixir node":       "ELIXIR Node",
		"node":              "ELIXIR Node",
		"elixir hub":        "ELIXIR Hub",
		"hub":               "ELIXIR Hub",
		"elixir-excelerate": "ELIXIR-EXCELERATE",
		"excelerate":        "ELIXIR-EXCELERATE",
		"eu":                "EU funds",
		"eu funds":          "EU funds",
		"national":          "National funds",
		"national funds":    "National funds",
		"converge":          "ELIXIR-CONVERGE",
		"elixir converge":   "ELIXIR-CONVERGE",
	},
	"type": {
		"training":              "Training - face to face",
		"face to face":          "Training - face to face",
		"training face to face": "Training - face to face",
		"elearning":             "Training - e-learning",
		"e-learning":            "Training - e-learning",
		"blended":               "Training - blended",
		"knowledge exchange":    "Knowledge Exchange Workshop",
		"hackathon":             "Hackathon",
	},
	"target_audience": {
		"phd students":         "PhD candidates",
		"phds":                 "PhD candidates",
		"postdocs":             "Postdoctoral researchers",
		"post-docs":            "Postdoctoral researchers",
		"pis":                  "Principal investigators",
		"industry researchers": "Industry",
	},
	"location_country": {
		"uk":              "United Kingdom",
		"great britain":   "United Kingdom",
		"czechia":         "Czech Republic",
		"holland":         "Netherlands",
		"the netherlands": "Netherlands",
	},
	"employment_country": {
		"uk":              "United Kingdom",
		"great britain":   "United Kingdom",
		"czechia":         "Czech Republic",
		"holland":         "Netherlands",
		"the netherlands": "Netherlands",
		"united kingdom of great britain and northern ireland": "United Kingdom",
	},
	"employment_sector": {
		"academia":           "Academia/ Research Institution",
		"university":         "Academia/ Research Institution",
		"research institute": "Academia/ Research Institution",
		"non-profit":         "Non-Profit Organisation",
		"nonprofit":          "Non-Profit Organisation",
	},
	"gender": {
		"m": "Male",
		"f": "Female",
	},
	"course_rating": {
		"poor - 1":         "Poor",
		"satisfactory - 2": "Satisfactory",
		"good - 3":         "Good",
		"very good - 4":    "Very Good",
		"excellent - 5":    "Excellent",
	},
	"attending_led_to": {
		"useful contacts": "Useful collaboration(s)",
	},
	"help_work": {
		// truncated spelling seen in early exports
		"it improved communication with the bioinformatician/ statistician": "It improved communication with the bioinformatician/ statistician analyzing my data",
	},

	// slug-level aliases, applied after slugification by the response validator
	// and the migration engine.
	"quality-course_rating": {
		"very-good-4":    "very-good",
		"excellent-5":    "excellent",
		"good-3":         "good",
		"satisfactory-2": "satisfactory",
		"poor-1":         "poor",
	},
	"impact-help_work": {
		"it-did-not-help": "it-did-not-help-as-i-do-not-use-the-tool-s-in-my-work",
		// truncated spelling seen in early exports
		"it-improved-communication-with-the-bioinformatician-statistician": "it-improved-communication-with-the-bioinformatician-statistician-analyzing-my-data",
	},
	"impact-attending_led_to": {
		"useful-contacts": "useful-collaboration-s",
	},
	"demographic-employment_country": {
		"uk":      "united-kingdom",
		"czechia": "czech-republic",
	},
}
