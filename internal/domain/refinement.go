package domain

type RefinementSource string

const (
	RefinementSourceOracle   RefinementSource = "gemini_refinement"
	RefinementSourceRaw      RefinementSource = "gemini_refinement_raw"
	RefinementSourceFallback RefinementSource = "fallback_rules"
)

// Refinement - улучшенный промпт и что в нем поменяли.
type Refinement struct {
	ImprovedPrompt       string            `json:"improved_prompt"`
	ChangesMade          []string          `json:"changes_made"`
	FocusAreas           []string          `json:"focus_areas"`
	ExpectedImprovements map[string]string `json:"expected_improvements,omitempty"`
	IterationStrategy    string            `json:"iteration_strategy"`
	OriginalPrompt       string            `json:"original_prompt"`
	Source               RefinementSource  `json:"source"`
	ParsingError         string            `json:"parsing_error,omitempty"`
}
