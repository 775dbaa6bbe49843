package core

import "github.com/huangsam/mades/schema"

// Built-in weights and default slider positions.
var (
	DefaultWeights = schema.Weights{M: 0.8, A: 1.2}

	DefaultDimensionValues = schema.DimensionValues{M: 5, A: 4, D: 1.5, E: 3}
)

// DefaultMoneyCriteria describes the revenue impact scale.
var DefaultMoneyCriteria = []schema.CriteriaEntry{
	{Range: "10", Label: "Market dominance", Description: "Market-defining revenue opportunity or a flagship contract"},
	{Range: "9", Label: "Core revenue", Description: "Main project that acts as the company's cash cow"},
	{Range: "8", Label: "New contract", Description: "Large new contract with confirmed revenue"},
	{Range: "7", Label: "Direct revenue", Description: "Closing work that turns into an incoming payment right away"},
	{Range: "6", Label: "Renewal or expansion", Description: "Confirmed renewal or scope expansion with an existing client"},
	{Range: "5", Label: "Upsell", Description: "Pitching extra features to an existing client"},
	{Range: "4", Label: "Strong pipeline", Description: "Sales activity with a high chance of closing"},
	{Range: "3", Label: "Prospects", Description: "Cold outreach and first meetings to gather leads"},
	{Range: "2", Label: "Branding", Description: "Awareness work that pays off in the long run"},
	{Range: "1", Label: "Maintenance", Description: "Small fixes and support with little revenue impact"},
}

// DefaultAssetCriteria describes the lasting value scale.
var DefaultAssetCriteria = []schema.CriteriaEntry{
	{Range: "10", Label: "Automation", Description: "Fully automated system or an integrated AI model"},
	{Range: "9", Label: "Core engine", Description: "Engine that other projects will build on"},
	{Range: "8", Label: "Proprietary tech", Description: "Technology competitors will struggle to copy"},
	{Range: "7", Label: "Systemization", Description: "Template or tool that drastically cuts working time"},
	{Range: "6", Label: "Knowledge asset", Description: "Know-how or manual the whole team can reuse"},
	{Range: "5", Label: "Process tuning", Description: "Workflow improvement for repetitive work"},
	{Range: "4", Label: "Reusable module", Description: "Code or design block that can be reused later"},
	{Range: "3", Label: "Teaching", Description: "Training teammates or preparing a public talk"},
	{Range: "2", Label: "One-off build", Description: "Feature tied to a single project"},
	{Range: "1", Label: "Throwaway", Description: "One-time work that leaves nothing behind"},
}

// DefaultDeadlineCriteria describes the urgency multiplier scale.
var DefaultDeadlineCriteria = []schema.CriteriaEntry{
	{Range: "2.0", Label: "Due today", Description: "Missing it today causes real damage"},
	{Range: "1.9", Label: "Emergency", Description: "Outage or incident that needs an immediate fix"},
	{Range: "1.8", Label: "Due tomorrow", Description: "Has to be done by tomorrow morning"},
	{Range: "1.7", Label: "Due in 3 days", Description: "Key milestone for this week"},
	{Range: "1.6", Label: "Important this week", Description: "Must be finished before the week ends"},
	{Range: "1.5", Label: "Weekly routine", Description: "Regular work scheduled for this week"},
	{Range: "1.4", Label: "Due next week", Description: "Some slack until early next week"},
	{Range: "1.3", Label: "Being scheduled", Description: "No date yet but one is coming soon"},
	{Range: "1.2", Label: "Nagging", Description: "No deadline but it keeps coming back to mind"},
	{Range: "1.1", Label: "Ideation", Description: "Early planning and collecting ideas"},
	{Range: "1.0", Label: "Someday", Description: "Long-term work with no deadline"},
}

// DefaultEffortCriteria describes the effort subtractor scale.
var DefaultEffortCriteria = []schema.CriteriaEntry{
	{Range: "1", Label: "Trivial", Description: "Twenty minutes of mechanical work"},
	{Range: "2", Label: "Easy", Description: "Under an hour of familiar work"},
	{Range: "3", Label: "Moderate", Description: "Half a day with some problem solving"},
	{Range: "4", Label: "Hard", Description: "Needs deep focus and careful design"},
	{Range: "5", Label: "Very hard", Description: "A full day on a problem never solved before"},
}

// DefaultCriteria returns a fresh copy of the built-in criteria tables.
func DefaultCriteria() schema.Criteria {
	return schema.Criteria{
		M: DefaultMoneyCriteria,
		A: DefaultAssetCriteria,
		D: DefaultDeadlineCriteria,
		E: DefaultEffortCriteria,
	}.Clone()
}

// DefaultSettings returns the built-in settings with derived ranges filled in.
func DefaultSettings() schema.Settings {
	s := schema.Settings{
		Weights:       DefaultWeights,
		Criteria:      DefaultCriteria(),
		DefaultValues: DefaultDimensionValues,
	}
	RecomputeRanges(&s)
	return s
}

// Field defaults applied when decoding persisted tasks.
const (
	DefaultTaskTitle = "Untitled Task"
	DefaultTaskM     = 5.0
	DefaultTaskA     = 4.0
	DefaultTaskD     = 1.5
	DefaultTaskE     = 3.0
)
