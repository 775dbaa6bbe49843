package schema

// QueueRow adds presentation data to a queued task.
type QueueRow struct {
	Rank       int      `json:"rank"`
	Label      string   `json:"label"`
	Completing bool     `json:"completing,omitempty"`
	OutOfRange []string `json:"out_of_range,omitempty"`
	Task
}

// DimensionPreview explains one dimension value of a score preview.
type DimensionPreview struct {
	Dimension   Dimension `json:"dimension"`
	Name        string    `json:"name"`
	Value       float64   `json:"value"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	OutOfRange  bool      `json:"out_of_range"`
	Position    float64   `json:"position"` // 0-100 between the lowest and highest valid value
}

// ScorePreview is the render model for a score computed before a task exists.
type ScorePreview struct {
	Score      float64            `json:"score"`
	Label      string             `json:"label"`
	Formula    string             `json:"formula"`
	Dimensions []DimensionPreview `json:"dimensions"`
}

// CriteriaSection is the criteria table of one dimension with its role in the formula.
type CriteriaSection struct {
	Dimension    Dimension       `json:"dimension"`
	Title        string          `json:"title"`
	Weight       float64         `json:"weight"`
	Role         string          `json:"role"`
	DefaultValue float64         `json:"default_value"`
	ValidValues  []float64       `json:"valid_values"`
	SliderStops  []float64       `json:"slider_stops"`
	DefaultAt    float64         `json:"default_position"`
	Entries      []CriteriaEntry `json:"entries"`
}

// CriteriaGuide is the render model for the criteria guide.
type CriteriaGuide struct {
	Formula  string            `json:"formula"`
	Weights  Weights           `json:"weights"`
	Sections []CriteriaSection `json:"sections"`
}
