package model

// Hit is one accepted search hit, joined with its model annotation.
type Hit struct {
	Model          string   `json:"model"`
	EValue         float64  `json:"e_value"`
	Score          float64  `json:"score"`
	Bias           float64  `json:"bias"`
	MetalType      []string `json:"metal_type"`
	ResistanceType string   `json:"resistance_type"`
}

// RawHit is a hit as reported by the search engine, before filtering.
type RawHit struct {
	Target string
	EValue float64
	Score  float64
	Bias   float64
}

type SearchResult struct {
	Query           string                 `json:"query"`
	Hits            []Hit                  `json:"hits"`
	SearchParams    map[string]interface{} `json:"search_params"`
	ExecutionTimeMS int64                  `json:"execution_time_ms"`
}
