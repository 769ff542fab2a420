package db

import "encoding/json"

// ModelRecord is one entry of browse_models_data.json.
type ModelRecord struct {
	ID                string          `json:"id"`
	MetalType         []string        `json:"metal_type"`
	ResistanceType    string          `json:"resistance_type"`
	Length            *int            `json:"length"`
	SequencesCount    *int            `json:"sequences_count"`
	RelatedModels     []string        `json:"related_models"`
	RepSequence       string          `json:"rep_sequence"`
	BestFoldseekHit   string          `json:"best_foldseek_hit"`
	FoldseekHitEvalue json.RawMessage `json:"foldseek_hit_evalue"`
	HMMFile           string          `json:"hmm_file"`
	AlignmentFile     string          `json:"alignment_file"`
	SequenceFile      string          `json:"sequence_file"`
}

type BrowseSummary struct {
	TotalModels     int      `json:"total_models"`
	MetalTypes      []string `json:"metal_types"`
	ResistanceTypes []string `json:"resistance_types"`
}

// BrowseData is the whole document written by the browse-data builder and
// read back by the search service.
type BrowseData struct {
	Models   []ModelRecord `json:"models"`
	Metadata BrowseSummary `json:"metadata"`
}

// ModelAnnotation is the part of a record joined onto search hits.
type ModelAnnotation struct {
	MetalType      []string
	ResistanceType string
}
