package builder

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yumyai/methmmdb/internal/util"
)

// ListingEntry is one record of models.json.
type ListingEntry struct {
	ID          string `json:"id"`
	Metal       string `json:"metal"`
	Mechanism   string `json:"mechanism"`
	GeneID      string `json:"gene_id"`
	Description string `json:"description"`
}

// ParseModelFileName splits "<metal>_<mechanism>_<gene>[_...].hmm". Names
// with fewer than three parts are not listed.
func ParseModelFileName(name string) (ListingEntry, bool) {
	base, ok := strings.CutSuffix(name, ".hmm")
	if !ok {
		return ListingEntry{}, false
	}

	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return ListingEntry{}, false
	}

	metal, mechanism, gene := parts[0], parts[1], parts[2]
	return ListingEntry{
		ID:          base,
		Metal:       metal,
		Mechanism:   mechanism,
		GeneID:      gene,
		Description: fmt.Sprintf("Profile HMM for %s %s gene %s.", metal, mechanism, gene),
	}, true
}

// BuildModelListing lists the *.hmm files of dir, in file name order.
func BuildModelListing(dir string) ([]ListingEntry, error) {
	files, err := util.FilesWithExt(dir, ".hmm")
	if err != nil {
		return nil, err
	}

	entries := make([]ListingEntry, 0, len(files))
	for _, path := range files {
		if e, ok := ParseModelFileName(filepath.Base(path)); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
