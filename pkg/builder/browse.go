// Builds browse_models_data.json: curated metadata merged with statistics
// read from the HMM files.

package builder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/yumyai/methmmdb/internal/util"
	"github.com/yumyai/methmmdb/logger"
	mydb "github.com/yumyai/methmmdb/pkg/db"
	"go.uber.org/zap"
)

// Fixed line positions (0-based) in a HMMER3 file written by hmmbuild.
const (
	lengthLine = 2  // LENG
	nseqLine   = 10 // NSEQ
)

var relatedModelPattern = regexp.MustCompile(`^(.+)_(\d+)$`)

// SourceRecord is one entry of the curated metadata file.
type SourceRecord struct {
	HMMName           string          `json:"hmm_name"`
	Metal             *string         `json:"metal"`
	ResistanceType    string          `json:"resistance_type"`
	RepSequence       string          `json:"rep_sequence"`
	BestFoldseekHit   string          `json:"best_foldseek_hit"`
	FoldseekHitEvalue json.RawMessage `json:"foldseek_hit_evalue"`
}

// HMMStats are the numbers taken from a model file. Nil means the value was
// missing or not an integer.
type HMMStats struct {
	Length         *int
	SequencesCount *int
}

// BrowseResult is the built document plus the number of related-model
// groups found, for reporting.
type BrowseResult struct {
	Data   *mydb.BrowseData
	Groups int
}

// ReadHMMStats reads the model length and training sequence count from their
// fixed lines: the last space separated token of each.
func ReadHMMStats(path string) (HMMStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return HMMStats{}, err
	}
	defer f.Close()

	var stats HMMStats
	scanner := bufio.NewScanner(f)
	for i := 0; i <= nseqLine && scanner.Scan(); i++ {
		switch i {
		case lengthLine:
			stats.Length = lastIntToken(scanner.Text())
		case nseqLine:
			stats.SequencesCount = lastIntToken(scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		return HMMStats{}, fmt.Errorf("read %s: %w", path, err)
	}
	return stats, nil
}

func lastIntToken(line string) *int {
	tokens := strings.Split(line, " ")
	n, err := strconv.Atoi(strings.TrimSpace(tokens[len(tokens)-1]))
	if err != nil {
		return nil
	}
	return &n
}

// ModelIDFromPath gives the model id of an HMM file: its name up to the
// first dot.
func ModelIDFromPath(path string) string {
	id, _, _ := strings.Cut(filepath.Base(path), ".")
	return id
}

// CollectHMMStats reads every *.hmm file in dir, keyed by model id.
func CollectHMMStats(dir string) (map[string]HMMStats, error) {
	files, err := util.FilesWithExt(dir, ".hmm")
	if err != nil {
		return nil, err
	}

	stats := make(map[string]HMMStats, len(files))
	for _, path := range files {
		s, err := ReadHMMStats(path)
		if err != nil {
			return nil, err
		}
		if s.Length == nil || s.SequencesCount == nil {
			logger.Warn("HMM file is missing LENG or NSEQ at the expected line", zap.String("file", path))
		}
		stats[ModelIDFromPath(path)] = s
	}
	return stats, nil
}

func ReadSourceMetadata(path string) ([]SourceRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []SourceRecord
	if err := mydb.UnmarshalLenient(content, &records); err != nil {
		return nil, fmt.Errorf("%s: invalid metadata json: %w", path, err)
	}
	return records, nil
}

// dedupeRecords keeps one record per hmm_name: the later record wins and
// takes the position of the first.
func dedupeRecords(records []SourceRecord) []SourceRecord {
	index := make(map[string]int, len(records))
	out := make([]SourceRecord, 0, len(records))
	for _, r := range records {
		if i, ok := index[r.HMMName]; ok {
			logger.Warn("Duplicate model in metadata, keeping the later record", zap.String("model", r.HMMName))
			out[i] = r
			continue
		}
		index[r.HMMName] = len(out)
		out = append(out, r)
	}
	return out
}

// MergeBrowseData joins the curated records with HMM statistics. Record order
// follows the curated file; a repeated hmm_name keeps its later record.
func MergeBrowseData(records []SourceRecord, stats map[string]HMMStats) BrowseResult {
	records = dedupeRecords(records)

	// base name -> models, for names like As_lyase_1, As_lyase_2
	groups := make(map[string][]string)
	for _, r := range records {
		if m := relatedModelPattern.FindStringSubmatch(r.HMMName); m != nil {
			groups[m[1]] = append(groups[m[1]], r.HMMName)
		}
	}

	abbrSeen := make(map[string]bool)
	var abbrs []string
	resistanceSeen := make(map[string]bool)
	resistanceTypes := make([]string, 0)

	models := make([]mydb.ModelRecord, 0, len(records))
	for _, r := range records {
		metals := SplitMetals(r.Metal)
		fullNames := make([]string, 0, len(metals))
		for _, m := range metals {
			fullNames = append(fullNames, FullMetalName(m))
			if !abbrSeen[m] {
				abbrSeen[m] = true
				abbrs = append(abbrs, m)
			}
		}

		if !resistanceSeen[r.ResistanceType] {
			resistanceSeen[r.ResistanceType] = true
			resistanceTypes = append(resistanceTypes, r.ResistanceType)
		}

		related := make([]string, 0)
		if m := relatedModelPattern.FindStringSubmatch(r.HMMName); m != nil {
			for _, sibling := range groups[m[1]] {
				if sibling != r.HMMName {
					related = append(related, sibling)
				}
			}
		}

		s := stats[r.HMMName]
		models = append(models, mydb.ModelRecord{
			ID:                r.HMMName,
			MetalType:         fullNames,
			ResistanceType:    r.ResistanceType,
			Length:            s.Length,
			SequencesCount:    s.SequencesCount,
			RelatedModels:     related,
			RepSequence:       r.RepSequence,
			BestFoldseekHit:   r.BestFoldseekHit,
			FoldseekHitEvalue: r.FoldseekHitEvalue,
			HMMFile:           fmt.Sprintf("hmms/%s.hmm", r.HMMName),
			AlignmentFile:     fmt.Sprintf("alignments/%s.sto", r.HMMName),
			SequenceFile:      fmt.Sprintf("sequences/%s.fasta", r.HMMName),
		})
	}

	sort.Strings(abbrs)
	metalTypes := make([]string, 0, len(abbrs))
	for _, a := range abbrs {
		metalTypes = append(metalTypes, FullMetalName(a))
	}

	return BrowseResult{
		Data: &mydb.BrowseData{
			Models: models,
			Metadata: mydb.BrowseSummary{
				TotalModels:     len(models),
				MetalTypes:      metalTypes,
				ResistanceTypes: resistanceTypes,
			},
		},
		Groups: len(groups),
	}
}

// BuildBrowseData reads the HMM directory and curated metadata and merges
// them.
func BuildBrowseData(hmmDir, metadataPath string) (BrowseResult, error) {
	stats, err := CollectHMMStats(hmmDir)
	if err != nil {
		return BrowseResult{}, fmt.Errorf("collect hmm stats: %w", err)
	}
	logger.Info("Read HMM files", zap.String("dir", hmmDir), zap.Int("count", len(stats)))

	records, err := ReadSourceMetadata(metadataPath)
	if err != nil {
		return BrowseResult{}, fmt.Errorf("read metadata: %w", err)
	}

	for _, r := range records {
		if _, ok := stats[r.HMMName]; !ok {
			logger.Warn("No HMM file for model", zap.String("model", r.HMMName))
		}
	}

	return MergeBrowseData(records, stats), nil
}

// WriteJSON writes v indented by two spaces, without HTML escaping.
func WriteJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
