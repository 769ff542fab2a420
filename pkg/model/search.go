package model

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/yumyai/methmmdb/logger"
	mydb "github.com/yumyai/methmmdb/pkg/db"
	"go.uber.org/zap"
)

// QueryName is the FASTA name given to every user query.
const QueryName = "user_query_seq"

var ErrDatabaseUnavailable = errors.New("HMM database not available")

// Searcher runs a query against every loaded profile. The HMM collection and
// metadata are snapshots taken at startup and only read here.
type Searcher struct {
	HMMs      *mydb.HMMDB
	Metadata  *mydb.Metadata
	Pipelines *PipelineCache
	TempDir   string
}

func NewSearcher(hmms *mydb.HMMDB, metadata *mydb.Metadata, pipelines *PipelineCache) *Searcher {
	return &Searcher{HMMs: hmms, Metadata: metadata, Pipelines: pipelines}
}

// Search validates sequence, runs it against every profile with the engine
// for evalue and returns hits with E-value <= evalue sorted ascending by
// E-value. Ties keep collection order.
func (s *Searcher) Search(ctx context.Context, sequence string, evalue float64) (*SearchResult, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	if s.HMMs.Len() == 0 {
		return nil, ErrDatabaseUnavailable
	}

	seq, err := ValidateSequence(sequence)
	if err != nil {
		return nil, err
	}

	log.Info("Pipeline search",
		zap.String("sequence", truncate(seq, 30)),
		zap.Int("length", len(seq)),
		zap.Float64("evalue", evalue),
	)

	query, err := Digitize(s.TempDir, QueryName, seq)
	if err != nil {
		return nil, err
	}
	defer query.Close()

	engine := s.Pipelines.Get(evalue)
	hits := make([]Hit, 0)

	for _, hmm := range s.HMMs.Models() {
		raw, err := engine.SearchHMM(ctx, hmm, query)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", hmm.Name, err)
		}
		if len(raw) == 0 {
			continue
		}

		log.Debug("HMM found hits", zap.String("hmm", hmm.Name), zap.Int("hits", len(raw)))

		ann, _ := s.Metadata.Lookup(hmm.Name)
		for _, h := range raw {
			if h.EValue > evalue {
				continue
			}
			hits = append(hits, Hit{
				Model:          hmm.Name,
				EValue:         h.EValue,
				Score:          h.Score,
				Bias:           h.Bias,
				MetalType:      ann.MetalType,
				ResistanceType: ann.ResistanceType,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].EValue < hits[j].EValue
	})

	elapsed := time.Since(start).Milliseconds()
	log.Info("Pipeline search complete",
		zap.Int64("elapsed_ms", elapsed),
		zap.Int("hits", len(hits)),
		zap.Float64("evalue", evalue),
	)

	return &SearchResult{
		Query:           query.Name,
		Hits:            hits,
		SearchParams:    map[string]interface{}{"evalue_threshold": evalue},
		ExecutionTimeMS: elapsed,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
