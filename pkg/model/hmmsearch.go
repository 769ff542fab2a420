package model

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	mydb "github.com/yumyai/methmmdb/pkg/db"
)

// Engine runs one profile against a digitized query.
type Engine interface {
	SearchHMM(ctx context.Context, hmm *mydb.HMM, seq *DigitalSequence) ([]RawHit, error)
}

// Pipeline runs HMMER's hmmsearch with a fixed reporting threshold.
type Pipeline struct {
	Exec   string
	EValue float64
	CPUs   int
}

func NewPipeline(bin string, evalue float64, cpus int) *Pipeline {
	if bin == "" {
		bin = "hmmsearch"
	}
	return &Pipeline{Exec: bin, EValue: evalue, CPUs: cpus}
}

func (p *Pipeline) args(tblout, seqPath string) []string {
	args := []string{"--noali", "-o", os.DevNull, "--tblout", tblout}
	// hmmsearch rejects -E 0; its default reporting threshold is used and
	// the caller filters.
	if p.EValue > 0 {
		args = append(args, "-E", strconv.FormatFloat(p.EValue, 'g', -1, 64))
	}
	if p.CPUs > 0 {
		args = append(args, "--cpu", strconv.Itoa(p.CPUs))
	}
	// "-" reads the profile from stdin
	return append(args, "-", seqPath)
}

// SearchHMM pipes the profile into hmmsearch and parses the per-sequence
// table it writes.
func (p *Pipeline) SearchHMM(ctx context.Context, hmm *mydb.HMM, seq *DigitalSequence) ([]RawHit, error) {
	tbl, err := os.CreateTemp(seq.dir, "tblout-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create table output: %w", err)
	}
	tblPath := tbl.Name()
	tbl.Close()
	defer os.Remove(tblPath)

	cmd := exec.CommandContext(ctx, p.Exec, p.args(tblPath, seq.Path)...)
	cmd.Stdin = bytes.NewReader(hmm.Raw)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to execute %s for %s: %w - %s", p.Exec, hmm.Name, err, strings.TrimSpace(stderr.String()))
	}

	f, err := os.Open(tblPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hits, err := parseTblout(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s output for %s: %w", p.Exec, hmm.Name, err)
	}
	return hits, nil
}

// parseTblout reads hmmsearch --tblout output. Columns: target, target
// accession, query, query accession, full-sequence E-value, score, bias, ...
func parseTblout(r io.Reader) ([]RawHit, error) {
	var hits []RawHit
	scanner := bufio.NewScanner(r)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 7 {
			return nil, fmt.Errorf("line %d: expected at least 7 columns, got %d", lineNo, len(fields))
		}

		var values [3]float64
		for i, col := range fields[4:7] {
			v, err := strconv.ParseFloat(col, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			values[i] = v
		}

		hits = append(hits, RawHit{
			Target: fields[0],
			EValue: values[0],
			Score:  values[1],
			Bias:   values[2],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}
