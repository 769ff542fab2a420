// Query sequence validation and conversion to the engine's input format.

package model

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Amino acids accepted from users: the 20 standard residues, X and stop.
const AminoAlphabet = "ACDEFGHIKLMNPQRSTVWYX*"

// Symbols the engine can digitize in a protein sequence (its amino alphabet
// including degenerate codes and gaps).
const digitalAlphabet = "ACDEFGHIKLMNPQRSTVWY-BJZOUX*~._"

const fastaLineWidth = 60

var ErrInvalidSequence = errors.New("invalid sequence")

// SequenceError is returned for user input problems. It matches
// ErrInvalidSequence with errors.Is and its message is safe to show.
type SequenceError struct {
	Msg     string
	Invalid []string // offending characters, upper-cased, first-seen order
}

func (e *SequenceError) Error() string {
	return e.Msg
}

func (e *SequenceError) Is(target error) bool {
	return target == ErrInvalidSequence
}

// ValidateSequence trims the input and checks every letter against
// AminoAlphabet, case-insensitively. Non-letters are left to Digitize.
func ValidateSequence(raw string) (string, error) {
	seq := strings.TrimSpace(raw)
	if seq == "" {
		return "", &SequenceError{Msg: "Sequence cannot be empty"}
	}

	var invalid []string
	seen := make(map[rune]bool)

	for _, c := range seq {
		if !unicode.IsLetter(c) {
			continue
		}
		up := unicode.ToUpper(c)
		if strings.ContainsRune(AminoAlphabet, up) || seen[up] {
			continue
		}
		seen[up] = true
		invalid = append(invalid, string(up))
	}

	if len(invalid) > 0 {
		return "", &SequenceError{
			Msg:     "Invalid amino acid characters found: " + strings.Join(invalid, ", "),
			Invalid: invalid,
		}
	}
	return seq, nil
}

// DigitalSequence is a query written out as a single-sequence FASTA block in
// its own temp directory, ready to be searched.
type DigitalSequence struct {
	Name   string
	Path   string
	Length int
	dir    string
}

// Digitize writes seq to a temp FASTA file under tmpDir ("" means the OS
// default). Symbols the engine cannot represent are rejected with a
// SequenceError.
func Digitize(tmpDir, name, seq string) (*DigitalSequence, error) {
	residues := make([]rune, 0, len(seq))
	for _, c := range seq {
		if !strings.ContainsRune(digitalAlphabet, unicode.ToUpper(c)) {
			return nil, &SequenceError{Msg: fmt.Sprintf("Invalid sequence or search parameter: illegal character %q in sequence", c)}
		}
		residues = append(residues, unicode.ToUpper(c))
	}

	dir, err := os.MkdirTemp(tmpDir, "methmm-query-")
	if err != nil {
		return nil, err
	}

	ds := &DigitalSequence{
		Name:   name,
		Path:   filepath.Join(dir, "query.fasta"),
		Length: len(residues),
		dir:    dir,
	}

	if err := writeFasta(ds.Path, name, residues); err != nil {
		ds.Close()
		return nil, fmt.Errorf("failed to write query: %w", err)
	}
	return ds, nil
}

// Close removes the temp directory holding the query and any engine output.
func (ds *DigitalSequence) Close() error {
	if ds == nil || ds.dir == "" {
		return nil
	}
	return os.RemoveAll(ds.dir)
}

func writeFasta(path, name string, residues []rune) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, ">%s\n", name)
	for i := 0; i < len(residues); i += fastaLineWidth {
		end := i + fastaLineWidth
		if end > len(residues) {
			end = len(residues)
		}
		w.WriteString(string(residues[i:end]))
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
