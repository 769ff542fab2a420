package db

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Defining possible error
var ErrNotHMMER3 = errors.New("not a HMMER3 profile file")

type HMMFormatError struct {
	Record int    // 1-based index of the profile in the file
	Msg    string // additional context for the error
}

func (e *HMMFormatError) Error() string {
	return fmt.Sprintf("HMM record %d: %s", e.Record, e.Msg)
}

// HMM is one profile of the database. Raw holds the full text record
// (header through "//") and is what gets handed to hmmsearch.
type HMM struct {
	Name        string
	Accession   string
	Description string
	Length      int
	NSeq        int // 0 when the file does not declare NSEQ
	Raw         []byte
}

// HMMDB is the profile collection loaded at startup. It is never mutated
// after ReadHMMDB returns.
type HMMDB struct {
	Path   string
	models []*HMM
}

func (hdb *HMMDB) Len() int {
	if hdb == nil {
		return 0
	}
	return len(hdb.models)
}

// Models returns the profiles in file order. Callers must not modify the slice.
func (hdb *HMMDB) Models() []*HMM {
	if hdb == nil {
		return nil
	}
	return hdb.models
}

func NewHMMDB(path string, models []*HMM) *HMMDB {
	return &HMMDB{Path: path, models: models}
}

func OpenHMMDB(path string) (*HMMDB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	models, err := ReadHMMs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewHMMDB(path, models), nil
}

// ReadHMMs reads every profile from a HMMER3 ASCII file. Each profile starts
// with a "HMMER3/x" line and ends with "//". An empty input is not an error.
func ReadHMMs(r io.Reader) ([]*HMM, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		models []*HMM
		cur    *HMM
		raw    bytes.Buffer
	)

	for scanner.Scan() {
		line := scanner.Text()

		if cur == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !strings.HasPrefix(line, "HMMER3") {
				return nil, &HMMFormatError{Record: len(models) + 1, Msg: ErrNotHMMER3.Error()}
			}
			cur = &HMM{}
			raw.Reset()
		}

		raw.WriteString(line)
		raw.WriteByte('\n')

		if strings.HasPrefix(line, "//") {
			if cur.Name == "" {
				return nil, &HMMFormatError{Record: len(models) + 1, Msg: "missing NAME"}
			}
			cur.Raw = append([]byte(nil), raw.Bytes()...)
			models = append(models, cur)
			cur = nil
			continue
		}

		if err := readHeaderField(cur, line); err != nil {
			return nil, &HMMFormatError{Record: len(models) + 1, Msg: err.Error()}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading hmm: %w", err)
	}
	if cur != nil {
		return nil, &HMMFormatError{Record: len(models) + 1, Msg: "unterminated record (missing //)"}
	}

	return models, nil
}

// Only the tag lines we care about; the model body is kept in Raw only.
func readHeaderField(hmm *HMM, line string) error {
	tag, value, _ := strings.Cut(line, " ")
	value = strings.TrimSpace(value)

	switch tag {
	case "NAME":
		hmm.Name = value
	case "ACC":
		hmm.Accession = value
	case "DESC":
		hmm.Description = value
	case "LENG":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid LENG %q", value)
		}
		hmm.Length = n
	case "NSEQ":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid NSEQ %q", value)
		}
		hmm.NSeq = n
	}
	return nil
}
