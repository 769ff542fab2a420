package db

import (
	"fmt"
	"os"
)

// Metadata is the read-only lookup from model id to its annotation, built
// once from the metadata JSON.
type Metadata struct {
	Path    string
	records []ModelRecord
	index   map[string]int
}

func OpenMetadata(path string) (*Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc BrowseData
	if err := UnmarshalLenient(content, &doc); err != nil {
		return nil, fmt.Errorf("%s: invalid metadata json: %w", path, err)
	}

	md := NewMetadata(doc.Models)
	md.Path = path
	return md, nil
}

// NewMetadata indexes records by id. Records without an id are skipped and a
// repeated id keeps the later record.
func NewMetadata(records []ModelRecord) *Metadata {
	md := &Metadata{
		records: make([]ModelRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}

	for _, r := range records {
		if r.ID == "" {
			continue
		}
		if i, ok := md.index[r.ID]; ok {
			md.records[i] = r
			continue
		}
		md.index[r.ID] = len(md.records)
		md.records = append(md.records, r)
	}
	return md
}

func (md *Metadata) Len() int {
	if md == nil {
		return 0
	}
	return len(md.index)
}

// Lookup returns the annotation for a model. Unknown models get empty
// defaults and ok == false; this is never an error.
func (md *Metadata) Lookup(id string) (ModelAnnotation, bool) {
	empty := ModelAnnotation{MetalType: []string{}}
	if md == nil {
		return empty, false
	}

	i, ok := md.index[id]
	if !ok {
		return empty, false
	}

	r := md.records[i]
	ann := ModelAnnotation{MetalType: r.MetalType, ResistanceType: r.ResistanceType}
	if ann.MetalType == nil {
		ann.MetalType = []string{}
	}
	return ann, true
}

func (md *Metadata) Record(id string) (ModelRecord, bool) {
	if md == nil {
		return ModelRecord{}, false
	}
	i, ok := md.index[id]
	if !ok {
		return ModelRecord{}, false
	}
	return md.records[i], true
}

// Records returns all records in file order. Callers must not modify them.
func (md *Metadata) Records() []ModelRecord {
	if md == nil {
		return nil
	}
	return md.records
}
