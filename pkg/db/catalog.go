package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yumyai/methmmdb/internal/util"
	_ "modernc.org/sqlite"
)

const catalogSchema = `
	DROP TABLE IF EXISTS model_metals;
	DROP TABLE IF EXISTS models;
	CREATE TABLE models (
		id                  TEXT PRIMARY KEY,
		position            INTEGER NOT NULL,
		resistance_type     TEXT NOT NULL,
		length              INTEGER,
		sequences_count     INTEGER,
		metal_type          TEXT NOT NULL,
		related_models      TEXT NOT NULL,
		rep_sequence        TEXT NOT NULL,
		best_foldseek_hit   TEXT NOT NULL,
		foldseek_hit_evalue TEXT,
		hmm_file            TEXT NOT NULL,
		alignment_file      TEXT NOT NULL,
		sequence_file       TEXT NOT NULL
	);
	CREATE TABLE model_metals (
		model_id TEXT NOT NULL REFERENCES models(id),
		metal    TEXT NOT NULL
	);
	CREATE INDEX idx_model_metals_metal ON model_metals(metal);
	CREATE INDEX idx_models_resistance ON models(resistance_type);
`

const modelColumns = `m.id, m.resistance_type, m.length, m.sequences_count, m.metal_type, m.related_models,
	m.rep_sequence, m.best_foldseek_hit, m.foldseek_hit_evalue, m.hmm_file, m.alignment_file, m.sequence_file`

var (
	ErrCatalogNotFound = errors.New("catalog file not found")
	ErrCatalogSchema   = errors.New("catalog tables missing")
)

// Catalog is the SQLite copy of the browse data used by the model listing
// endpoints.
type Catalog struct {
	db *sql.DB
}

// ModelFilter narrows a model listing. Empty fields match everything; Page is
// 1-based and PageSize <= 0 means no paging.
type ModelFilter struct {
	Metal          string
	ResistanceType string
	Page           int
	PageSize       int
}

func (f ModelFilter) Matches(r ModelRecord) bool {
	if f.ResistanceType != "" && r.ResistanceType != f.ResistanceType {
		return false
	}
	if f.Metal == "" {
		return true
	}
	for _, m := range r.MetalType {
		if m == f.Metal {
			return true
		}
	}
	return false
}

// FilterRecords applies a ModelFilter to in-memory records and returns the
// requested page plus the total number of matches.
func FilterRecords(records []ModelRecord, f ModelFilter) ([]ModelRecord, int) {
	matched := make([]ModelRecord, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			matched = append(matched, r)
		}
	}

	total := len(matched)
	if f.PageSize <= 0 {
		return matched, total
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * f.PageSize
	if start >= total {
		return []ModelRecord{}, total
	}
	end := start + f.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total
}

// CreateCatalog (re)creates the catalog tables at path and fills them with
// records, in one transaction. Records are deduplicated the same way as
// NewMetadata: a repeated id keeps the later record at the first position.
func CreateCatalog(ctx context.Context, path string, records []ModelRecord) error {
	records = NewMetadata(records).Records()

	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	tx, err := sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("fail to begin tx %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, catalogSchema); err != nil {
		return fmt.Errorf("create catalog schema: %w", err)
	}

	modelStm, err := tx.PrepareContext(ctx, `
		INSERT INTO models (id, position, resistance_type, length, sequences_count, metal_type, related_models,
			rep_sequence, best_foldseek_hit, foldseek_hit_evalue, hmm_file, alignment_file, sequence_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer modelStm.Close()

	metalStm, err := tx.PrepareContext(ctx, `INSERT INTO model_metals (model_id, metal) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer metalStm.Close()

	for i, r := range records {
		metals, err := json.Marshal(nonNil(r.MetalType))
		if err != nil {
			return err
		}
		related, err := json.Marshal(nonNil(r.RelatedModels))
		if err != nil {
			return err
		}

		var evalue sql.NullString
		if len(r.FoldseekHitEvalue) > 0 {
			evalue = sql.NullString{String: string(r.FoldseekHitEvalue), Valid: true}
		}

		if _, err := modelStm.ExecContext(ctx,
			r.ID, i, r.ResistanceType, nullInt(r.Length), nullInt(r.SequencesCount), string(metals), string(related),
			r.RepSequence, r.BestFoldseekHit, evalue, r.HMMFile, r.AlignmentFile, r.SequenceFile,
		); err != nil {
			return fmt.Errorf("insert model %s: %w", r.ID, err)
		}

		for _, m := range r.MetalType {
			if _, err := metalStm.ExecContext(ctx, r.ID, m); err != nil {
				return fmt.Errorf("insert metal %s for %s: %w", m, r.ID, err)
			}
		}
	}

	return tx.Commit()
}

// OpenCatalog opens an existing catalog built by CreateCatalog. A missing
// file is an error; sqlite would otherwise create an empty database.
func OpenCatalog(path string) (*Catalog, error) {
	if !util.FileExists(path) {
		return nil, fmt.Errorf("open catalog %s: %w", path, ErrCatalogNotFound)
	}

	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	var tables int
	err = sqldb.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('models', 'model_metals')`).Scan(&tables)
	if err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if tables != 2 {
		sqldb.Close()
		return nil, fmt.Errorf("open catalog %s: %w", path, ErrCatalogSchema)
	}
	return &Catalog{db: sqldb}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

const catalogWhere = `
	WHERE (? = '' OR m.resistance_type = ?)
	  AND (? = '' OR EXISTS (SELECT 1 FROM model_metals mm WHERE mm.model_id = m.id AND mm.metal = ?))`

// ListModels returns one page of models in build order plus the total count
// of models matching the filter.
func (c *Catalog) ListModels(ctx context.Context, f ModelFilter) ([]ModelRecord, int, error) {
	args := []interface{}{f.ResistanceType, f.ResistanceType, f.Metal, f.Metal}

	var total int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM models m`+catalogWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count models: %w", err)
	}

	limit, offset := -1, 0
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		limit, offset = f.PageSize, (page-1)*f.PageSize
	}

	qstring := `SELECT ` + modelColumns + ` FROM models m` + catalogWhere + ` ORDER BY m.position LIMIT ? OFFSET ?`

	stm, err := c.db.PrepareContext(ctx, qstring)
	if err != nil {
		return nil, 0, err
	}
	defer stm.Close()

	rows, err := stm.QueryContext(ctx, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results := make([]ModelRecord, 0, 16)
	for rows.Next() {
		r, err := scanModel(rows)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// GetModel returns sql.ErrNoRows (wrapped) when the id is unknown.
func (c *Catalog) GetModel(ctx context.Context, id string) (ModelRecord, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+modelColumns+` FROM models m WHERE m.id = ?`, id)
	r, err := scanModel(row)
	if err != nil {
		return ModelRecord{}, fmt.Errorf("get model %s: %w", id, err)
	}
	return r, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanModel(row rowScanner) (ModelRecord, error) {
	var (
		r               ModelRecord
		length, nseq    sql.NullInt64
		metals, related string
		evalue          sql.NullString
	)

	if err := row.Scan(&r.ID, &r.ResistanceType, &length, &nseq, &metals, &related,
		&r.RepSequence, &r.BestFoldseekHit, &evalue, &r.HMMFile, &r.AlignmentFile, &r.SequenceFile); err != nil {
		return ModelRecord{}, err
	}

	if err := json.Unmarshal([]byte(metals), &r.MetalType); err != nil {
		return ModelRecord{}, fmt.Errorf("decode metal_type of %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(related), &r.RelatedModels); err != nil {
		return ModelRecord{}, fmt.Errorf("decode related_models of %s: %w", r.ID, err)
	}
	if length.Valid {
		n := int(length.Int64)
		r.Length = &n
	}
	if nseq.Valid {
		n := int(nseq.Int64)
		r.SequencesCount = &n
	}
	if evalue.Valid {
		r.FoldseekHitEvalue = json.RawMessage(evalue.String)
	}
	return r, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
