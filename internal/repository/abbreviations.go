package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/devfolarin/payslip-extractor/internal/entity"
)

// AbbreviationRepository persists UnknownAbbreviation records with
// load-all/save semantics. Durability is best-effort: callers treat failures
// as degradation, not as extraction errors.
type AbbreviationRepository interface {
	LoadAll(ctx context.Context) (map[string]*entity.UnknownAbbreviation, error)
	Save(ctx context.Context, rec *entity.UnknownAbbreviation) error
	Delete(ctx context.Context, abbreviation string) error
}

type abbreviationRepo struct {
	db  *sql.DB
	log *slog.Logger
}

func NewAbbreviationRepository(db *sql.DB, log *slog.Logger) AbbreviationRepository {
	if log == nil {
		log = slog.Default()
	}
	return &abbreviationRepo{db: db, log: log}
}

func (r *abbreviationRepo) LoadAll(ctx context.Context) (map[string]*entity.UnknownAbbreviation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT abbreviation, count, values_json, contexts_json, first_seen, last_seen
		 FROM unknown_abbreviations`)
	if err != nil {
		r.log.Error("abbreviations.load.failed", "error", err)
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			r.log.Warn("abbreviations.rows_close.failed", "error", cerr)
		}
	}()

	out := make(map[string]*entity.UnknownAbbreviation)
	for rows.Next() {
		var rec entity.UnknownAbbreviation
		var valuesJSON, contextsJSON string
		if err := rows.Scan(&rec.Abbreviation, &rec.Count, &valuesJSON, &contextsJSON, &rec.FirstSeen, &rec.LastSeen); err != nil {
			r.log.Error("abbreviations.scan.failed", "error", err)
			return nil, err
		}
		if err := json.Unmarshal([]byte(valuesJSON), &rec.Values); err != nil {
			r.log.Warn("abbreviations.values_decode.failed", "abbreviation", rec.Abbreviation, "error", err)
		}
		if err := json.Unmarshal([]byte(contextsJSON), &rec.Contexts); err != nil {
			r.log.Warn("abbreviations.contexts_decode.failed", "abbreviation", rec.Abbreviation, "error", err)
		}
		out[rec.Abbreviation] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.log.Info("abbreviations.loaded", "count", len(out))
	return out, nil
}

func (r *abbreviationRepo) Save(ctx context.Context, rec *entity.UnknownAbbreviation) error {
	valuesJSON, err := json.Marshal(rec.Values)
	if err != nil {
		return err
	}
	contextsJSON, err := json.Marshal(rec.Contexts)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO unknown_abbreviations
			(abbreviation, count, values_json, contexts_json, first_seen, last_seen)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(abbreviation) DO UPDATE SET
			count = excluded.count,
			values_json = excluded.values_json,
			contexts_json = excluded.contexts_json,
			last_seen = excluded.last_seen`,
		rec.Abbreviation, rec.Count, string(valuesJSON), string(contextsJSON), rec.FirstSeen, rec.LastSeen)
	if err != nil {
		r.log.Error("abbreviations.save.failed", "abbreviation", rec.Abbreviation, "error", err)
		return err
	}
	return nil
}

func (r *abbreviationRepo) Delete(ctx context.Context, abbreviation string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM unknown_abbreviations WHERE abbreviation = ?`, abbreviation)
	if err != nil {
		r.log.Error("abbreviations.delete.failed", "abbreviation", abbreviation, "error", err)
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		r.log.Info("abbreviations.deleted", "abbreviation", abbreviation)
	}
	return nil
}
