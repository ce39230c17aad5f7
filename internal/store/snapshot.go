package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// snapshotRepo implements SnapshotRepo over the documents table.
type snapshotRepo struct {
	db *sql.DB
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	history := snap.History
	if history == nil {
		history = []RecordData{}
	}
	docs := []struct {
		key   string
		value any
	}{
		{ProgressKey(snap.Language), normalizeProgress(snap.Progress)},
		{HistoryKey(snap.Language), history},
		{GrammarKey(snap.Language), normalizeGrammar(snap.Grammar)},
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	for _, d := range docs {
		b, err := json.Marshal(d.value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", d.key, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			d.key, string(b), now,
		)
		if err != nil {
			return fmt.Errorf("save %s: %w", d.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Load(ctx context.Context, language string) (*Snapshot, error) {
	snap := &Snapshot{Language: language}
	found := false

	targets := []struct {
		key string
		dst any
	}{
		{ProgressKey(language), &snap.Progress},
		{HistoryKey(language), &snap.History},
		{GrammarKey(language), &snap.Grammar},
	}
	for _, t := range targets {
		ok, err := r.loadDoc(ctx, t.key, t.dst)
		if err != nil {
			return nil, err
		}
		found = found || ok
	}

	if !found {
		return nil, nil
	}
	return snap, nil
}

func (r *snapshotRepo) loadDoc(ctx context.Context, key string, dst any) (bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM documents WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *snapshotRepo) Delete(ctx context.Context, language string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE key IN (?, ?, ?)`,
		ProgressKey(language), HistoryKey(language), GrammarKey(language),
	)
	if err != nil {
		return fmt.Errorf("delete %s documents: %w", language, err)
	}
	return nil
}

func (r *snapshotRepo) Languages(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan document key: %w", err)
		}
		if _, lang, ok := strings.Cut(key, ":"); ok && lang != "" {
			seen[lang] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	langs := make([]string, 0, len(seen))
	for l := range seen {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs, nil
}

// normalizeProgress keeps empty sets encoded as [] rather than null.
func normalizeProgress(p ProgressDoc) ProgressDoc {
	if p.Due == nil {
		p.Due = []string{}
	}
	if p.GrammarDue == nil {
		p.GrammarDue = []string{}
	}
	return p
}

func normalizeGrammar(g GrammarDoc) GrammarDoc {
	if g.Rules == nil {
		g.Rules = []string{}
	}
	return g
}
