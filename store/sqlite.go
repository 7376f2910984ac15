package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/snappy"
	"github.com/notargets/StructFE/element"
	"github.com/notargets/StructFE/model"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

var ErrNotFound = errors.New("model not found")

// Store keeps named model snapshots in a SQLite database. Nodes are stored
// as rows; each element is stored as a snappy compressed msgpack record.
type Store struct {
	db   *sql.DB
	path string
}

// Summary describes a stored model
type Summary struct {
	Name     string
	Nodes    int
	Elements int
	SavedAt  time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS models (
	name TEXT PRIMARY KEY,
	nodes INTEGER NOT NULL,
	elements INTEGER NOT NULL,
	saved_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
	model TEXT NOT NULL,
	idx INTEGER NOT NULL,
	x REAL NOT NULL,
	y REAL NOT NULL,
	z REAL NOT NULL,
	PRIMARY KEY (model, idx)
);
CREATE TABLE IF NOT EXISTS elements (
	model TEXT NOT NULL,
	idx INTEGER NOT NULL,
	kind TEXT NOT NULL,
	payload BLOB NOT NULL,
	PRIMARY KEY (model, idx)
);`

// Open opens (creating if needed) the database at path
func Open(path string) (*Store, error) {
	if path == "" {
		path = "structfe.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Path() string { return s.path }

// Save stores snap under name, replacing any model saved under that name
func (s *Store) Save(ctx context.Context, name string, snap *model.Snapshot) (retErr error) {
	if name == "" {
		return fmt.Errorf("save: empty model name")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if err := deleteModel(ctx, tx, name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO models(name,nodes,elements,saved_at) VALUES(?,?,?,?)`,
		name, len(snap.Nodes), len(snap.Elements), time.Now().Unix()); err != nil {
		return fmt.Errorf("insert model %s: %w", name, err)
	}
	for _, n := range snap.Nodes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO nodes(model,idx,x,y,z) VALUES(?,?,?,?,?)`,
			name, n.Index, n.X, n.Y, n.Z); err != nil {
			return fmt.Errorf("insert node %d: %w", n.Index, err)
		}
	}
	for _, rec := range snap.Elements {
		data, err := element.MarshalRecord(rec)
		if err != nil {
			return fmt.Errorf("encode element %d: %w", rec.Index, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO elements(model,idx,kind,payload) VALUES(?,?,?,?)`,
			name, rec.Index, rec.Kind.ShortName(), snappy.Encode(nil, data)); err != nil {
			return fmt.Errorf("insert element %d: %w", rec.Index, err)
		}
	}
	return tx.Commit()
}

func deleteModel(ctx context.Context, tx *sql.Tx, name string) error {
	for _, table := range []string{"elements", "nodes"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE model = ?`, name); err != nil {
			return fmt.Errorf("delete %s of %s: %w", table, name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM models WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete model %s: %w", name, err)
	}
	return nil
}

// Delete removes a stored model
func (s *Store) Delete(ctx context.Context, name string) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	var found string
	if err := tx.QueryRowContext(ctx, `SELECT name FROM models WHERE name = ?`, name).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return err
	}
	if err := deleteModel(ctx, tx, name); err != nil {
		return err
	}
	return tx.Commit()
}

// Load reads the snapshot saved under name. Element records come back in
// their raw form; use model.Loader to resolve them.
func (s *Store) Load(ctx context.Context, name string) (*model.Snapshot, error) {
	var nodes, elements int
	err := s.db.QueryRowContext(ctx, `SELECT nodes, elements FROM models WHERE name = ?`, name).Scan(&nodes, &elements)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select model: %w", err)
	}
	snap := &model.Snapshot{
		Nodes:    make([]model.NodeRecord, 0, nodes),
		Elements: make([]element.Record, 0, elements),
	}

	rows, err := s.db.QueryContext(ctx, `SELECT idx, x, y, z FROM nodes WHERE model = ? ORDER BY idx`, name)
	if err != nil {
		return nil, fmt.Errorf("select nodes: %w", err)
	}
	for rows.Next() {
		var n model.NodeRecord
		if err := rows.Scan(&n.Index, &n.X, &n.Y, &n.Z); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan node: %w", err)
		}
		snap.Nodes = append(snap.Nodes, n)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT idx, payload FROM elements WHERE model = ? ORDER BY idx`, name)
	if err != nil {
		return nil, fmt.Errorf("select elements: %w", err)
	}
	for rows.Next() {
		var (
			idx     int
			payload []byte
		)
		if err := rows.Scan(&idx, &payload); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan element: %w", err)
		}
		data, err := snappy.Decode(nil, payload)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("element %d: %w", idx, err)
		}
		rec, err := element.UnmarshalRecord(data)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("element %d: %w", idx, err)
		}
		snap.Elements = append(snap.Elements, rec)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return snap, nil
}

// List returns the stored models ordered by name
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, nodes, elements, saved_at FROM models ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select models: %w", err)
	}
	var out []Summary
	for rows.Next() {
		var (
			sum   Summary
			saved int64
		)
		if err := rows.Scan(&sum.Name, &sum.Nodes, &sum.Elements, &saved); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan model: %w", err)
		}
		sum.SavedAt = time.Unix(saved, 0).UTC()
		out = append(out, sum)
	}
	return out, closeRows(rows)
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	return rows.Close()
}
