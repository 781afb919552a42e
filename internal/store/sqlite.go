package store

import (
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yourorg/adfmt/pkg/types"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.Init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Init() error {
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS units (
			name TEXT PRIMARY KEY,
			grp TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS method_docs (
			unit_name TEXT NOT NULL,
			method TEXT NOT NULL,
			path TEXT NOT NULL,
			status_code INTEGER NOT NULL,
			doc TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY(unit_name, method, path)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_method_docs_unit ON method_docs(unit_name);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveUnit inserts the unit or refreshes its group and updated_at.
func (s *SQLiteStore) SaveUnit(name, group string) (*types.Unit, error) {
	now := time.Now().UTC()
	_, err := s.db.Exec(`INSERT INTO units(name,grp,created_at,updated_at) VALUES(?,?,?,?)
	ON CONFLICT(name) DO UPDATE SET grp=excluded.grp, updated_at=excluded.updated_at`,
		name, group, now, now)
	if err != nil {
		return nil, err
	}
	return s.GetUnit(name)
}

func (s *SQLiteStore) GetUnit(name string) (*types.Unit, error) {
	row := s.db.QueryRow(`SELECT name, grp, created_at, updated_at,
		(SELECT COUNT(*) FROM method_docs WHERE unit_name=units.name)
		FROM units WHERE name=?`, name)
	var out types.Unit
	if err := row.Scan(&out.Name, &out.Group, &out.CreatedAt, &out.UpdatedAt, &out.DocCount); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SQLiteStore) ListUnits() ([]types.Unit, error) {
	rows, err := s.db.Query(`SELECT name, grp, created_at, updated_at,
		(SELECT COUNT(*) FROM method_docs WHERE unit_name=units.name)
		FROM units ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.Unit
	for rows.Next() {
		var u types.Unit
		if err := rows.Scan(&u.Name, &u.Group, &u.CreatedAt, &u.UpdatedAt, &u.DocCount); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteUnit(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM method_docs WHERE unit_name=?`, name); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM units WHERE name=?`, name); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveMethodDoc upserts one rendered doc; re-probing an endpoint replaces
// its previous snapshot.
func (s *SQLiteStore) SaveMethodDoc(doc *types.MethodDoc) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT INTO method_docs(unit_name,method,path,status_code,doc,created_at)
	VALUES(?,?,?,?,?,?)
	ON CONFLICT(unit_name,method,path) DO UPDATE SET status_code=excluded.status_code,doc=excluded.doc,created_at=excluded.created_at`,
		doc.UnitName, doc.Method, doc.Path, doc.StatusCode, doc.Doc, doc.CreatedAt)
	return err
}

// GetMethodDocs returns a unit's docs ordered by path then method, so stub
// assembly is deterministic.
func (s *SQLiteStore) GetMethodDocs(unitName string) ([]types.MethodDoc, error) {
	rows, err := s.db.Query(`SELECT unit_name,method,path,status_code,doc,created_at FROM method_docs WHERE unit_name=? ORDER BY path ASC, method ASC`, unitName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.MethodDoc
	for rows.Next() {
		var d types.MethodDoc
		if err := rows.Scan(&d.UnitName, &d.Method, &d.Path, &d.StatusCode, &d.Doc, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return errors.New("store is nil")
	}
	return s.db.Close()
}
