// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The default data source is ":memory:", a private in-memory database,
// so the roster still disappears when the process exits. Pointing
// storage.path at a file is possible but not what the service ships with.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded; we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/aanand-mishra/student-roster/internal/config"
	"github.com/aanand-mishra/student-roster/internal/storage"
	"github.com/aanand-mishra/student-roster/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the database/sql implementation of storage.Storage.
type SQLite struct {
	Db *sql.DB
}

// New opens the database at cfg.Storage.Path, creates the students table
// if it does not already exist, and inserts cfg.Roster.Seed when the
// table is empty.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Every new connection to ":memory:" is a brand new, empty database.
	// Pin the pool to a single long-lived connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// AUTOINCREMENT (rather than plain INTEGER PRIMARY KEY) guarantees
	// that the id of a deleted row is never handed out again.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	s := &SQLite{Db: db}
	if err := s.seed(cfg.Roster.Seed); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) seed(names []string) error {
	if len(names) == 0 {
		return nil
	}
	count, err := s.CountStudents()
	if err != nil {
		return fmt.Errorf("sqlite.New: seed: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, name := range names {
		if _, err := s.CreateStudent(name); err != nil {
			return fmt.Errorf("sqlite.New: seed: %w", err)
		}
	}
	return nil
}

// Close releases the underlying connection. With ":memory:" this also
// discards the roster.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// parseID maps a roster id onto the integer primary key. Anything that
// is not the canonical decimal form of a key ("01", "x", "") cannot name
// a row and is reported as not found.
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != id {
		return 0, false
	}
	return n, true
}

func formatID(n int64) string {
	return strconv.FormatInt(n, 10)
}

func (s *SQLite) queryRoster(query string, args ...any) (map[string]string, error) {
	stmt, err := s.Db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	roster := make(map[string]string)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		roster[formatID(id)] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return roster, nil
}

func (s *SQLite) GetStudents() (map[string]string, error) {
	roster, err := s.queryRoster("SELECT id, name FROM students")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: %w", err)
	}
	return roster, nil
}

// SearchStudents relies on the default BINARY collation, so the match is
// exact and case-sensitive.
func (s *SQLite) SearchStudents(name string) (map[string]string, error) {
	roster, err := s.queryRoster("SELECT id, name FROM students WHERE name = ?", name)
	if err != nil {
		return nil, fmt.Errorf("SearchStudents: %w", err)
	}
	return roster, nil
}

func (s *SQLite) CreateStudent(name string) (types.Student, error) {
	stmt, err := s.Db.Prepare("INSERT INTO students (name) VALUES (?)")
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(name)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return types.Student{ID: formatID(lastID), Name: name}, nil
}

func (s *SQLite) GetStudentByID(id string) (types.Student, error) {
	key, ok := parseID(id)
	if !ok {
		return types.Student{}, fmt.Errorf("GetStudentByID %q: %w", id, storage.ErrNotFound)
	}

	stmt, err := s.Db.Prepare("SELECT name FROM students WHERE id = ? LIMIT 1")
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	var name string
	if err := stmt.QueryRow(key).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("GetStudentByID %q: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return types.Student{ID: id, Name: name}, nil
}

func (s *SQLite) UpdateStudentByID(id string, name string) (types.Student, error) {
	key, ok := parseID(id)
	if !ok {
		return types.Student{}, fmt.Errorf("UpdateStudentByID %q: %w", id, storage.ErrNotFound)
	}

	stmt, err := s.Db.Prepare("UPDATE students SET name = ? WHERE id = ?")
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(name, key)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	// SQLite counts matched rows, so rewriting the same name still reports 1.
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return types.Student{}, fmt.Errorf("UpdateStudentByID %q: %w", id, storage.ErrNotFound)
	}

	return types.Student{ID: id, Name: name}, nil
}

func (s *SQLite) DeleteStudentByID(id string) (types.Student, error) {
	key, ok := parseID(id)
	if !ok {
		return types.Student{}, fmt.Errorf("DeleteStudentByID %q: %w", id, storage.ErrNotFound)
	}

	tx, err := s.Db.Begin()
	if err != nil {
		return types.Student{}, fmt.Errorf("DeleteStudentByID: begin: %w", err)
	}
	defer tx.Rollback()

	var name string
	err = tx.QueryRow("SELECT name FROM students WHERE id = ?", key).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, fmt.Errorf("DeleteStudentByID %q: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("DeleteStudentByID: select: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM students WHERE id = ?", key); err != nil {
		return types.Student{}, fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return types.Student{}, fmt.Errorf("DeleteStudentByID: commit: %w", err)
	}

	return types.Student{ID: id, Name: name}, nil
}

func (s *SQLite) CountStudents() (int, error) {
	var count int
	if err := s.Db.QueryRow("SELECT COUNT(*) FROM students").Scan(&count); err != nil {
		return 0, fmt.Errorf("CountStudents: %w", err)
	}
	return count, nil
}
