// Package sqldb implements storage.Storage on top of database/sql.
//
// Two drivers are supported:
//
//	sqlite3 — github.com/mattn/go-sqlite3, a single file on disk; the default
//	mysql   — github.com/go-sql-driver/mysql, for a shared database server
//
// Both use ? placeholders and report LastInsertId, so the statements from
// package query run unchanged on either. Only the schema DDL differs.
//
// sqlx sits on top of *sql.DB and scans rows straight into
// []types.Subject by matching column names to db:"..." tags.
package sqldb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harsha/subjects-api/internal/config"
	"github.com/harsha/subjects-api/internal/storage"
	"github.com/harsha/subjects-api/internal/storage/query"
	"github.com/harsha/subjects-api/internal/types"
)

// Store is the concrete implementation of storage.Storage.
// *sqlx.DB wraps a *sql.DB connection pool and is safe for concurrent use.
type Store struct {
	Db *sqlx.DB
}

// New opens the database described by cfg.Storage, creates the tables
// if they do not exist yet, and returns a ready-to-use *Store.
func New(cfg *config.Config) (*Store, error) {
	d, ok := dialects[cfg.Storage.Driver]
	if !ok {
		return nil, fmt.Errorf("sqldb.New: unsupported driver %q", cfg.Storage.Driver)
	}

	if err := d.prepare(cfg.Storage.DSN); err != nil {
		return nil, fmt.Errorf("sqldb.New: prepare: %w", err)
	}

	db, err := sqlx.Open(cfg.Storage.Driver, d.dsn(cfg.Storage.DSN))
	if err != nil {
		return nil, fmt.Errorf("sqldb.New: open db: %w", err)
	}

	// sqlx.Open only validates the DSN; Ping makes an unreachable server
	// fail here with its real cause.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqldb.New: ping: %w", err)
	}

	// Statements are executed one at a time: the MySQL driver rejects
	// multi-statement strings unless multiStatements=true is set.
	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqldb.New: create schema: %w", err)
		}
	}

	return &Store{Db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.Db.Close()
}

// GetSubjects runs the SELECT built for sel and returns every row.
// Zero rows is reported as storage.ErrNotFound.
func (s *Store) GetSubjects(ctx context.Context, sel query.Selector) ([]types.Subject, error) {
	sqlStr, args, err := query.SelectSubjects(sel)
	if err != nil {
		return nil, fmt.Errorf("GetSubjects: build: %w", err)
	}

	subjects := make([]types.Subject, 0)
	if err := s.Db.SelectContext(ctx, &subjects, sqlStr, args...); err != nil {
		return nil, &storage.QueryError{Op: "GetSubjects: select " + sel.Variant.String(), Err: err}
	}

	if len(subjects) == 0 {
		return nil, storage.ErrNotFound
	}

	return subjects, nil
}

// CreateSubject inserts in and re-reads the new row by its generated id,
// so the caller sees exactly what is stored, lecturer name included.
func (s *Store) CreateSubject(ctx context.Context, in types.SubjectInput) (types.Subject, error) {
	sqlStr, args, err := query.InsertSubject(in)
	if err != nil {
		return types.Subject{}, fmt.Errorf("CreateSubject: build: %w", err)
	}

	result, err := s.Db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return types.Subject{}, &storage.QueryError{Op: "CreateSubject: exec", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return types.Subject{}, fmt.Errorf("CreateSubject: last insert id: %w", err)
	}

	return s.getOne(ctx, id)
}

// UpdateSubject overwrites the writable fields of subject id and re-reads
// the row. RowsAffected is not consulted: MySQL reports 0 when the new
// values equal the old ones, so existence is decided by the re-read.
func (s *Store) UpdateSubject(ctx context.Context, id int64, in types.SubjectInput) (types.Subject, error) {
	sqlStr, args, err := query.UpdateSubject(id, in)
	if err != nil {
		return types.Subject{}, fmt.Errorf("UpdateSubject: build: %w", err)
	}

	if _, err := s.Db.ExecContext(ctx, sqlStr, args...); err != nil {
		return types.Subject{}, &storage.QueryError{Op: "UpdateSubject: exec", Err: err}
	}

	return s.getOne(ctx, id)
}

func (s *Store) getOne(ctx context.Context, id int64) (types.Subject, error) {
	subjects, err := s.GetSubjects(ctx, query.SubjectByID(id))
	if err != nil {
		return types.Subject{}, err
	}
	return subjects[0], nil
}

// dialect holds what differs between the supported drivers.
type dialect struct {
	prepare func(dsn string) error
	dsn     func(string) string
	schema  []string
}

var dialects = map[string]dialect{
	"sqlite3": {
		// The driver creates the .db file but not its parent directory.
		prepare: func(dsn string) error {
			if strings.HasPrefix(dsn, "file:") || strings.HasPrefix(dsn, ":memory:") {
				return nil
			}
			path, _, _ := strings.Cut(dsn, "?")
			return os.MkdirAll(filepath.Dir(path), 0o755)
		},
		// SQLite ignores REFERENCES clauses unless foreign keys are
		// switched on for each connection.
		dsn: func(dsn string) string {
			if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
				return dsn
			}
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			return dsn + sep + "_foreign_keys=on"
		},
		schema: []string{
			`CREATE TABLE IF NOT EXISTS Users (
				UserID   INTEGER PRIMARY KEY AUTOINCREMENT,
				UserName TEXT    NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS Subjects (
				SubjectID         INTEGER PRIMARY KEY AUTOINCREMENT,
				SubjectName       TEXT    NOT NULL,
				SubjectImageURL   TEXT,
				SubjectLecturerID INTEGER REFERENCES Users(UserID)
			)`,
			`CREATE TABLE IF NOT EXISTS Userenrollment (
				UserenrollmentID        INTEGER PRIMARY KEY AUTOINCREMENT,
				UserenrollmentUserID    INTEGER NOT NULL REFERENCES Users(UserID),
				UserenrollmentSubjectID INTEGER NOT NULL REFERENCES Subjects(SubjectID)
			)`,
		},
	},
	"mysql": {
		prepare: func(string) error { return nil },
		dsn:     func(dsn string) string { return dsn },
		schema: []string{
			`CREATE TABLE IF NOT EXISTS Users (
				UserID   INT          NOT NULL AUTO_INCREMENT PRIMARY KEY,
				UserName VARCHAR(255) NOT NULL
			) ENGINE=InnoDB`,
			`CREATE TABLE IF NOT EXISTS Subjects (
				SubjectID         INT          NOT NULL AUTO_INCREMENT PRIMARY KEY,
				SubjectName       VARCHAR(255) NOT NULL,
				SubjectImageURL   VARCHAR(1024),
				SubjectLecturerID INT,
				FOREIGN KEY (SubjectLecturerID) REFERENCES Users(UserID)
			) ENGINE=InnoDB`,
			`CREATE TABLE IF NOT EXISTS Userenrollment (
				UserenrollmentID        INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
				UserenrollmentUserID    INT NOT NULL,
				UserenrollmentSubjectID INT NOT NULL,
				FOREIGN KEY (UserenrollmentUserID)    REFERENCES Users(UserID),
				FOREIGN KEY (UserenrollmentSubjectID) REFERENCES Subjects(SubjectID)
			) ENGINE=InnoDB`,
		},
	},
}
