// Package sqldbtest opens throwaway SQLite stores for tests.
package sqldbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harsha/subjects-api/internal/config"
	"github.com/harsha/subjects-api/internal/storage/sqldb"
)

// New returns an empty store backed by a file in t.TempDir().
// The store is closed when the test ends.
func New(t testing.TB) *sqldb.Store {
	t.Helper()

	cfg := &config.Config{}
	cfg.Storage.Driver = "sqlite3"
	cfg.Storage.DSN = filepath.Join(t.TempDir(), "subjects.db")

	s, err := sqldb.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

// Seeded returns a store holding a small fixed data set:
//
//	Users:      1 Ada (lecturer), 2 Alan (lecturer), 3 Grace, 4 Linus
//	Subjects:   1 Maths (Ada), 2 Physics (Ada), 3 Logic (Alan), 4 Art (no lecturer)
//	Enrolment:  Grace → Maths, Physics;  Linus → Logic, Logic (enrolled twice)
func Seeded(t testing.TB) *sqldb.Store {
	t.Helper()

	s := New(t)
	for _, stmt := range []string{
		`INSERT INTO Users (UserID, UserName) VALUES (1, 'Ada'), (2, 'Alan'), (3, 'Grace'), (4, 'Linus')`,
		`INSERT INTO Subjects (SubjectID, SubjectName, SubjectImageURL, SubjectLecturerID) VALUES
			(1, 'Maths',   'https://img.example.com/maths.png', 1),
			(2, 'Physics', NULL, 1),
			(3, 'Logic',   NULL, 2),
			(4, 'Art',     NULL, NULL)`,
		`INSERT INTO Userenrollment (UserenrollmentUserID, UserenrollmentSubjectID) VALUES
			(3, 1), (3, 2), (4, 3), (4, 3)`,
	} {
		s.Db.MustExec(stmt)
	}

	return s
}
