// Package query builds the SQL statements used by the storage layer.
//
// Every function here is pure: it turns Go values into SQL text plus a
// slice of bound arguments and never touches a database. Values are
// always passed as ? placeholders, never spliced into the SQL string.
package query

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/harsha/subjects-api/internal/types"
)

// Variant selects the WHERE/JOIN shape of a subject query.
type Variant int

const (
	// All returns every subject.
	All Variant = iota
	// ByID returns the subject with a given SubjectID.
	ByID
	// ByLecturer returns the subjects taught by a given user.
	ByLecturer
	// ByEnrolledUser returns the subjects a given user is enrolled in,
	// joined through Userenrollment.
	ByEnrolledUser
)

func (v Variant) String() string {
	switch v {
	case All:
		return "all"
	case ByID:
		return "by-id"
	case ByLecturer:
		return "by-lecturer"
	case ByEnrolledUser:
		return "by-enrolled-user"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Selector is a Variant plus the id it filters on.
// ID is ignored for All.
type Selector struct {
	Variant Variant
	ID      int64
}

// AllSubjects selects every subject.
func AllSubjects() Selector { return Selector{Variant: All} }

// SubjectByID selects the subject with the given id.
func SubjectByID(id int64) Selector { return Selector{Variant: ByID, ID: id} }

// SubjectsByLecturer selects the subjects taught by lecturer id.
func SubjectsByLecturer(id int64) Selector { return Selector{Variant: ByLecturer, ID: id} }

// SubjectsByEnrolledUser selects the subjects user id is enrolled in.
func SubjectsByEnrolledUser(id int64) Selector {
	return Selector{Variant: ByEnrolledUser, ID: id}
}

// Table and column names. MySQL and SQLite both return the alias
// verbatim, which is what the db:"..." tags on types.Subject match.
const (
	subjectsTable   = "Subjects"
	enrollmentTable = "Userenrollment"

	lecturerJoin   = "Users ON Subjects.SubjectLecturerID = Users.UserID"
	enrollmentJoin = "Subjects ON Userenrollment.UserenrollmentSubjectID = Subjects.SubjectID"
)

var subjectColumns = []string{
	"Subjects.SubjectID AS SubjectID",
	"Subjects.SubjectName AS SubjectName",
	"Subjects.SubjectImageURL AS SubjectImageURL",
	"Subjects.SubjectLecturerID AS SubjectLecturerID",
	"Users.UserName AS SubjectLecturerName",
}

// SelectSubjects builds the SELECT for sel. The lecturer's name is always
// left-joined in, so subjects without a lecturer are still returned.
func SelectSubjects(sel Selector) (string, []any, error) {
	var b sq.SelectBuilder

	switch sel.Variant {
	case All:
		b = sq.Select(subjectColumns...).
			From(subjectsTable).
			LeftJoin(lecturerJoin)
	case ByID:
		b = sq.Select(subjectColumns...).
			From(subjectsTable).
			LeftJoin(lecturerJoin).
			Where(sq.Eq{"Subjects.SubjectID": sel.ID})
	case ByLecturer:
		b = sq.Select(subjectColumns...).
			From(subjectsTable).
			LeftJoin(lecturerJoin).
			Where(sq.Eq{"Subjects.SubjectLecturerID": sel.ID})
	case ByEnrolledUser:
		b = sq.Select(subjectColumns...).
			From(enrollmentTable).
			Join(enrollmentJoin).
			LeftJoin(lecturerJoin).
			Where(sq.Eq{"Userenrollment.UserenrollmentUserID": sel.ID})
	default:
		return "", nil, fmt.Errorf("SelectSubjects: unknown variant %s", sel.Variant)
	}

	return b.OrderBy("Subjects.SubjectID").ToSql()
}

// InsertSubject builds the INSERT for a new subject.
func InsertSubject(in types.SubjectInput) (string, []any, error) {
	return sq.Insert(subjectsTable).
		Columns("SubjectName", "SubjectImageURL", "SubjectLecturerID").
		Values(in.SubjectName, in.SubjectImageURL, in.SubjectLecturerID).
		ToSql()
}

// UpdateSubject builds the UPDATE that overwrites the writable fields of
// subject id. Nil pointers in `in` write NULL.
func UpdateSubject(id int64, in types.SubjectInput) (string, []any, error) {
	return sq.Update(subjectsTable).
		Set("SubjectName", in.SubjectName).
		Set("SubjectImageURL", in.SubjectImageURL).
		Set("SubjectLecturerID", in.SubjectLecturerID).
		Where(sq.Eq{"SubjectID": id}).
		ToSql()
}
