// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

// Subject is a row of the Subjects table joined with the lecturer's name
// from Users.
//
// The JSON keys deliberately mirror the database column names
// (SubjectID, SubjectName, ...) because API consumers already expect
// that shape. The db:"..." tags tell sqlx which SELECT column fills
// which field.
//
// Nullable columns are pointers: a subject may have no image and no
// lecturer, and the LEFT JOIN then yields a NULL lecturer name. A nil
// pointer encodes to JSON null.
type Subject struct {
	SubjectID           int64   `json:"SubjectID"           db:"SubjectID"`
	SubjectName         string  `json:"SubjectName"         db:"SubjectName"`
	SubjectImageURL     *string `json:"SubjectImageURL"     db:"SubjectImageURL"`
	SubjectLecturerID   *int64  `json:"SubjectLecturerID"   db:"SubjectLecturerID"`
	SubjectLecturerName *string `json:"SubjectLecturerName" db:"SubjectLecturerName"`
}

// SubjectInput is the writable part of a Subject, decoded from the body
// of POST /api/subjects and PUT /api/subjects/{id}.
//
// The form:"..." tags are used when the body arrives URL-encoded
// (application/x-www-form-urlencoded) instead of as JSON.
type SubjectInput struct {
	SubjectName       string  `json:"SubjectName"       form:"SubjectName"       validate:"required"`
	SubjectImageURL   *string `json:"SubjectImageURL"   form:"SubjectImageURL"`
	SubjectLecturerID *int64  `json:"SubjectLecturerID" form:"SubjectLecturerID" validate:"omitempty,gt=0"`
}

// Addition is the body returned by GET /add/{var1},{var2}.
// The operands are echoed back exactly as they appeared in the URL.
type Addition struct {
	Operation string `json:"operation"`
	Operand1  string `json:"operand1"`
	Operand2  string `json:"operand2"`
	Result    int64  `json:"result"`
	Message   string `json:"message"`
}
