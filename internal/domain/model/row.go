package model

import "time"

// EvaluationRow is one line of the roster: a student plus the teacher's raw
// observation notes and the drafted evaluation text (empty until generated
// or filled in by hand).
type EvaluationRow struct {
	ID           int64
	StudentName  string
	Observations string
	Draft        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DraftRequest carries the inputs for one draft-generation call.
type DraftRequest struct {
	StudentName  string
	Observations string
	Tone         Tone
}
