package owner

import (
	"database/sql"
	"time"
)

// Owner is a pet owner registered with exactly one clinic.
type Owner struct {
	ID                      int64
	ClinicID                int64
	FirstName               string
	LastName                sql.NullString
	Phone                   string // free text, may be blank or malformed
	AllowAutomatedReminders bool   // consent flag for the reminder channel
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
