package clinic

import (
	"database/sql"
	"time"
)

// Clinic is the tenant: the unit of subscription and reminder-quota isolation.
// Quota fields are written only by the quota cycle job (reset) and the
// dispatch job (increment on a successful send); everything else is managed
// by the CRUD API.
type Clinic struct {
	ID                     int64
	Name                   string
	Phone                  string // shown in reminder messages, may be blank
	IsActive               bool
	SubscriptionEndDate    sql.NullTime
	CanSendReminders       bool
	Timezone               string // IANA name; empty or invalid means UTC
	ReminderMonthlyLimit   int    // 0 = disabled, > 0 = limited, < 0 = unlimited
	RemindersSentThisCycle int
	CurrentCycleStartDate  sql.NullTime // null until a subscription first starts a cycle
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// SubscriptionActive reports whether the clinic has a subscription that has
// not ended as of now.
func (c *Clinic) SubscriptionActive(now time.Time) bool {
	return c.SubscriptionEndDate.Valid && !c.SubscriptionEndDate.Time.Before(now)
}

// QuotaExhausted reports whether no further reminder may be sent in the
// current cycle. A limit of 0 hard-disables sending; a negative limit means
// unlimited.
func (c *Clinic) QuotaExhausted() bool {
	if c.ReminderMonthlyLimit == 0 {
		return true
	}
	return c.ReminderMonthlyLimit > 0 && c.RemindersSentThisCycle >= c.ReminderMonthlyLimit
}

// NextCycleStart returns the start of day one calendar month after the
// current cycle started. The second return is false when no cycle has ever
// started.
func (c *Clinic) NextCycleStart() (time.Time, bool) {
	if !c.CurrentCycleStartDate.Valid {
		return time.Time{}, false
	}
	return StartOfDayUTC(c.CurrentCycleStartDate.Time.AddDate(0, 1, 0)), true
}

// CycleElapsed reports whether a full cycle month has passed, i.e. the quota
// window is due for a reset.
func (c *Clinic) CycleElapsed(now time.Time) bool {
	next, ok := c.NextCycleStart()
	if !ok {
		return false
	}
	return !StartOfDayUTC(now).Before(next)
}

// StartOfDayUTC truncates an instant to UTC midnight. Cycle anchors are
// compared at day granularity, never by raw instant.
func StartOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
