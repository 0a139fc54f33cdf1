package cycle

import (
	"database/sql"
	"time"
)

// Entry represents a single logged period.
// Corresponds to the 'cycle_entries' table.
type Entry struct {
	ID        int64
	UserID    int64
	StartDate time.Time    // Date the period began (date precision)
	EndDate   sql.NullTime // Optional; set once the period ends
	CreatedAt time.Time
}
