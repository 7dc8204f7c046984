package history

import (
	"database/sql"
	"fmt"

	"github.com/safespace-app/safespace/internal/models"
)

// scanEntries scans mood history rows shared by the SQL backends.
func scanEntries(rows *sql.Rows) ([]models.MoodHistoryEntry, error) {
	var entries []models.MoodHistoryEntry
	for rows.Next() {
		var e models.MoodHistoryEntry
		err := rows.Scan(
			&e.Assessment.Label,
			&e.Assessment.Intensity,
			&e.Assessment.Confidence,
			&e.Assessment.Source,
			&e.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}
	return entries, nil
}
