package cases

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aria/video-analyzer/internal/videosource"
)

// ImportFile upserts the records of a JSON array file in the same shape the
// API serves. Records are checked before any is written, so a bad file leaves
// the store untouched. It returns the number of records written.
func ImportFile(ctx context.Context, repo Repository, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read cases file: %w", err)
	}

	var records []*Case
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("parse cases file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(records))
	for i, c := range records {
		if c == nil || c.ID == "" {
			return 0, fmt.Errorf("cases file %s: record %d has no id", path, i)
		}
		if seen[c.ID] {
			return 0, fmt.Errorf("cases file %s: duplicate id %s", path, c.ID)
		}
		seen[c.ID] = true
		if _, err := videosource.Resolve(c.Video); err != nil {
			return 0, fmt.Errorf("cases file %s: case %s: %w", path, c.ID, err)
		}
	}

	// Later records sort after earlier ones in the list.
	base := time.Now().UTC().Truncate(time.Second)
	for i, c := range records {
		if c.Subject == "" {
			c.Subject = "Subject " + c.ID
		}
		c.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := repo.UpsertCase(ctx, c); err != nil {
			return i, fmt.Errorf("import case %s: %w", c.ID, err)
		}
	}
	return len(records), nil
}
