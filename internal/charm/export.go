// ABOUTME: Bulk export and import for Charm KV storage.
// ABOUTME: Produces the same ExportData envelope as the SQLite backend.
package charm

import (
	"fmt"

	"github.com/harperreed/lift/internal/storage"
)

// GetAllData retrieves all data for export.
func (c *Client) GetAllData() (*storage.ExportData, error) {
	sessions, err := c.ListSessions(nil, 0)
	if err != nil {
		return nil, err
	}
	sets, err := c.ListSets(storage.SetFilter{})
	if err != nil {
		return nil, err
	}
	return storage.NewExportData(sessions, sets), nil
}

// ImportData imports data from an export file, syncing once at the end.
func (c *Client) ImportData(data *storage.ExportData) error {
	c.SetAutoSync(false)
	defer c.SetAutoSync(true)

	for _, s := range data.Sessions {
		if err := c.CreateSession(s); err != nil {
			return fmt.Errorf("import session: %w", err)
		}
	}
	for _, s := range data.Sets {
		if err := c.CreateSet(s); err != nil {
			return fmt.Errorf("import set: %w", err)
		}
	}

	return c.Sync()
}
