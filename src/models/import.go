// backend/src/models/import.go
package models

import "time"

// ImportRecord describes one processed CSV upload.
type ImportRecord struct {
	ID             string    `json:"id"`
	Source         string    `json:"source"`
	Filename       string    `json:"filename"`
	Filesize       int64     `json:"filesize"`
	RowsParsed     int       `json:"rows_parsed"`
	TradesImported int       `json:"trades_imported"`
	Skipped        int       `json:"skipped"`
	CreatedAt      time.Time `json:"created_at"`
}
