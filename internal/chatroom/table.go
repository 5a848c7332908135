package chatroom

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// tableHeader is the column layout of the chatroom mapping table.
var tableHeader = []string{"ID", "Name", "Status"}

// WriteTable writes the full chatroom mapping table to a CSV file at path,
// header first, replacing any existing file. The table is written once per
// run; there is no append mode.
func WriteTable(path string, records []Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating mapping table %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing mapping table %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(tableHeader); err != nil {
		return fmt.Errorf("writing mapping table header: %w", err)
	}

	for _, rec := range records {
		row := []string{rec.ID, rec.Name, strconv.Itoa(int(rec.Status))}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing mapping table row for %s: %w", rec.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing mapping table: %w", err)
	}

	return nil
}

// ReadTable reads the full chatroom mapping table into memory. Rows with a
// status other than 1 (joined) or 2 (exited) are rejected; the table is
// operator-maintained and a bad status means a typo worth surfacing.
func ReadTable(path string) (_ []Record, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mapping table %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing mapping table %s: %w", path, cerr)
		}
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(tableHeader)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading mapping table %s: %w", path, err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] { // skip header
		status, err := strconv.Atoi(row[2])
		if err != nil || (Status(status) != StatusJoined && Status(status) != StatusExited) {
			return nil, fmt.Errorf("mapping table %s row %d: invalid status %q", path, i+2, row[2])
		}

		records = append(records, Record{
			ID:     row[0],
			Name:   row[1],
			Status: Status(status),
		})
	}

	return records, nil
}
