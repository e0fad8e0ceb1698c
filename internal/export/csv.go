// Package export writes the user table to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/naveenspark/saasdash/pkg/domain"
)

// DefaultFilename is used when the caller names no file.
const DefaultFilename = "users_data.csv"

// DateLayout is how registration dates are written.
const DateLayout = "2006-01-02"

var header = []string{"Name", "Email", "Registration Date"}

// WriteUsersCSV writes one header row and one row per user, in the given order.
func WriteUsersCSV(w io.Writer, users []domain.User) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, u := range users {
		date := ""
		if !u.DateOfRegistration.IsZero() {
			date = u.DateOfRegistration.Local().Format(DateLayout)
		}
		if err := cw.Write([]string{u.Name, u.Email, date}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// SaveUsersCSV writes users to path, replacing any existing file.
func SaveUsersCSV(path string, users []domain.User) error {
	if path == "" {
		path = DefaultFilename
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteUsersCSV(f, users); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return f.Close()
}
