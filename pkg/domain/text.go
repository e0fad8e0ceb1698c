package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Text is a display string decoded from either a JSON string or a JSON number.
// The API is not consistent about fields such as session duration.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("domain.Text: %w", err)
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }
