package intake

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Flex accepts a JSON string, number or null and keeps its text form.
// Browsers send numeric form fields either way.
type Flex struct {
	Raw   string
	Valid bool
}

// FlexOf builds a present Flex value.
func FlexOf(s string) Flex { return Flex{Raw: s, Valid: true} }

func (f *Flex) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = Flex{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexOf(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexOf(n.String())
	return nil
}

func (f Flex) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Raw)
}

// PositiveInt parses the value as an integer >= 1.
// Decimal forms such as "5.0" are truncated the way parseInt does.
func (f Flex) PositiveInt() (int, bool) {
	if !f.Valid {
		return 0, false
	}
	s := strings.TrimSpace(f.Raw)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
