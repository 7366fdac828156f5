package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringSlice stores a list of short values (profile skills) as a single
// comma separated column. Elements are trimmed and empty ones dropped.
type StringSlice []string

// Value implements the driver.Valuer interface.
// Due to commas being the separator no element may include a comma
func (s StringSlice) Value() (driver.Value, error) {
	out := make([]string, 0, len(s))

	for _, v := range s {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		if strings.Contains(v, ",") {
			return nil, fmt.Errorf("unsafe string, %q", v)
		}

		out = append(out, v)
	}

	return strings.Join(out, ","), nil
}

// Scan implements the sql.Scanner interface.
func (s *StringSlice) Scan(value any) error {
	var str string

	switch val := value.(type) {
	case nil:
		*s = StringSlice{}
		return nil
	case string:
		str = val
	case []byte:
		str = string(val)
	default:
		return fmt.Errorf("failed to scan StringSlice, %v", value)
	}

	if str == "" {
		*s = StringSlice{}
		return nil
	}

	parts := strings.Split(str, ",")
	res := make(StringSlice, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}

	*s = res
	return nil
}

// GormDataType keeps the column a plain text column on every dialect
func (StringSlice) GormDataType() string {
	return "text"
}
