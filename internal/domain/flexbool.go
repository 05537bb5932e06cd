package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// FlexBool scans loosely-typed boolean columns. Imported content stores
// correctness flags variously as 0/1 integers, "0"/"1" strings, "true", or
// real booleans; the conversion happens once here at the mapping boundary so
// nothing deeper in the call chain compares loosely.
type FlexBool bool

// Scan implements sql.Scanner.
func (b *FlexBool) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*b = false
	case bool:
		*b = FlexBool(v)
	case int64:
		*b = v != 0
	case float64:
		*b = v != 0
	case []byte:
		return b.scanString(string(v))
	case string:
		return b.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into FlexBool", src)
	}
	return nil
}

func (b *FlexBool) scanString(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "f":
		*b = false
	case "1", "true", "t":
		*b = true
	default:
		return fmt.Errorf("cannot scan %q into FlexBool", s)
	}
	return nil
}

// Value implements driver.Valuer, always writing a real boolean.
func (b FlexBool) Value() (driver.Value, error) {
	return bool(b), nil
}

// Bool returns the plain boolean value.
func (b FlexBool) Bool() bool {
	return bool(b)
}
