package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/lib/pq"
)

// StringSlice mapea columnas text[] de PostgreSQL a []string.
type StringSlice []string

func (s *StringSlice) Scan(src interface{}) error {
	arr := pq.StringArray{}
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("string slice: scan %w", err)
	}
	*s = []string(arr)
	return nil
}

func (s StringSlice) Value() (driver.Value, error) {
	return pq.StringArray(s).Value()
}
