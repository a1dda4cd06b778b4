package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSONB maps a Postgres jsonb column onto a Go map. GORM needs Valuer/Scanner
// for the round trip; reads done through Raw() scan into json.RawMessage
// instead and never touch this type.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = JSONB{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("jsonb scan: unsupported source type %T", src)
	}
	if len(b) == 0 {
		*j = JSONB{}
		return nil
	}
	if err := json.Unmarshal(b, j); err != nil {
		return errors.New("jsonb scan: " + err.Error())
	}
	return nil
}
