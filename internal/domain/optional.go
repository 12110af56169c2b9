package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// OptionalNumber is a number the client may or may not have sent. Absent,
// null and empty string all leave it unset; zero is a real value.
type OptionalNumber struct {
	Value float64
	Set   bool
}

// Some returns a set OptionalNumber holding v.
func Some(v float64) OptionalNumber {
	return OptionalNumber{Value: v, Set: true}
}

// UnmarshalJSON accepts JSON numbers and numeric strings.
func (o *OptionalNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*o = OptionalNumber{}
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*o = Some(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a number, got %s", data)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*o = OptionalNumber{}
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("expected a number, got %q", s)
	}
	*o = Some(n)
	return nil
}

func (o OptionalNumber) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return jsonNull, nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns nil for an unset number, otherwise a pointer to a copy of it.
func (o OptionalNumber) Ptr() *float64 {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}
