package api

import (
	"encoding/json"
	"math"
)

// Coefficient is a correlation coefficient that encodes NaN and ±Inf as JSON null,
// since encoding/json cannot represent them.
type Coefficient float64

// MarshalJSON implements json.Marshaler.
func (c Coefficient) MarshalJSON() ([]byte, error) {
	f := float64(c)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON implements json.Unmarshaler; null decodes to NaN.
func (c *Coefficient) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = Coefficient(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = Coefficient(f)
	return nil
}
