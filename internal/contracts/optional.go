package contracts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Optional is a nullable KPI value.
// The zero value is missing; spreadsheets export missing cells as #N/A.
type Optional struct {
	Value float64
	Valid bool
}

// Some returns a present value
func Some(v float64) Optional {
	return Optional{Value: v, Valid: true}
}

// None returns a missing value
func None() Optional {
	return Optional{}
}

var missingTokens = map[string]struct{}{
	"":        {},
	"#N/A":    {},
	"N/A":     {},
	"NA":      {},
	"NAN":     {},
	"-":       {},
	"--":      {},
	"NULL":    {},
	"#VALUE!": {},
}

var suffixMultipliers = map[byte]decimal.Decimal{
	'K': decimal.New(1, 3),
	'M': decimal.New(1, 6),
	'B': decimal.New(1, 9),
	'T': decimal.New(1, 12),
}

// ParseOptional parses a KPI cell.
// Accepts "$", ",", "%" decoration and K/M/B/T suffixes ("300B" → 3e11).
func ParseOptional(raw string) (Optional, error) {
	s := strings.TrimSpace(raw)
	if _, ok := missingTokens[strings.ToUpper(s)]; ok {
		return None(), nil
	}

	s = strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(s)
	mult := decimal.NewFromInt(1)
	if n := len(s); n > 0 {
		if m, ok := suffixMultipliers[strings.ToUpper(s[n-1:])[0]]; ok {
			mult = m
			s = s[:n-1]
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return None(), fmt.Errorf("not a number: %q", raw)
	}
	return Some(d.Mul(mult).InexactFloat64()), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller
func (o *Optional) UnmarshalCSV(raw string) error {
	v, err := ParseOptional(raw)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// MarshalJSON encodes missing values as null
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON accepts a number or null
func (o *Optional) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func (o Optional) String() string {
	if !o.Valid {
		return "#N/A"
	}
	return decimal.NewFromFloat(o.Value).String()
}
