package nutrition

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Entry is one logged food consumption record. Entries are immutable once
// appended to a Log.
type Entry struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Cal  float64 `json:"cal"`
	Pro  float64 `json:"pro"`
	Carb float64 `json:"carb"`
	Fat  float64 `json:"fat"`
}

// LoggedAt returns the creation time encoded in the entry ID.
func (e Entry) LoggedAt() time.Time {
	return time.UnixMilli(e.ID)
}

// UnmarshalJSON decodes an entry leniently: nutrient fields that are
// missing, null, non-numeric or negative decode to 0.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   amount          `json:"id"`
		Name json.RawMessage `json:"name"`
		Cal  amount          `json:"cal"`
		Pro  amount          `json:"pro"`
		Carb amount          `json:"carb"`
		Fat  amount          `json:"fat"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var name string
	if err := json.Unmarshal(raw.Name, &name); err != nil {
		name = ""
	}

	*e = Entry{
		ID:   entryID(float64(raw.ID)),
		Name: name,
		Cal:  float64(raw.Cal),
		Pro:  float64(raw.Pro),
		Carb: float64(raw.Carb),
		Fat:  float64(raw.Fat),
	}
	return nil
}

// entryID converts a decoded id, treating values that do not fit in an
// int64 as 0.
func entryID(v float64) int64 {
	v = math.Trunc(v)
	if v < 0 || v >= math.MaxInt64 {
		return 0
	}
	return int64(v)
}

// amount accepts JSON numbers and numeric strings. Anything else is 0.
type amount float64

func (a *amount) UnmarshalJSON(data []byte) error {
	*a = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*a = amount(ParseAmount(s))
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*a = amount(sanitize(f))
	}
	return nil
}

// Item is the input to Log.Append.
type Item struct {
	Name string
	Cal  float64
	Pro  float64
	Carb float64
	Fat  float64
}

// ParseItem builds an Item from raw form values. Each amount is parsed with
// ParseAmount.
func ParseItem(name, cal, pro, carb, fat string) Item {
	return Item{
		Name: name,
		Cal:  ParseAmount(cal),
		Pro:  ParseAmount(pro),
		Carb: ParseAmount(carb),
		Fat:  ParseAmount(fat),
	}
}

func (i Item) normalized() Item {
	i.Cal = sanitize(i.Cal)
	i.Pro = sanitize(i.Pro)
	i.Carb = sanitize(i.Carb)
	i.Fat = sanitize(i.Fat)
	return i
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseAmount reads the leading decimal number of s ("12.5g" is 12.5).
// Empty, unparseable, non-finite or negative input yields 0.
func ParseAmount(s string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return sanitize(f)
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
