package domain

import (
	"encoding/json"
	"regexp"
	"time"
)

// DateLayout is the only accepted deadline format.
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Date is a calendar day without time of day, serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// ParseDate accepts exactly YYYY-MM-DD naming a real calendar day.
func ParseDate(value string) (Date, bool) {
	if !datePattern.MatchString(value) {
		return Date{}, false
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, false
	}
	return Date{Time: t}, true
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParseDate(raw)
	if !ok {
		return Invalid("deadline must be a YYYY-MM-DD date")
	}
	*d = parsed
	return nil
}
