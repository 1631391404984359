package domain

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Employee is the only managed record of the admin service.
type Employee struct {
	ID        int64
	Name      string
	Email     string
	Role      string
	Company   string
	JoinDate  time.Time
	Salary    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JoinDateString renders JoinDate without its time-of-day component.
func (e *Employee) JoinDateString() string {
	return FormatDate(e.JoinDate)
}

// MarshalBinary lets go-redis store the employee as JSON.
func (e *Employee) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Employee) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}

// FormatDate returns the UTC calendar date of t.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate accepts either a plain date or an RFC3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
