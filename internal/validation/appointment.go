package validation

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/harentsoaR/appointments-api/internal/models"
)

// ValidationError is a client input defect. Its text is safe to return to
// the caller as-is.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	ErrMalformedJSON ValidationError = "Body must be valid JSON."
	ErrMissingFields ValidationError = "All fields are required."
	ErrInvalidDate   ValidationError = "Date and time must be valid."
)

// dateLayouts are tried in order before falling back to dateparse.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
}

// DecodeCreatePayload reads a create request body. An empty body is treated
// as an empty object. Valid JSON that is not an object yields an input with
// every field empty.
func DecodeCreatePayload(body []byte) (models.AppointmentInput, error) {
	var in models.AppointmentInput
	if len(body) == 0 {
		return in, nil
	}
	if !json.Valid(body) {
		return in, ErrMalformedJSON
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return in, nil
	}

	in.PatientName = stringField(fields, "patientName")
	in.DoctorName = stringField(fields, "doctorName")
	in.DateTime = stringField(fields, "dateTime")
	in.Reason = stringField(fields, "reason")
	return in, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// ValidateCreate trims every field and checks the create rules: all four
// fields present, then a parseable date/time. The trimmed values are
// returned verbatim; the date is not canonicalized.
func ValidateCreate(in models.AppointmentInput) (models.AppointmentInput, error) {
	out := models.AppointmentInput{
		PatientName: strings.TrimSpace(in.PatientName),
		DoctorName:  strings.TrimSpace(in.DoctorName),
		DateTime:    strings.TrimSpace(in.DateTime),
		Reason:      strings.TrimSpace(in.Reason),
	}

	if out.PatientName == "" || out.DoctorName == "" || out.DateTime == "" || out.Reason == "" {
		return models.AppointmentInput{}, ErrMissingFields
	}

	if !IsValidDateTime(out.DateTime) {
		return models.AppointmentInput{}, ErrInvalidDate
	}

	return out, nil
}

// IsValidDateTime reports whether value parses as a calendar date/time.
func IsValidDateTime(value string) bool {
	// Every calendar date carries at least one digit.
	if !strings.ContainsAny(value, "0123456789") {
		return false
	}

	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}

	// dateparse reads bare fragments such as "12:" or "1.5" as times, so the
	// fallback needs a date part: a four-digit year, or day, month and year
	// as separate numbers.
	groups := digitGroups.FindAllString(value, -1)
	if len(groups) < 2 {
		return false
	}
	if len(groups) < 3 && !hasYear(groups) {
		return false
	}
	_, err := dateparse.ParseAny(value)
	return err == nil
}

var digitGroups = regexp.MustCompile(`[0-9]+`)

func hasYear(groups []string) bool {
	for _, g := range groups {
		if len(g) == 4 {
			return true
		}
	}
	return false
}
