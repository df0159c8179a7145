package model

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field names used by the portal's report card payload.
const (
	fieldUser         = "user"
	fieldCourses      = "courses"
	fieldFirstName    = "firstname"
	fieldLastName     = "lastname"
	fieldNationalCode = "nationalcode"
	fieldSchoolName   = "school_name"
	fieldCourseTitle  = "course_title"
	fieldFinalGrade   = "nimeh2_final"
	fieldMidTermGrade = "mostamar2"
	fieldSteps        = "steps"
	fieldStepBy       = "by"
	fieldStepCreated  = "cr"
	fieldStepAction   = "what_did_we_do"
)

var leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// getObject returns nil when raw is not a JSON object.
func getObject(raw json.RawMessage) map[string]json.RawMessage {
	var obj map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &obj) != nil {
		return nil
	}
	return obj
}

// getArray reports false when raw is not a JSON array.
func getArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	var arr []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &arr) != nil {
		return nil, false
	}
	return arr, true
}

// getString accepts strings and numbers; everything else reads as "".
func getString(m map[string]json.RawMessage, key string) string {
	raw, ok := m[key]
	if !ok || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// getGrade returns nil for absent, null and non-numeric values.
func getGrade(m map[string]json.RawMessage, key string) *float64 {
	raw, ok := m[key]
	if !ok || isNull(raw) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return parseFloat(s)
}

// parseFloat reads the longest numeric prefix, ignoring leading whitespace.
func parseFloat(s string) *float64 {
	prefix := leadingFloat.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return nil
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return nil
	}
	return &f
}

// getTimestamp yields the zero time for anything it cannot parse.
func getTimestamp(m map[string]json.RawMessage, key string) time.Time {
	raw, ok := m[key]
	if !ok || isNull(raw) {
		return time.Time{}
	}

	var millis float64
	if err := json.Unmarshal(raw, &millis); err == nil {
		return time.UnixMilli(int64(millis)).UTC()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
