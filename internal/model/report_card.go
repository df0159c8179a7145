package model

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"
	"time"
)

// NotAvailable is returned by accessors whose source field is missing.
const NotAvailable = "N/A"

// HistoryEntry is one step in a course grade's audit trail.
type HistoryEntry struct {
	By     string    `json:"by"`
	Date   time.Time `json:"date"`
	Action string    `json:"action"`
}

// Course is a normalized course record. Nil grades are absent.
type Course struct {
	Title        string         `json:"title"`
	FinalGrade   *float64       `json:"final_grade"`
	MidTermGrade *float64       `json:"mid_term_grade"`
	History      []HistoryEntry `json:"history"`
}

// Summary is a display-ready snapshot of a report card.
type Summary struct {
	FullName     string   `json:"full_name"`
	NationalCode string   `json:"national_code"`
	SchoolName   string   `json:"school_name"`
	Courses      []Course `json:"courses"`
	GPA          *float64 `json:"gpa"`
}

// ReportCard wraps the decrypted report card payload. Every accessor is
// computed from the payload on demand and never fails: missing or
// malformed fields fall back to empty values.
type ReportCard struct {
	raw     json.RawMessage
	student map[string]json.RawMessage
	courses []json.RawMessage
}

func NewReportCard(raw json.RawMessage) *ReportCard {
	rc := &ReportCard{raw: append(json.RawMessage(nil), raw...)}

	root := getObject(rc.raw)
	if users, ok := getArray(root[fieldUser]); ok && len(users) > 0 {
		rc.student = getObject(users[0])
	}
	rc.courses, _ = getArray(root[fieldCourses])

	return rc
}

// Raw returns a copy of the payload the report card was built from.
func (rc *ReportCard) Raw() json.RawMessage {
	return append(json.RawMessage(nil), rc.raw...)
}

func (rc *ReportCard) FullName() string {
	first := getString(rc.student, fieldFirstName)
	last := getString(rc.student, fieldLastName)
	return strings.TrimSpace(first + " " + last)
}

func (rc *ReportCard) NationalCode() string {
	return valueOrNotAvailable(getString(rc.student, fieldNationalCode))
}

func (rc *ReportCard) SchoolName() string {
	return valueOrNotAvailable(getString(rc.student, fieldSchoolName))
}

// Grades returns one Course per source record, in source order.
func (rc *ReportCard) Grades() []Course {
	courses := make([]Course, 0, len(rc.courses))
	for _, raw := range rc.courses {
		fields := getObject(raw)
		courses = append(courses, Course{
			Title:        strings.TrimSpace(getString(fields, fieldCourseTitle)),
			FinalGrade:   getGrade(fields, fieldFinalGrade),
			MidTermGrade: getGrade(fields, fieldMidTermGrade),
			History:      parseSteps(fields[fieldSteps]),
		})
	}
	return courses
}

// GPA is the mean final grade rounded to two decimals. It reports false
// when no course has a final grade.
func (rc *ReportCard) GPA() (float64, bool) {
	var total float64
	var graded int
	for _, course := range rc.Grades() {
		if course.FinalGrade == nil || math.IsNaN(*course.FinalGrade) {
			continue
		}
		total += *course.FinalGrade
		graded++
	}

	if graded == 0 {
		return 0, false
	}
	return roundCents(total / float64(graded)), true
}

func (rc *ReportCard) Summary() Summary {
	s := Summary{
		FullName:     rc.FullName(),
		NationalCode: rc.NationalCode(),
		SchoolName:   rc.SchoolName(),
		Courses:      rc.Grades(),
	}
	if gpa, ok := rc.GPA(); ok {
		s.GPA = &gpa
	}
	return s
}

func parseSteps(raw json.RawMessage) []HistoryEntry {
	steps, ok := getArray(raw)
	if !ok {
		return []HistoryEntry{}
	}

	history := make([]HistoryEntry, 0, len(steps))
	for _, step := range steps {
		fields := getObject(step)
		history = append(history, HistoryEntry{
			By:     getString(fields, fieldStepBy),
			Date:   getTimestamp(fields, fieldStepCreated),
			Action: getString(fields, fieldStepAction),
		})
	}
	return history
}

// roundCents rounds the exact binary value of x to two decimals, halves away
// from zero.
func roundCents(x float64) float64 {
	y := new(big.Float).SetPrec(256).SetFloat64(math.Abs(x))
	y.Mul(y, big.NewFloat(100))
	y.Add(y, big.NewFloat(0.5))
	cents, _ := y.Int(nil)
	return math.Copysign(float64(cents.Int64())/100, x)
}

func valueOrNotAvailable(v string) string {
	if v == "" {
		return NotAvailable
	}
	return v
}
