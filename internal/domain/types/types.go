// Package types contains common types used across the application
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Metric identifies one of the seven measured abilities.
type Metric int

// Known metrics in canonical order.
const (
	Grip Metric = iota
	Jump
	Dash
	DoubleJump
	Squat
	Sidestep
	Throw

	metricCount = iota
)

// NumMetrics is the size of every per-metric vector.
const NumMetrics = metricCount

// Metrics lists every metric in canonical order.
var Metrics = [NumMetrics]Metric{Grip, Jump, Dash, DoubleJump, Squat, Sidestep, Throw}

var metricNames = [NumMetrics]string{"grip", "jump", "dash", "doublejump", "squat", "sidestep", "throw"}

func (m Metric) String() string {
	if !m.Valid() {
		return fmt.Sprintf("metric(%d)", int(m))
	}
	return metricNames[m]
}

// Valid reports whether m is one of the known metrics.
func (m Metric) Valid() bool { return m >= 0 && int(m) < NumMetrics }

// HigherIsBetter reports the polarity of a metric. Dash is a sprint time, so
// a lower raw value is the better performance.
func (m Metric) HigherIsBetter() bool { return m != Dash }

// ParseMetric resolves a metric name.
func ParseMetric(s string) (Metric, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range metricNames {
		if name == s {
			return Metric(i), nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid metric %d", int(m))
	}
	return []byte(metricNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(b []byte) error {
	v, err := ParseMetric(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Grade is a school grade; "k5" is the final kindergarten year.
type Grade string

// Known grades in canonical order.
const (
	GradeK5 Grade = "k5"
	Grade1  Grade = "1"
	Grade2  Grade = "2"
	Grade3  Grade = "3"
	Grade4  Grade = "4"
	Grade5  Grade = "5"
	Grade6  Grade = "6"
)

// Grades lists every grade in canonical order.
var Grades = []Grade{GradeK5, Grade1, Grade2, Grade3, Grade4, Grade5, Grade6}

// Index returns the position of g in Grades, or -1.
func (g Grade) Index() int {
	for i, v := range Grades {
		if v == g {
			return i
		}
	}
	return -1
}

// Valid reports whether g is a known grade.
func (g Grade) Valid() bool { return g.Index() >= 0 }

// ParseGrade resolves a grade label.
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("unknown grade %q", s)
	}
	return g, nil
}

// Gender of a measured subject.
type Gender string

// Known genders.
const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Genders lists every gender in canonical order.
var Genders = []Gender{Male, Female}

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool { return g == Male || g == Female }

// ParseGender resolves a gender label.
func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("unknown gender %q", s)
	}
	return g, nil
}

// BodyMetric is a physical attribute correlated against abilities.
type BodyMetric string

// Known body metrics.
const (
	Height BodyMetric = "height"
	Weight BodyMetric = "weight"
	BMI    BodyMetric = "bmi"
)

// BodyMetrics lists every body metric in canonical order.
var BodyMetrics = []BodyMetric{Height, Weight, BMI}

// ParseBodyMetric resolves a body metric name.
func ParseBodyMetric(s string) (BodyMetric, error) {
	b := BodyMetric(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range BodyMetrics {
		if v == b {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown body metric %q", s)
}

// Values holds an optional float per metric.
type Values struct {
	v  [NumMetrics]float64
	ok [NumMetrics]bool
}

// Get returns the value for m and whether it is present.
func (vs Values) Get(m Metric) (float64, bool) {
	if !m.Valid() {
		return 0, false
	}
	return vs.v[m], vs.ok[m]
}

// Has reports whether m is present.
func (vs Values) Has(m Metric) bool {
	_, ok := vs.Get(m)
	return ok
}

// Set stores v for m.
func (vs *Values) Set(m Metric, v float64) {
	if !m.Valid() {
		return
	}
	vs.v[m] = v
	vs.ok[m] = true
}

// SetPtr stores *v for m when v is non-nil.
func (vs *Values) SetPtr(m Metric, v *float64) {
	if v != nil {
		vs.Set(m, *v)
	}
}

// Unset removes m.
func (vs *Values) Unset(m Metric) {
	if m.Valid() {
		vs.v[m] = 0
		vs.ok[m] = false
	}
}

// Len returns the number of present metrics.
func (vs Values) Len() int {
	n := 0
	for _, ok := range vs.ok {
		if ok {
			n++
		}
	}
	return n
}

// MarshalJSON encodes the present metrics as an object keyed by metric name.
func (vs Values) MarshalJSON() ([]byte, error) {
	out := make(map[string]float64, NumMetrics)
	for _, m := range Metrics {
		if v, ok := vs.Get(m); ok {
			out[m.String()] = v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an object keyed by metric name.
func (vs *Values) UnmarshalJSON(b []byte) error {
	var in map[string]*float64
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*vs = Values{}
	for k, v := range in {
		m, err := ParseMetric(k)
		if err != nil {
			return err
		}
		vs.SetPtr(m, v)
	}
	return nil
}

// Scores is a complete 1-10 score vector, one slot per metric.
type Scores [NumMetrics]int

// Get returns the score for m.
func (s Scores) Get(m Metric) int { return s[m] }

// Mean returns the arithmetic mean of all scores.
func (s Scores) Mean() float64 {
	sum := 0
	for _, v := range s {
		sum += v
	}
	return float64(sum) / NumMetrics
}

// Min returns the lowest score.
func (s Scores) Min() int {
	lo := s[0]
	for _, v := range s[1:] {
		if v < lo {
			lo = v
		}
	}
	return lo
}

// Max returns the highest score.
func (s Scores) Max() int {
	hi := s[0]
	for _, v := range s[1:] {
		if v > hi {
			hi = v
		}
	}
	return hi
}

// Top returns the first metric holding the highest score.
func (s Scores) Top() Metric {
	top := Metrics[0]
	for _, m := range Metrics[1:] {
		if s[m] > s[top] {
			top = m
		}
	}
	return top
}

// Ascending returns all metrics ordered by score, lowest first. Ties keep
// canonical order.
func (s Scores) Ascending() []Metric {
	out := make([]Metric, NumMetrics)
	copy(out, Metrics[:])
	sort.SliceStable(out, func(i, j int) bool { return s[out[i]] < s[out[j]] })
	return out
}

// MarshalJSON encodes the vector as an object keyed by metric name.
func (s Scores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range Metrics {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", m.String(), s[m])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keyed by metric name.
func (s *Scores) UnmarshalJSON(b []byte) error {
	var in map[string]int
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	for k, v := range in {
		m, err := ParseMetric(k)
		if err != nil {
			return err
		}
		s[m] = v
	}
	return nil
}
