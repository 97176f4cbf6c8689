// Package holidays loads an optional holiday calendar used to annotate reports.
//
// Two file shapes are accepted, as JSON or YAML. The plain shape maps ISO dates to
// descriptions:
//
//	{"2024-12-25": "Christmas", "2025-01-01": "New Year"}
//
// The production-calendar shape lists non-working days per month, with optional
// names keyed by date:
//
//	{"year": 2025, "months": [{"month": 1, "days": "1,6"}], "names": {"2025-01-06": "Epiphany"}}
//
// Day numbers may carry a "+" or "*" marker, which is ignored.
package holidays

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// DefaultName describes a non-working day listed without a name.
const DefaultName = "non-working day"

// Calendar maps "YYYY-MM-DD" to a description.
type Calendar map[string]string

// Holiday is one calendar entry.
type Holiday struct {
	Date time.Time
	Name string
}

type productionCalendar struct {
	Year   int               `json:"year" yaml:"year"`
	Months []monthDays       `json:"months" yaml:"months"`
	Names  map[string]string `json:"names" yaml:"names"`
}

type monthDays struct {
	Month int    `json:"month" yaml:"month"`
	Days  string `json:"days" yaml:"days"`
}

// Load reads the calendar at path. A missing file yields an empty calendar, since
// the calendar is optional. Files ending in .yaml or .yml are read as YAML, anything
// else as JSON.
func Load(path string) (Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Calendar{}, nil
		}
		return nil, fmt.Errorf("failed to read holiday file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes either calendar shape from JSON.
func ParseJSON(data []byte) (Calendar, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal holiday JSON: %w", err)
	}

	if _, ok := probe["months"]; ok {
		var pc productionCalendar
		if err := json.Unmarshal(data, &pc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal holiday JSON: %w", err)
		}
		return fromProductionCalendar(pc)
	}

	var plain map[string]string
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, fmt.Errorf("failed to unmarshal holiday JSON: %w", err)
	}
	return fromPlain(plain)
}

// ParseYAML decodes either calendar shape from YAML.
func ParseYAML(data []byte) (Calendar, error) {
	var probe map[string]yaml.Node
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal holiday YAML: %w", err)
	}

	if _, ok := probe["months"]; ok {
		var pc productionCalendar
		if err := yaml.Unmarshal(data, &pc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal holiday YAML: %w", err)
		}
		return fromProductionCalendar(pc)
	}

	var plain map[string]string
	if err := yaml.Unmarshal(data, &plain); err != nil {
		return nil, fmt.Errorf("failed to unmarshal holiday YAML: %w", err)
	}
	return fromPlain(plain)
}

func fromPlain(plain map[string]string) (Calendar, error) {
	cal := make(Calendar, len(plain))
	for key, name := range plain {
		t, err := time.Parse(dateLayout, strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", key, err)
		}
		cal[t.Format(dateLayout)] = name
	}
	return cal, nil
}

func fromProductionCalendar(pc productionCalendar) (Calendar, error) {
	cal := Calendar{}
	for _, m := range pc.Months {
		if m.Month < 1 || m.Month > 12 {
			return nil, fmt.Errorf("invalid month %d", m.Month)
		}
		for _, dayStr := range strings.Split(m.Days, ",") {
			dayStr = strings.TrimSpace(dayStr)
			dayStr = strings.TrimRight(dayStr, "+*")
			if dayStr == "" {
				continue
			}

			day, err := strconv.Atoi(dayStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w", dayStr, m.Month, err)
			}
			date := time.Date(pc.Year, time.Month(m.Month), day, 0, 0, 0, 0, time.UTC)
			if date.Month() != time.Month(m.Month) {
				return nil, fmt.Errorf("day %d does not exist in month %d", day, m.Month)
			}
			cal[date.Format(dateLayout)] = DefaultName
		}
	}

	named, err := fromPlain(pc.Names)
	if err != nil {
		return nil, err
	}
	for key, name := range named {
		cal[key] = name
	}
	return cal, nil
}

// Lookup returns the description for the calendar day of t.
func (c Calendar) Lookup(t time.Time) (string, bool) {
	name, ok := c[t.Format(dateLayout)]
	return name, ok
}

// IsHoliday reports whether the calendar day of t is listed.
func (c Calendar) IsHoliday(t time.Time) bool {
	_, ok := c.Lookup(t)
	return ok
}

// Between returns the entries from start to end inclusive, in date order.
func (c Calendar) Between(start, end time.Time) []Holiday {
	from, to := start.Format(dateLayout), end.Format(dateLayout)

	result := []Holiday{}
	for key, name := range c {
		if key < from || key > to {
			continue
		}
		t, err := time.Parse(dateLayout, key)
		if err != nil {
			continue
		}
		result = append(result, Holiday{Date: t, Name: name})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result
}

// All returns every entry in date order.
func (c Calendar) All() []Holiday {
	result := make([]Holiday, 0, len(c))
	for key, name := range c {
		t, err := time.Parse(dateLayout, key)
		if err != nil {
			continue
		}
		result = append(result, Holiday{Date: t, Name: name})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result
}
