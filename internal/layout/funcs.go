package layout

import (
	"html/template"
	"strings"
)

// MaxLevel is the top of the proficiency scale.
const MaxLevel = 5

// presentLabel replaces the end date of a current position.
const presentLabel = "Present"

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": r.md.render,
		"period":   period,
		"percent":  percent,
		"dots":     dots,
	}
}

// period formats a date range. Current positions end in "Present"; a
// missing bound leaves only the other one.
func period(start, end string, current bool) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if current {
		end = presentLabel
	}
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	}
	return start + " - " + end
}

// percent maps a 1-5 level onto a bar width (20% per step).
func percent(level int) int {
	return clampLevel(level) * 100 / MaxLevel
}

// dots returns MaxLevel flags, the first level of them set.
func dots(level int) []bool {
	level = clampLevel(level)
	out := make([]bool, MaxLevel)
	for i := range level {
		out[i] = true
	}
	return out
}

func clampLevel(level int) int {
	return max(0, min(level, MaxLevel))
}
