package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// academicYearCutoffMonth is the first month of a new academic year.
const academicYearCutoffMonth = time.June

var spanPattern = regexp.MustCompile(`(\d{4})\s*-\s*(\d{4})`)

// DefaultAcademicYearSpan returns the span in effect at now: from June onwards the year
// that starts now, otherwise the one that started last year.
func DefaultAcademicYearSpan(now time.Time) string {
	y := now.Year()
	if now.Month() >= academicYearCutoffMonth {
		return formatSpan(y)
	}
	return formatSpan(y - 1)
}

func formatSpan(start int) string {
	return fmt.Sprintf("%d-%d", start, start+1)
}

// ParseAcademicYearSpan validates a "YYYY-YYYY" span of two consecutive years.
func ParseAcademicYearSpan(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	m := spanPattern.FindStringSubmatch(raw)
	if m == nil || m[0] != raw {
		return "", false
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if end != start+1 {
		return "", false
	}
	return formatSpan(start), true
}

// ExtractAcademicYearSpan pulls the span out of a label such as "A.Y. 2024-2025".
func ExtractAcademicYearSpan(label string) (string, bool) {
	m := spanPattern.FindStringSubmatch(label)
	if m == nil {
		return "", false
	}
	return ParseAcademicYearSpan(m[1] + "-" + m[2])
}

// MergeAcademicYearSpans returns the distinct valid spans found in the inputs, newest first.
// Inputs may be bare spans or full labels.
func MergeAcademicYearSpans(sources ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, src := range sources {
		for _, label := range src {
			span, ok := ExtractAcademicYearSpan(label)
			if !ok {
				continue
			}
			if _, dup := seen[span]; dup {
				continue
			}
			seen[span] = struct{}{}
			out = append(out, span)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
