package services

import (
	"reflect"
	"testing"
	"time"
)

func TestDefaultAcademicYearSpan(t *testing.T) {
	cases := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), "2025-2026"},
		{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "2024-2025"},
		{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "2025-2026"},
		{time.Date(2025, 5, 31, 23, 59, 0, 0, time.UTC), "2024-2025"},
		{time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), "2025-2026"},
	}
	for _, tc := range cases {
		if got := DefaultAcademicYearSpan(tc.now); got != tc.want {
			t.Fatalf("DefaultAcademicYearSpan(%s) = %q, want %q", tc.now.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestParseAcademicYearSpanRequiresConsecutiveYears(t *testing.T) {
	if span, ok := ParseAcademicYearSpan(" 2024-2025 "); !ok || span != "2024-2025" {
		t.Fatalf("expected valid span, got %q %v", span, ok)
	}
	for _, bad := range []string{"2024-2026", "2025-2024", "2024", "A.Y. 2024-2025", "abcd-efgh", ""} {
		if _, ok := ParseAcademicYearSpan(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestMergeAcademicYearSpans(t *testing.T) {
	got := MergeAcademicYearSpans(
		[]string{"2024-2025", "2023-2024"},
		[]string{"A.Y. 2024-2025", "S.Y. 2022-2023", "n/a", "2020-2022"},
		[]string{"2025-2026"},
	)
	want := []string{"2025-2026", "2024-2025", "2023-2024", "2022-2023"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected spans: got %v want %v", got, want)
	}
}
