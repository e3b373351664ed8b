package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  senior\x00 high  "); got != "senior high" {
		t.Fatalf("unexpected sanitized value %q", got)
	}

	long := strings.Repeat("é", maxQueryLength+25)
	if got := SanitizeInput(long); utf8.RuneCountInString(got) != maxQueryLength || !utf8.ValidString(got) {
		t.Fatalf("expected %d valid runes, got %d", maxQueryLength, utf8.RuneCountInString(got))
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !IsPasswordHashed(hash) || IsPasswordHashed("s3cret") {
		t.Fatalf("IsPasswordHashed misclassified values")
	}
	if !CheckPasswordHash("s3cret", hash) || CheckPasswordHash("wrong", hash) {
		t.Fatalf("CheckPasswordHash accepted the wrong password or rejected the right one")
	}
}
