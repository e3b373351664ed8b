package config

import (
	"reflect"
	"testing"
)

func TestOpsAlertRecipients(t *testing.T) {
	t.Setenv("OPS_ALERT_EMAILS", " ops@school.edu, ,dba@school.edu ")
	want := []string{"ops@school.edu", "dba@school.edu"}
	if got := OpsAlertRecipients(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestMailConfiguredReadsEnvironmentLazily(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_FROM", "")
	t.Setenv("SMTP_PORT", "")
	if MailConfigured() {
		t.Fatalf("expected unconfigured mail")
	}
	if err := SendMail([]string{"ops@school.edu"}, "s", "b"); err == nil {
		t.Fatalf("SendMail should refuse without SMTP settings")
	}

	t.Setenv("SMTP_HOST", "smtp.school.edu")
	t.Setenv("SMTP_FROM", "Research Registry <no-reply@school.edu>")
	if !MailConfigured() {
		t.Fatalf("settings set after init should be picked up")
	}
	if s := loadSMTP(); s.port != 587 {
		t.Fatalf("default port should be 587, got %d", s.port)
	}
}
