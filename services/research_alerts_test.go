package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

func newTestNotifier(recipients []string, now *time.Time) (*MailFallbackNotifier, func() []sentMail) {
	var mu sync.Mutex
	var sent []sentMail
	n := NewMailFallbackNotifier(recipients, 10*time.Minute)
	n.now = func() time.Time { return *now }
	n.send = func(to []string, subject, body string) error {
		mu.Lock()
		defer mu.Unlock()
		sent = append(sent, sentMail{to: to, subject: subject, body: body})
		return nil
	}
	return n, func() []sentMail {
		n.Wait()
		mu.Lock()
		defer mu.Unlock()
		return append([]sentMail(nil), sent...)
	}
}

func TestMailFallbackNotifierThrottles(t *testing.T) {
	now := baseTime
	n, sent := newTestNotifier([]string{"ops@example.edu"}, &now)
	ctx := WithRequestID(context.Background(), "req-1")
	cause := errors.New("student_research <missing>")

	n.PrimaryUnavailable(ctx, cause)
	now = now.Add(5 * time.Minute)
	n.PrimaryUnavailable(ctx, cause)
	if got := sent(); len(got) != 1 {
		t.Fatalf("second alert inside the interval should be dropped, sent %d", len(got))
	}

	now = now.Add(6 * time.Minute)
	n.PrimaryUnavailable(ctx, cause)
	got := sent()
	if len(got) != 2 {
		t.Fatalf("alert after the interval should be sent, sent %d", len(got))
	}
	if !strings.Contains(got[0].body, "req-1") || !strings.Contains(got[0].body, "&lt;missing&gt;") {
		t.Fatalf("body should carry the escaped cause and request id: %s", got[0].body)
	}
}

func TestMailFallbackNotifierWithoutRecipients(t *testing.T) {
	now := baseTime
	n, sent := newTestNotifier(nil, &now)
	n.PrimaryUnavailable(context.Background(), errors.New("down"))
	if got := sent(); len(got) != 0 {
		t.Fatalf("no recipients means no mail, sent %d", len(got))
	}
}
