package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"sync"
	"time"

	"research-registry-api/config"
)

// MailFallbackNotifier mails operators when the primary listing path is down, at most once
// per interval. Mail goes out on its own goroutine so listings are never delayed by SMTP.
type MailFallbackNotifier struct {
	recipients []string
	interval   time.Duration
	send       func(to []string, subject, body string) error
	now        func() time.Time

	mu       sync.Mutex
	lastSent time.Time
	wg       sync.WaitGroup
}

func NewMailFallbackNotifier(recipients []string, interval time.Duration) *MailFallbackNotifier {
	if interval <= 0 {
		interval = time.Hour
	}
	return &MailFallbackNotifier{
		recipients: recipients,
		interval:   interval,
		send:       config.SendMail,
		now:        time.Now,
	}
}

// PrimaryUnavailable implements FallbackNotifier.
func (n *MailFallbackNotifier) PrimaryUnavailable(ctx context.Context, cause error) {
	if len(n.recipients) == 0 {
		return
	}
	now := n.now()

	n.mu.Lock()
	if !n.lastSent.IsZero() && now.Sub(n.lastSent) < n.interval {
		n.mu.Unlock()
		return
	}
	n.lastSent = now
	n.mu.Unlock()

	requestID := RequestIDFrom(ctx)
	subject := "[Research Registry] Listing running in fallback mode"
	body := fmt.Sprintf(
		"<p>The unified research listing could not run its primary query and served the "+
			"administrator-only fallback instead.</p><p><b>Time:</b> %s<br><b>Request:</b> %s<br><b>Error:</b> %s</p>",
		now.Format(time.RFC3339), html.EscapeString(requestID), html.EscapeString(cause.Error()),
	)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.send(n.recipients, subject, body); err != nil {
			log.Printf("[%s] research alerts: fallback mail failed: %v", requestID, err)
		}
	}()
}

// Wait blocks until in-flight mails have been handed to SMTP. Used on shutdown.
func (n *MailFallbackNotifier) Wait() {
	n.wg.Wait()
}
