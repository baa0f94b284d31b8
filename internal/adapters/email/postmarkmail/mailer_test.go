package postmarkmail_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lettersmith/newsletter-api/internal/adapters/email/postmarkmail"
	mailerport "github.com/lettersmith/newsletter-api/internal/ports/out/mailer"
)

func newMailer(t *testing.T, ts *httptest.Server) *postmarkmail.Mailer {
	t.Helper()
	m, err := postmarkmail.New(postmarkmail.Config{
		ServerToken:   "server-token",
		AccountToken:  "account-token",
		Sender:        "newsletter@example.com",
		MessageStream: "outbound",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.SetTransportForTest(ts.URL, ts.Client())
	return m
}

func TestMailer_SendShape(t *testing.T) {
	t.Parallel()

	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Postmark-Server-Token") == "" {
			t.Errorf("missing server token header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ErrorCode":0,"Message":"OK"}`))
	}))
	defer ts.Close()

	m := newMailer(t, ts)
	err := m.Send(context.Background(), mailerport.Email{
		To:       "ursula_le_guin@gmail.com",
		Subject:  "Welcome!",
		HTMLBody: "<p>hello</p>",
		TextBody: "hello",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	want := map[string]string{
		"From":     "newsletter@example.com",
		"To":       "ursula_le_guin@gmail.com",
		"Subject":  "Welcome!",
		"HtmlBody": "<p>hello</p>",
		"TextBody": "hello",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("payload[%q]=%v, want %q", k, got[k], v)
		}
	}
}

func TestMailer_TransportError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"ErrorCode":300,"Message":"Invalid email request"}`))
	}))
	defer ts.Close()

	m := newMailer(t, ts)
	err := m.Send(context.Background(), mailerport.Email{
		To:       "someone@example.com",
		Subject:  "Welcome!",
		HTMLBody: "<p>hello</p>",
		TextBody: "hello",
	})
	if !errors.Is(err, mailerport.ErrDeliveryFailed) {
		t.Fatalf("err=%v, want ErrDeliveryFailed", err)
	}
}

func TestMailer_SendDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		// Stall until the test finishes; the client deadline must fire first.
		<-release
	}))
	defer ts.Close()
	defer close(release)

	m, err := postmarkmail.New(postmarkmail.Config{
		ServerToken: "server-token",
		Sender:      "newsletter@example.com",
		SendTimeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.SetTransportForTest(ts.URL, ts.Client())

	start := time.Now()
	err = m.Send(context.Background(), mailerport.Email{
		To:       "someone@example.com",
		Subject:  "Welcome!",
		HTMLBody: "<p>hello</p>",
		TextBody: "hello",
	})
	elapsed := time.Since(start)

	if !errors.Is(err, mailerport.ErrDeliveryFailed) {
		t.Fatalf("err=%v, want ErrDeliveryFailed", err)
	}
	if elapsed >= 2*time.Second {
		t.Fatalf("Send took %v against an unresponsive server, deadline not enforced", elapsed)
	}
}

func TestNew_RejectsBadSender(t *testing.T) {
	t.Parallel()

	_, err := postmarkmail.New(postmarkmail.Config{
		ServerToken: "server-token",
		Sender:      "not-an-address",
	})
	if err == nil {
		t.Fatalf("expected error for invalid sender")
	}
}
