package devmail_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lettersmith/newsletter-api/internal/adapters/email/devmail"
	mailerport "github.com/lettersmith/newsletter-api/internal/ports/out/mailer"
)

func TestMailer_WritesMessageFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := devmail.New(dir)

	err := m.Send(context.Background(), mailerport.Email{
		To:       "ursula_le_guin@gmail.com",
		Subject:  "Welcome!",
		HTMLBody: "<p>hello</p>",
		TextBody: "hello",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d files, want 3", len(entries))
	}

	var sawHTML, sawText, sawMeta bool
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("ReadFile %s: %v", e.Name(), err)
		}
		switch {
		case strings.HasSuffix(e.Name(), ".html"):
			sawHTML = true
			if string(data) != "<p>hello</p>" {
				t.Fatalf("html body=%q", data)
			}
		case strings.HasSuffix(e.Name(), ".txt"):
			sawText = true
			if string(data) != "hello" {
				t.Fatalf("text body=%q", data)
			}
		case strings.HasSuffix(e.Name(), ".json"):
			sawMeta = true
			var meta struct {
				To      string `json:"to"`
				Subject string `json:"subject"`
			}
			if err := json.Unmarshal(data, &meta); err != nil {
				t.Fatalf("unmarshal metadata: %v", err)
			}
			if meta.To != "ursula_le_guin@gmail.com" || meta.Subject != "Welcome!" {
				t.Fatalf("metadata=%+v", meta)
			}
		}
	}
	if !sawHTML || !sawText || !sawMeta {
		t.Fatalf("missing files: html=%v text=%v meta=%v", sawHTML, sawText, sawMeta)
	}
}

func TestMailer_RepeatedSubjectKeepsEveryMessage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := devmail.New(dir)

	// Back-to-back sends land within the same filename timestamp tick; each
	// message must still get its own set of files.
	const sends = 5
	for i := 0; i < sends; i++ {
		err := m.Send(context.Background(), mailerport.Email{
			To:       "ursula_le_guin@gmail.com",
			Subject:  "Welcome!",
			HTMLBody: "<p>hello</p>",
			TextBody: "hello",
		})
		if err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != sends*3 {
		t.Fatalf("got %d files, want %d", len(entries), sends*3)
	}
}
