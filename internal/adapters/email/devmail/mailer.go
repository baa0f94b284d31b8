package devmail

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lettersmith/newsletter-api/internal/ports/out/mailer"
)

// Mailer is a development stand-in for a real transport: it writes each
// message to a directory as an .html body, a .txt body, and a .json metadata
// file, so the service runs end-to-end without email credentials.
type Mailer struct {
	dir string
	seq atomic.Uint64
}

func New(dir string) *Mailer {
	return &Mailer{dir: dir}
}

type metadata struct {
	Timestamp string `json:"timestamp"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
}

func (m *Mailer) Send(ctx context.Context, e mailer.Email) error {
	_ = ctx
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create outbox directory: %w", err)
	}

	// The sequence number keeps two sends of the same subject within the
	// same timestamp tick from overwriting each other's files.
	now := time.Now()
	base := fmt.Sprintf("%s_%04d_%s", now.Format("2006_01_02_150405.000"), m.seq.Add(1), safeFilename(e.Subject))

	if err := os.WriteFile(filepath.Join(m.dir, base+".html"), []byte(e.HTMLBody), 0o644); err != nil {
		return fmt.Errorf("write html body: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, base+".txt"), []byte(e.TextBody), 0o644); err != nil {
		return fmt.Errorf("write text body: %w", err)
	}

	meta, err := json.MarshalIndent(metadata{
		Timestamp: now.Format(time.RFC3339),
		To:        e.To,
		Subject:   e.Subject,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, base+".json"), meta, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func safeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeChars.ReplaceAllString(s, "")
	const maxLen = 80
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
