package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender implements Sender for local development. It saves each message
// as a text body plus a JSON metadata file instead of sending it through a
// transport.
type DevSender struct {
	dir string
}

// NewDevSender creates a development sender writing into dir.
// The directory is created on first send if it does not exist.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

type devMetadata struct {
	Timestamp string   `json:"timestamp"`
	To        []string `json:"to"`
	Subject   string   `json:"subject"`
	Tag       string   `json:"tag,omitempty"`
}

// Send saves the message body and metadata to the configured directory.
func (d *DevSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSend, err)
	}

	now := time.Now()
	identifier := msg.Tag
	if identifier == "" {
		identifier = msg.Subject
	}
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405.000"), sanitizeFilename(identifier))

	bodyPath := filepath.Join(d.dir, base+".txt")
	if err := os.WriteFile(bodyPath, []byte(msg.Body), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write body: %v", ErrFailedToSend, err)
	}

	meta, err := json.MarshalIndent(devMetadata{
		Timestamp: now.Format(time.RFC3339),
		To:        msg.To,
		Subject:   msg.Subject,
		Tag:       msg.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", ErrFailedToSend, err)
	}

	metaPath := filepath.Join(d.dir, base+".json")
	if err := os.WriteFile(metaPath, meta, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write metadata: %v", ErrFailedToSend, err)
	}

	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]+`)

func sanitizeFilename(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 60 {
		s = s[:60]
	}
	if s == "" {
		s = "email"
	}
	return s
}
