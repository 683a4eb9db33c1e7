// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// NoticeText warns first-time users about backend cold starts.
const NoticeText = "Heads up: the research backend may be asleep. The first request can take up to a minute while it starts; later requests are much faster."

const noticeFlagName = "notice-dismissed"

// Notice is the one-time cold-start notice, gated by a flag file. Once
// dismissed it stays dismissed; nothing resets it.
type Notice struct {
	path string
}

// NewNotice keeps its flag in dir.
func NewNotice(dir string) *Notice {
	return &Notice{path: filepath.Join(dir, noticeFlagName)}
}

// DefaultNotice keeps its flag under the user config directory
// (<config>/web-scout/notice-dismissed).
func DefaultNotice() (*Notice, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("locating user config directory: %w", err)
	}
	return NewNotice(filepath.Join(base, "web-scout")), nil
}

// Path returns the flag file location.
func (n *Notice) Path() string { return n.path }

// ShouldShow reports whether the notice has not been dismissed yet.
func (n *Notice) ShouldShow() bool {
	_, err := os.Stat(n.path)
	return errors.Is(err, fs.ErrNotExist)
}

// Dismiss creates the flag file. Dismissing twice is not an error.
func (n *Notice) Dismiss() error {
	if err := os.MkdirAll(filepath.Dir(n.path), 0o755); err != nil {
		return fmt.Errorf("creating notice directory: %w", err)
	}
	f, err := os.OpenFile(n.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("writing notice flag: %w", err)
	}
	return f.Close()
}
