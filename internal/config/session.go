package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Session is a persisted login: the cluster it belongs to and the
// session cookie the server issued.
type Session struct {
	URL    string
	Cookie string
}

// SaveSession stores s in the session file (mode 0600).
func SaveSession(s Session) error {
	p, err := path(sessionFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	return writeFile(p, map[string]string{"url": s.URL, "cookie": s.Cookie}, 0600)
}

// LoadSession returns the stored session for clusterURL. A missing file or
// a session for another cluster yields a zero Session and no error.
func LoadSession(clusterURL string) (Session, error) {
	p, err := path(sessionFile)
	if err != nil {
		return Session{}, err
	}
	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}
	if strings.TrimSuffix(data["url"], "/") != strings.TrimSuffix(clusterURL, "/") {
		return Session{}, nil
	}
	return Session{URL: data["url"], Cookie: data["cookie"]}, nil
}

// ClearSession removes the session file.
func ClearSession() error {
	p, err := path(sessionFile)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
