package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Notes:
// - White-box testing (package config) to test internal parseFile function.
// - Uses t.TempDir() + t.Setenv("XDG_CONFIG_HOME") for I/O isolation.
// - Tests using t.Setenv are NOT parallel (incompatible with t.Parallel).
// - Validate and parseFile use t.Parallel().
//
// Coverage gaps (intentional - rare I/O errors not worth mocking):
// - os.UserHomeDir() failures in dir()
// - Write errors in writeFile() (disk full, permission denied mid-write)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// writeConfigFile creates a config file in the given directory.
func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, appDir)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, configFile), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

// isolate points the config dir at a temp dir and clears env fallbacks.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv(EnvURL, "")
	t.Setenv(EnvOutput, "")
	t.Setenv(EnvTimeout, "")
	return tmp
}

// ---------------------------------------------------------------------------
// TestValidate - Per-key value checks
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{"http url", KeyURL, "http://localhost:8081", nil},
		{"https url with path", KeyURL, "https://admin.example.com/cluster", nil},
		{"url without scheme", KeyURL, "localhost:8081", ErrInvalidValue},
		{"url with ftp scheme", KeyURL, "ftp://host", ErrInvalidValue},
		{"url without host", KeyURL, "http://", ErrInvalidValue},
		{"output table", KeyOutput, "table", nil},
		{"output yaml", KeyOutput, "yaml", nil},
		{"output xml", KeyOutput, "xml", ErrInvalidValue},
		{"timeout seconds", KeyTimeout, "45s", nil},
		{"timeout zero", KeyTimeout, "0s", ErrInvalidValue},
		{"timeout negative", KeyTimeout, "-1s", ErrInvalidValue},
		{"timeout garbage", KeyTimeout, "soon", ErrInvalidValue},
		{"unknown key", "color", "red", ErrUnknownKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.key, tt.value)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate(%q, %q) unexpected error: %v", tt.key, tt.value, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%q, %q) = %v, want %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoad - File values, env fallbacks, defaults
// ---------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	t.Run("defaults when no file and no env", func(t *testing.T) {
		isolate(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.URL != "" {
			t.Errorf("URL = %q, want empty", cfg.URL)
		}
		if cfg.Output != DefaultOutput {
			t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
		}
		if cfg.Timeout != DefaultTimeout {
			t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
		}
	})

	t.Run("reads file values and trims trailing slash", func(t *testing.T) {
		tmp := isolate(t)
		writeConfigFile(t, tmp, "# comment\nurl=http://localhost:8081/\noutput=json\ntimeout=5s\n")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.URL != "http://localhost:8081" {
			t.Errorf("URL = %q, want %q", cfg.URL, "http://localhost:8081")
		}
		if cfg.Output != "json" {
			t.Errorf("Output = %q, want %q", cfg.Output, "json")
		}
		if cfg.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
		}
	})

	t.Run("env fills keys missing from file", func(t *testing.T) {
		tmp := isolate(t)
		writeConfigFile(t, tmp, "output=yaml\n")
		t.Setenv(EnvURL, "http://env:8081")
		t.Setenv(EnvOutput, "json")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.URL != "http://env:8081" {
			t.Errorf("URL = %q, want env value", cfg.URL)
		}
		if cfg.Output != "yaml" {
			t.Errorf("Output = %q, want file value %q", cfg.Output, "yaml")
		}
	})

	t.Run("invalid value in file", func(t *testing.T) {
		tmp := isolate(t)
		writeConfigFile(t, tmp, "timeout=forever\n")

		_, err := Load()
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("Load() error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		tmp := isolate(t)
		writeConfigFile(t, tmp, "not a pair\n")

		if _, err := Load(); err == nil {
			t.Error("Load() expected error for malformed file")
		}
	})
}

// ---------------------------------------------------------------------------
// TestSave - Write, preserve, validate
// ---------------------------------------------------------------------------

func TestSave(t *testing.T) {
	t.Run("creates directory and file", func(t *testing.T) {
		tmp := isolate(t)

		if err := Save(KeyURL, "http://localhost:8081"); err != nil {
			t.Fatalf("Save() unexpected error: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(tmp, appDir, configFile))
		if err != nil {
			t.Fatalf("config file not written: %v", err)
		}
		if string(data) != "url=http://localhost:8081\n" {
			t.Errorf("file content = %q", data)
		}
	})

	t.Run("preserves other keys", func(t *testing.T) {
		tmp := isolate(t)
		writeConfigFile(t, tmp, "output=json\n")

		if err := Save(KeyTimeout, "10s"); err != nil {
			t.Fatalf("Save() unexpected error: %v", err)
		}
		data, err := List()
		if err != nil {
			t.Fatalf("List() unexpected error: %v", err)
		}
		if data[KeyOutput] != "json" || data[KeyTimeout] != "10s" {
			t.Errorf("List() = %v, want output and timeout", data)
		}
	})

	t.Run("rejects invalid value without writing", func(t *testing.T) {
		tmp := isolate(t)

		err := Save(KeyOutput, "xml")
		if !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("Save() error = %v, want ErrInvalidValue", err)
		}
		if _, err := os.Stat(filepath.Join(tmp, appDir, configFile)); !os.IsNotExist(err) {
			t.Error("config file should not exist after rejected save")
		}
	})

	t.Run("rejects unknown key", func(t *testing.T) {
		isolate(t)

		if err := Save("color", "red"); !errors.Is(err, ErrUnknownKey) {
			t.Errorf("Save() error = %v, want ErrUnknownKey", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestGet / TestList
// ---------------------------------------------------------------------------

func TestGet(t *testing.T) {
	tmp := isolate(t)
	writeConfigFile(t, tmp, "url=http://a:1\n")

	got, err := Get(KeyURL)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if got != "http://a:1" {
		t.Errorf("Get(url) = %q, want %q", got, "http://a:1")
	}

	got, err = Get(KeyOutput)
	if err != nil || got != "" {
		t.Errorf("Get(output) = %q, %v; want empty, nil", got, err)
	}

	if _, err := Get("nope"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get(nope) error = %v, want ErrUnknownKey", err)
	}
}

func TestList(t *testing.T) {
	isolate(t)

	data, err := List()
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("List() = %v, want empty map", data)
	}
}

// ---------------------------------------------------------------------------
// TestParseFile
// ---------------------------------------------------------------------------

func TestParseFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    map[string]string
		wantErr bool
	}{
		{"empty", "", map[string]string{}, false},
		{"comments and blanks", "# x\n\n  \nurl=http://h\n", map[string]string{"url": "http://h"}, false},
		{"spaces around pair", "  output =  json  \n", map[string]string{"output": "json"}, false},
		{"value containing equals", "url=http://h/?a=b\n", map[string]string{"url": "http://h/?a=b"}, false},
		{"missing equals", "url\n", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := filepath.Join(t.TempDir(), "config")
			if err := os.WriteFile(p, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			got, err := parseFile(p)
			if tt.wantErr {
				if err == nil {
					t.Error("parseFile() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFile() unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseFile() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseFile()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSession - Persist, scope by URL, clear
// ---------------------------------------------------------------------------

func TestSession(t *testing.T) {
	t.Run("round trip with 0600 file", func(t *testing.T) {
		tmp := isolate(t)

		if err := SaveSession(Session{URL: "http://h:8081", Cookie: "lsid=abc"}); err != nil {
			t.Fatalf("SaveSession() unexpected error: %v", err)
		}
		info, err := os.Stat(filepath.Join(tmp, appDir, sessionFile))
		if err != nil {
			t.Fatalf("session file missing: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("session file mode = %o, want 0600", perm)
		}

		s, err := LoadSession("http://h:8081/")
		if err != nil {
			t.Fatalf("LoadSession() unexpected error: %v", err)
		}
		if s.Cookie != "lsid=abc" {
			t.Errorf("Cookie = %q, want %q", s.Cookie, "lsid=abc")
		}
	})

	t.Run("other cluster yields empty session", func(t *testing.T) {
		isolate(t)

		if err := SaveSession(Session{URL: "http://a", Cookie: "lsid=1"}); err != nil {
			t.Fatal(err)
		}
		s, err := LoadSession("http://b")
		if err != nil || s.Cookie != "" {
			t.Errorf("LoadSession(other) = %+v, %v; want zero, nil", s, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		isolate(t)

		s, err := LoadSession("http://a")
		if err != nil || s != (Session{}) {
			t.Errorf("LoadSession() = %+v, %v; want zero, nil", s, err)
		}
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		isolate(t)

		if err := SaveSession(Session{URL: "http://a", Cookie: "lsid=1"}); err != nil {
			t.Fatal(err)
		}
		if err := ClearSession(); err != nil {
			t.Fatalf("ClearSession() unexpected error: %v", err)
		}
		if err := ClearSession(); err != nil {
			t.Fatalf("second ClearSession() unexpected error: %v", err)
		}
		s, _ := LoadSession("http://a")
		if s.Cookie != "" {
			t.Errorf("Cookie after clear = %q, want empty", s.Cookie)
		}
	})
}

// ---------------------------------------------------------------------------
// TestDir
// ---------------------------------------------------------------------------

func TestDir(t *testing.T) {
	tmp := isolate(t)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() unexpected error: %v", err)
	}
	if want := filepath.Join(tmp, appDir); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}
