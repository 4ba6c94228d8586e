package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"
)

// Config keys.
const (
	KeyURL     = "url"
	KeyOutput  = "output"
	KeyTimeout = "timeout"
)

// Keys lists every supported key in display order.
var Keys = []string{KeyURL, KeyOutput, KeyTimeout}

// Environment variable fallbacks.
const (
	EnvURL     = "CLUSTERADM_URL"
	EnvOutput  = "CLUSTERADM_OUTPUT"
	EnvTimeout = "CLUSTERADM_TIMEOUT"
)

// EnvFor maps a config key to its environment variable.
var EnvFor = map[string]string{
	KeyURL:     EnvURL,
	KeyOutput:  EnvOutput,
	KeyTimeout: EnvTimeout,
}

// Output formats.
var OutputFormats = []string{"table", "json", "yaml"}

const (
	DefaultOutput  = "table"
	DefaultTimeout = 30 * time.Second

	appDir      = "clusteradm"
	configFile  = "config"
	sessionFile = "session"
)

var (
	// ErrUnknownKey indicates a key not in Keys.
	ErrUnknownKey = errors.New("unknown config key")

	// ErrInvalidValue indicates a value that does not validate for its key.
	ErrInvalidValue = errors.New("invalid config value")
)

// Config holds user configuration loaded from ~/.config/clusteradm/config.
type Config struct {
	URL     string
	Output  string
	Timeout time.Duration
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/clusteradm.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir), nil
}

func path(name string) (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, name), nil
}

// Load reads the configuration file and environment variables.
// Config file values win over environment variable fallbacks; unset
// values get defaults. Returns defaults if the file doesn't exist.
func Load() (Config, error) {
	cfg := Config{Output: DefaultOutput, Timeout: DefaultTimeout}

	p, err := path(configFile)
	if err != nil {
		return cfg, err
	}

	data, err := parseFile(p)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if data == nil {
		data = make(map[string]string)
	}

	value := func(key string) string {
		if v := data[key]; v != "" {
			return v
		}
		return os.Getenv(EnvFor[key])
	}

	if v := value(KeyURL); v != "" {
		if err := Validate(KeyURL, v); err != nil {
			return cfg, err
		}
		cfg.URL = strings.TrimSuffix(v, "/")
	}
	if v := value(KeyOutput); v != "" {
		if err := Validate(KeyOutput, v); err != nil {
			return cfg, err
		}
		cfg.Output = v
	}
	if v := value(KeyTimeout); v != "" {
		if err := Validate(KeyTimeout, v); err != nil {
			return cfg, err
		}
		cfg.Timeout, _ = time.ParseDuration(v)
	}

	return cfg, nil
}

// Validate checks value for key.
func Validate(key, value string) error {
	switch key {
	case KeyURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s=%q: want http(s)://host[:port]: %w", key, value, ErrInvalidValue)
		}
	case KeyOutput:
		if !slices.Contains(OutputFormats, value) {
			return fmt.Errorf("%s=%q: want one of %v: %w", key, value, OutputFormats, ErrInvalidValue)
		}
	case KeyTimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s=%q: want a positive duration like 30s: %w", key, value, ErrInvalidValue)
		}
	default:
		return fmt.Errorf("%q (valid keys: %v): %w", key, Keys, ErrUnknownKey)
	}
	return nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid syntax at line %d: %q", lineNum, line)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// Save validates and writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	if err := Validate(key, value); err != nil {
		return err
	}

	p, err := path(configFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}
	existing[key] = value

	return writeFile(p, existing, 0644)
}

// writeFile writes the map sorted by key.
func writeFile(p string, data map[string]string, perm os.FileMode) error {
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm) // #nosec G302 G304 -- path from home dir
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(f, "%s=%s\n", k, data[k]); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	if !slices.Contains(Keys, key) {
		return "", fmt.Errorf("%q (valid keys: %v): %w", key, Keys, ErrUnknownKey)
	}
	data, err := List()
	if err != nil {
		return "", err
	}
	return data[key], nil
}

// List returns all config file values as a map.
func List() (map[string]string, error) {
	p, err := path(configFile)
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	return data, nil
}

// Dir returns the configuration directory path.
func Dir() (string, error) {
	return dir()
}
