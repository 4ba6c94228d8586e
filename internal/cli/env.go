package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/alnah/clusteradm/internal/apierr"
	"github.com/alnah/clusteradm/internal/cluster"
	"github.com/alnah/clusteradm/internal/config"
	"github.com/alnah/clusteradm/internal/graphql"
	"github.com/alnah/clusteradm/internal/logging"
	"github.com/alnah/clusteradm/internal/rest"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Getenv func(string) string

	// PromptPassword asks for a password without echo.
	PromptPassword func(w io.Writer, prompt string) (string, error)

	// Factories and stores
	ConfigLoader  ConfigLoader
	SessionStore  SessionStore
	ClientFactory ClientFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// SessionStore persists the login session between invocations.
type SessionStore interface {
	Load(clusterURL string) (config.Session, error)
	Save(s config.Session) error
	Clear() error
}

// Admin is the cluster surface the commands use.
type Admin interface {
	ListServers(ctx context.Context) ([]cluster.Server, error)
	ListReplicasets(ctx context.Context) ([]cluster.Replicaset, error)
	ServerInfo(ctx context.Context, serverUUID string) (*cluster.Server, error)
	Issues(ctx context.Context) ([]cluster.Issue, error)
	AuthParams(ctx context.Context) (*cluster.AuthParams, error)
	SetAuthEnabled(ctx context.Context, enabled bool) (*cluster.AuthParams, error)
	ListUsers(ctx context.Context) ([]cluster.User, error)
	AddUser(ctx context.Context, in cluster.UserInput) (*cluster.User, error)
	EditUser(ctx context.Context, in cluster.UserInput) (*cluster.User, error)
	RemoveUser(ctx context.Context, username string) (*cluster.User, error)
	Failover(ctx context.Context) (*cluster.FailoverParams, error)
	SetFailoverMode(ctx context.Context, mode string) (*cluster.FailoverParams, error)
	PromoteLeader(ctx context.Context, replicasetUUID, instanceUUID string, force bool) error
	Probe(ctx context.Context, uri string) error
	Expel(ctx context.Context, serverUUID string) error
	BootstrapVshard(ctx context.Context) error
	DownloadConfig(ctx context.Context) ([]byte, error)
	UploadConfig(ctx context.Context, doc []byte) error
	Status(ctx context.Context) (*cluster.Summary, error)
}

// Authenticator opens and closes sessions.
type Authenticator interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
}

// Conn is a connection to one cluster.
type Conn struct {
	Admin Admin
	Auth  Authenticator

	// Cookie returns the session cookies currently held for the cluster,
	// in Cookie header form.
	Cookie func() string
}

// ConnectOptions configures ClientFactory.Connect.
type ConnectOptions struct {
	URL     string
	Timeout time.Duration
	Cookie  string
	Logger  logging.Logger
}

// ClientFactory creates cluster connections.
type ClientFactory interface {
	Connect(opts ConnectOptions) (*Conn, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithStdin sets the stdin reader.
func WithStdin(r io.Reader) EnvOption {
	return func(e *Env) {
		e.Stdin = r
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithPromptPassword sets the password prompt.
func WithPromptPassword(fn func(w io.Writer, prompt string) (string, error)) EnvOption {
	return func(e *Env) {
		e.PromptPassword = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithSessionStore sets the session store.
func WithSessionStore(s SessionStore) EnvOption {
	return func(e *Env) {
		e.SessionStore = s
	}
}

// WithClientFactory sets the client factory.
func WithClientFactory(f ClientFactory) EnvOption {
	return func(e *Env) {
		e.ClientFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		Stdin:          os.Stdin,
		Getenv:         os.Getenv,
		PromptPassword: promptPassword,
		ConfigLoader:   &defaultConfigLoader{},
		SessionStore:   &defaultSessionStore{},
		ClientFactory:  &defaultClientFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// readPassword is swapped in tests.
var readPassword = term.ReadPassword

// promptPassword reads a password from the terminal without echo. When
// stdin is not a terminal it reads one line instead.
func promptPassword(w io.Writer, prompt string) (string, error) {
	fd := int(os.Stdin.Fd()) // #nosec G115 -- file descriptors fit in int
	if !term.IsTerminal(fd) {
		return readLine(os.Stdin)
	}
	_, _ = fmt.Fprint(w, prompt)
	b, err := readPassword(fd)
	_, _ = fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// readLine returns the first line of r without its line ending.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultSessionStore implements SessionStore using the config package.
type defaultSessionStore struct{}

func (defaultSessionStore) Load(clusterURL string) (config.Session, error) {
	return config.LoadSession(clusterURL)
}

func (defaultSessionStore) Save(s config.Session) error {
	return config.SaveSession(s)
}

func (defaultSessionStore) Clear() error {
	return config.ClearSession()
}

// queryRetries is how often a read-only GraphQL query is retried after a
// network error.
const queryRetries = 2

// defaultClientFactory wires the GraphQL and REST clients to one HTTP
// client so that both carry the session cookie.
type defaultClientFactory struct{}

func (defaultClientFactory) Connect(opts ConnectOptions) (*Conn, error) {
	base, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse cluster URL: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	jar.SetCookies(base, parseCookies(opts.Cookie))

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	httpClient := &http.Client{Jar: jar, Timeout: opts.Timeout}

	gql, err := graphql.New(opts.URL+graphql.DefaultPath,
		graphql.WithHTTPClient(httpClient),
		graphql.WithLogger(logger),
		graphql.WithRetry(apierr.RetryPolicy{
			MaxRetries: queryRetries,
			BaseDelay:  500 * time.Millisecond,
			MaxDelay:   5 * time.Second,
		}),
	)
	if err != nil {
		return nil, err
	}
	rc, err := rest.New(opts.URL, rest.WithHTTPClient(httpClient), rest.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &Conn{
		Admin:  cluster.New(gql, rc),
		Auth:   rc,
		Cookie: func() string { return formatCookies(jar.Cookies(base)) },
	}, nil
}

// parseCookies reads a Cookie header value ("a=1; b=2").
func parseCookies(header string) []*http.Cookie {
	var cookies []*http.Cookie
	for part := range strings.SplitSeq(header, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	return cookies
}

// formatCookies is the inverse of parseCookies.
func formatCookies(cookies []*http.Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// Compile-time interface verification.
var (
	_ ConfigLoader  = (*defaultConfigLoader)(nil)
	_ SessionStore  = (*defaultSessionStore)(nil)
	_ ClientFactory = (*defaultClientFactory)(nil)
	_ Admin         = (*cluster.API)(nil)
	_ Authenticator = (*rest.Client)(nil)
)
