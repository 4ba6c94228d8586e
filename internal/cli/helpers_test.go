package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

const testURL = "http://localhost:8081"

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	sessions     *mockSessionStore
	factory      *mockClientFactory
	admin        *mockAdmin
	auth         *mockAuth
	stdout       *syncBuffer
	stderr       *syncBuffer
}

func newTestMocks() *testMocks {
	admin := &mockAdmin{}
	auth := &mockAuth{}
	return &testMocks{
		configLoader: &mockConfigLoader{},
		sessions:     &mockSessionStore{},
		factory:      &mockClientFactory{admin: admin, auth: auth},
		admin:        admin,
		auth:         auth,
		stdout:       &syncBuffer{},
		stderr:       &syncBuffer{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOption configures testEnv.
type testEnvOption func(*Env)

// withStdin sets stdin for --password-stdin tests.
func withStdin(s string) testEnvOption {
	return func(e *Env) { e.Stdin = strings.NewReader(s) }
}

// withPassword makes the prompt return password.
func withPassword(password string) testEnvOption {
	return func(e *Env) {
		e.PromptPassword = func(io.Writer, string) (string, error) { return password, nil }
	}
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(vars map[string]string) testEnvOption {
	return func(e *Env) {
		e.Getenv = func(key string) string { return vars[key] }
	}
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	m := newTestMocks()
	env := &Env{
		Stdout:         m.stdout,
		Stderr:         m.stderr,
		Stdin:          strings.NewReader(""),
		Getenv:         func(string) string { return "" },
		PromptPassword: func(io.Writer, string) (string, error) { return "secret", nil },
		ConfigLoader:   m.configLoader,
		SessionStore:   m.sessions,
		ClientFactory:  m.factory,
	}
	for _, opt := range opts {
		opt(env)
	}
	return env, m
}

// ---------------------------------------------------------------------------
// execute - runs one command under a root carrying the global flags
// ---------------------------------------------------------------------------

func execute(env *Env, build func(*Env, *Globals) *cobra.Command, args ...string) error {
	g := &Globals{}
	root := &cobra.Command{Use: "clusteradm", SilenceErrors: true, SilenceUsage: true}
	g.Bind(root)
	root.AddCommand(build(env, g))
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}
