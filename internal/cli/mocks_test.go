package cli

import (
	"context"
	"sync"

	"github.com/alnah/clusteradm/internal/cluster"
	"github.com/alnah/clusteradm/internal/config"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{URL: testURL, Output: config.DefaultOutput, Timeout: config.DefaultTimeout}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock SessionStore
// ---------------------------------------------------------------------------

type mockSessionStore struct {
	mu      sync.Mutex
	session config.Session
	saved   []config.Session
	cleared int

	SaveErr  error
	ClearErr error
}

func (m *mockSessionStore) Load(clusterURL string) (config.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.URL != clusterURL {
		return config.Session{}, nil
	}
	return m.session, nil
}

func (m *mockSessionStore) Save(s config.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.session = s
	m.saved = append(m.saved, s)
	return nil
}

func (m *mockSessionStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.session = config.Session{}
	return nil
}

// ---------------------------------------------------------------------------
// Mock Authenticator
// ---------------------------------------------------------------------------

type mockAuth struct {
	LoginFunc  func(ctx context.Context, username, password string) error
	LogoutFunc func(ctx context.Context) error

	mu       sync.Mutex
	username string
	password string
}

func (m *mockAuth) Login(ctx context.Context, username, password string) error {
	m.mu.Lock()
	m.username, m.password = username, password
	m.mu.Unlock()

	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return nil
}

func (m *mockAuth) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock Admin
// ---------------------------------------------------------------------------

// mockAdmin returns canned values. Unset funcs return zero values, which
// is enough for commands that only print.
type mockAdmin struct {
	ListServersFunc     func(ctx context.Context) ([]cluster.Server, error)
	ListReplicasetsFunc func(ctx context.Context) ([]cluster.Replicaset, error)
	ServerInfoFunc      func(ctx context.Context, uuid string) (*cluster.Server, error)
	IssuesFunc          func(ctx context.Context) ([]cluster.Issue, error)
	SetAuthEnabledFunc  func(ctx context.Context, enabled bool) (*cluster.AuthParams, error)
	AddUserFunc         func(ctx context.Context, in cluster.UserInput) (*cluster.User, error)
	EditUserFunc        func(ctx context.Context, in cluster.UserInput) (*cluster.User, error)
	SetFailoverModeFunc func(ctx context.Context, mode string) (*cluster.FailoverParams, error)
	PromoteLeaderFunc   func(ctx context.Context, rs, inst string, force bool) error
	ExpelFunc           func(ctx context.Context, uuid string) error
	DownloadConfigFunc  func(ctx context.Context) ([]byte, error)
	UploadConfigFunc    func(ctx context.Context, doc []byte) error
	StatusFunc          func(ctx context.Context) (*cluster.Summary, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockAdmin) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockAdmin) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockAdmin) ListServers(ctx context.Context) ([]cluster.Server, error) {
	m.record("ListServers")
	if m.ListServersFunc != nil {
		return m.ListServersFunc(ctx)
	}
	return nil, nil
}

func (m *mockAdmin) ListReplicasets(ctx context.Context) ([]cluster.Replicaset, error) {
	m.record("ListReplicasets")
	if m.ListReplicasetsFunc != nil {
		return m.ListReplicasetsFunc(ctx)
	}
	return nil, nil
}

func (m *mockAdmin) ServerInfo(ctx context.Context, uuid string) (*cluster.Server, error) {
	m.record("ServerInfo")
	if m.ServerInfoFunc != nil {
		return m.ServerInfoFunc(ctx, uuid)
	}
	return &cluster.Server{UUID: uuid}, nil
}

func (m *mockAdmin) Issues(ctx context.Context) ([]cluster.Issue, error) {
	m.record("Issues")
	if m.IssuesFunc != nil {
		return m.IssuesFunc(ctx)
	}
	return nil, nil
}

func (m *mockAdmin) AuthParams(ctx context.Context) (*cluster.AuthParams, error) {
	m.record("AuthParams")
	return &cluster.AuthParams{}, nil
}

func (m *mockAdmin) SetAuthEnabled(ctx context.Context, enabled bool) (*cluster.AuthParams, error) {
	m.record("SetAuthEnabled")
	if m.SetAuthEnabledFunc != nil {
		return m.SetAuthEnabledFunc(ctx, enabled)
	}
	return &cluster.AuthParams{Enabled: enabled}, nil
}

func (m *mockAdmin) ListUsers(ctx context.Context) ([]cluster.User, error) {
	m.record("ListUsers")
	return nil, nil
}

func (m *mockAdmin) AddUser(ctx context.Context, in cluster.UserInput) (*cluster.User, error) {
	m.record("AddUser")
	if m.AddUserFunc != nil {
		return m.AddUserFunc(ctx, in)
	}
	return &cluster.User{Username: in.Username, Fullname: in.Fullname, Email: in.Email}, nil
}

func (m *mockAdmin) EditUser(ctx context.Context, in cluster.UserInput) (*cluster.User, error) {
	m.record("EditUser")
	if m.EditUserFunc != nil {
		return m.EditUserFunc(ctx, in)
	}
	return &cluster.User{Username: in.Username}, nil
}

func (m *mockAdmin) RemoveUser(ctx context.Context, username string) (*cluster.User, error) {
	m.record("RemoveUser")
	return &cluster.User{Username: username}, nil
}

func (m *mockAdmin) Failover(ctx context.Context) (*cluster.FailoverParams, error) {
	m.record("Failover")
	return &cluster.FailoverParams{Mode: cluster.FailoverDisabled}, nil
}

func (m *mockAdmin) SetFailoverMode(ctx context.Context, mode string) (*cluster.FailoverParams, error) {
	m.record("SetFailoverMode")
	if m.SetFailoverModeFunc != nil {
		return m.SetFailoverModeFunc(ctx, mode)
	}
	return &cluster.FailoverParams{Mode: mode}, nil
}

func (m *mockAdmin) PromoteLeader(ctx context.Context, rs, inst string, force bool) error {
	m.record("PromoteLeader")
	if m.PromoteLeaderFunc != nil {
		return m.PromoteLeaderFunc(ctx, rs, inst, force)
	}
	return nil
}

func (m *mockAdmin) Probe(ctx context.Context, uri string) error {
	m.record("Probe")
	return nil
}

func (m *mockAdmin) Expel(ctx context.Context, uuid string) error {
	m.record("Expel")
	if m.ExpelFunc != nil {
		return m.ExpelFunc(ctx, uuid)
	}
	return nil
}

func (m *mockAdmin) BootstrapVshard(ctx context.Context) error {
	m.record("BootstrapVshard")
	return nil
}

func (m *mockAdmin) DownloadConfig(ctx context.Context) ([]byte, error) {
	m.record("DownloadConfig")
	if m.DownloadConfigFunc != nil {
		return m.DownloadConfigFunc(ctx)
	}
	return []byte("topology: {}\n"), nil
}

func (m *mockAdmin) UploadConfig(ctx context.Context, doc []byte) error {
	m.record("UploadConfig")
	if m.UploadConfigFunc != nil {
		return m.UploadConfigFunc(ctx, doc)
	}
	return nil
}

func (m *mockAdmin) Status(ctx context.Context) (*cluster.Summary, error) {
	m.record("Status")
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return &cluster.Summary{}, nil
}

// ---------------------------------------------------------------------------
// Mock ClientFactory
// ---------------------------------------------------------------------------

type mockClientFactory struct {
	admin  *mockAdmin
	auth   *mockAuth
	cookie string

	ConnectErr error

	mu   sync.Mutex
	opts []ConnectOptions
}

func (m *mockClientFactory) Connect(opts ConnectOptions) (*Conn, error) {
	m.mu.Lock()
	m.opts = append(m.opts, opts)
	m.mu.Unlock()

	if m.ConnectErr != nil {
		return nil, m.ConnectErr
	}
	return &Conn{
		Admin:  m.admin,
		Auth:   m.auth,
		Cookie: func() string { return m.cookie },
	}, nil
}

func (m *mockClientFactory) LastOptions() ConnectOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.opts) == 0 {
		return ConnectOptions{}
	}
	return m.opts[len(m.opts)-1]
}

// Compile-time interface verification.
var (
	_ ConfigLoader  = (*mockConfigLoader)(nil)
	_ SessionStore  = (*mockSessionStore)(nil)
	_ Authenticator = (*mockAuth)(nil)
	_ Admin         = (*mockAdmin)(nil)
	_ ClientFactory = (*mockClientFactory)(nil)
)
