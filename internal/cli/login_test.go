package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/clusteradm/internal/apierr"
	"github.com/alnah/clusteradm/internal/config"
)

// ---------------------------------------------------------------------------
// Tests for login
// ---------------------------------------------------------------------------

func TestLogin_SavesSession(t *testing.T) {
	t.Parallel()

	env, m := testEnv(withPassword("s3cret"))
	m.factory.cookie = "lsid=abc"

	if err := execute(env, LoginCmd, "login", "-u", "ops"); err != nil {
		t.Fatalf("login unexpected error: %v", err)
	}
	if m.auth.username != "ops" || m.auth.password != "s3cret" {
		t.Errorf("Login(%q, %q), want ops/s3cret", m.auth.username, m.auth.password)
	}
	if len(m.sessions.saved) != 1 || m.sessions.saved[0] != (config.Session{URL: testURL, Cookie: "lsid=abc"}) {
		t.Errorf("saved sessions = %+v", m.sessions.saved)
	}
	if !strings.Contains(m.stderr.String(), "Logged in to "+testURL+" as ops") {
		t.Errorf("stderr = %q", m.stderr.String())
	}
}

func TestLogin_PasswordStdin(t *testing.T) {
	t.Parallel()

	env, m := testEnv(withStdin("from-pipe\n"))
	env.PromptPassword = nil // must not be called

	if err := execute(env, LoginCmd, "login", "--password-stdin"); err != nil {
		t.Fatalf("login unexpected error: %v", err)
	}
	if m.auth.username != defaultUsername || m.auth.password != "from-pipe" {
		t.Errorf("Login(%q, %q), want admin/from-pipe", m.auth.username, m.auth.password)
	}
}

func TestLogin_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty password", func(t *testing.T) {
		t.Parallel()

		env, m := testEnv(withPassword(""))
		err := execute(env, LoginCmd, "login")
		if !errors.Is(err, ErrEmptyPassword) {
			t.Errorf("error = %v, want ErrEmptyPassword", err)
		}
		if len(m.sessions.saved) != 0 {
			t.Error("session saved after failed login")
		}
	})

	t.Run("rejected credentials", func(t *testing.T) {
		t.Parallel()

		env, m := testEnv()
		m.auth.LoginFunc = func(context.Context, string, string) error {
			return apierr.ErrAuthFailed
		}
		err := execute(env, LoginCmd, "login")
		if !errors.Is(err, apierr.ErrAuthFailed) {
			t.Errorf("error = %v, want ErrAuthFailed", err)
		}
		if len(m.sessions.saved) != 0 {
			t.Error("session saved after failed login")
		}
	})

	t.Run("no url anywhere", func(t *testing.T) {
		t.Parallel()

		env, m := testEnv()
		m.configLoader.LoadFunc = func() (config.Config, error) { return config.Config{}, nil }
		if err := execute(env, LoginCmd, "login"); !errors.Is(err, ErrURLMissing) {
			t.Errorf("error = %v, want ErrURLMissing", err)
		}
	})
}

// ---------------------------------------------------------------------------
// Tests for logout
// ---------------------------------------------------------------------------

func TestLogout(t *testing.T) {
	t.Parallel()

	t.Run("clears session", func(t *testing.T) {
		t.Parallel()

		env, m := testEnv()
		m.sessions.session = config.Session{URL: testURL, Cookie: "lsid=abc"}

		if err := execute(env, LogoutCmd, "logout"); err != nil {
			t.Fatalf("logout unexpected error: %v", err)
		}
		if m.sessions.cleared != 1 {
			t.Errorf("Clear() calls = %d, want 1", m.sessions.cleared)
		}
		if m.factory.LastOptions().Cookie != "lsid=abc" {
			t.Errorf("stored cookie not passed to Connect: %+v", m.factory.LastOptions())
		}
	})

	t.Run("clears session even when cluster is down", func(t *testing.T) {
		t.Parallel()

		env, m := testEnv()
		down := &apierr.NetworkError{Err: errors.New("connection refused")}
		m.auth.LogoutFunc = func(context.Context) error { return down }

		err := execute(env, LogoutCmd, "logout")
		if !errors.Is(err, apierr.ErrNetwork) {
			t.Errorf("error = %v, want network error", err)
		}
		if m.sessions.cleared != 1 {
			t.Errorf("Clear() calls = %d, want 1", m.sessions.cleared)
		}
	})
}
