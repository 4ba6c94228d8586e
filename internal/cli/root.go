package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/clusteradm/internal/config"
	"github.com/alnah/clusteradm/internal/logging"
	"github.com/alnah/clusteradm/internal/render"
)

// Globals holds the persistent flags shared by every command.
type Globals struct {
	URL     string
	Output  string
	Verbose bool
}

// Bind registers the persistent flags on the root command.
func (g *Globals) Bind(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVar(&g.URL, "url", "", "Cluster HTTP address, e.g. http://localhost:8081 (env: "+config.EnvURL+")")
	f.StringVarP(&g.Output, "output", "o", "", "Output format: table, json or yaml (env: "+config.EnvOutput+")")
	f.BoolVarP(&g.Verbose, "verbose", "v", false, "Log requests and show server stack traces")
}

// settings are the effective client settings: flag, then config file,
// then environment.
type settings struct {
	URL    string
	Output string
	cfg    config.Config
}

// resolve merges flags over the loaded configuration.
func resolve(env *Env, g *Globals) (settings, error) {
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return settings{}, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}
	s := settings{URL: cfg.URL, Output: cfg.Output, cfg: cfg}
	if g.URL != "" {
		if err := config.Validate(config.KeyURL, g.URL); err != nil {
			return settings{}, err
		}
		s.URL = strings.TrimRight(g.URL, "/")
	}
	if g.Output != "" {
		if err := config.Validate(config.KeyOutput, g.Output); err != nil {
			return settings{}, err
		}
		s.Output = g.Output
	}
	if s.Output == "" {
		s.Output = config.DefaultOutput
	}
	return s, nil
}

// ErrorOptions returns the rendering options for a failed command. The
// URL is resolved best-effort; a broken configuration yields no URL.
func ErrorOptions(env *Env, g *Globals) render.ErrorOptions {
	s, _ := resolve(env, g)
	return render.ErrorOptions{URL: s.URL, Verbose: g.Verbose}
}

// connect resolves settings and opens a connection carrying the stored session.
func connect(env *Env, g *Globals) (*Conn, settings, error) {
	s, err := resolve(env, g)
	if err != nil {
		return nil, s, err
	}
	if s.URL == "" {
		return nil, s, ErrURLMissing
	}

	sess, err := env.SessionStore.Load(s.URL)
	if err != nil {
		return nil, s, err
	}

	conn, err := env.ClientFactory.Connect(ConnectOptions{
		URL:     s.URL,
		Timeout: s.cfg.Timeout,
		Cookie:  sess.Cookie,
		Logger:  logging.New(env.Stderr, g.Verbose).With("cluster", s.URL),
	})
	if err != nil {
		return nil, s, err
	}
	return conn, s, nil
}

// runAdmin connects and runs fn with the cluster API.
func runAdmin(ctx context.Context, env *Env, g *Globals, fn func(ctx context.Context, a Admin, s settings) error) error {
	conn, s, err := connect(env, g)
	if err != nil {
		return err
	}
	return fn(ctx, conn.Admin, s)
}

// emit writes v in the selected output format.
func emit(env *Env, s settings, v any) error {
	out, err := render.NewFormatter(s.Output).Format(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(env.Stdout, out)
	return err
}
