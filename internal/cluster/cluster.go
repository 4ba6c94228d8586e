// Package cluster exposes the admin operations of the cluster backend as
// typed Go calls over the GraphQL and REST transports.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/alnah/clusteradm/internal/apierr"
	"github.com/alnah/clusteradm/internal/graphql"
)

var (
	// ErrInvalidUUID indicates a malformed server or replicaset UUID argument.
	ErrInvalidUUID = errors.New("invalid UUID")

	// ErrInvalidFailoverMode indicates a mode not in FailoverModes.
	ErrInvalidFailoverMode = errors.New("invalid failover mode")

	// ErrInvalidConfig indicates a clusterwide configuration document that is not a YAML mapping.
	ErrInvalidConfig = errors.New("invalid cluster configuration")

	// ErrEmptyUsername indicates a user operation without a username.
	ErrEmptyUsername = errors.New("username is required")
)

// GraphQLDoer sends GraphQL operations.
type GraphQLDoer interface {
	Do(ctx context.Context, req graphql.Request, out any) error
}

// ConfigTransport reads and writes the clusterwide configuration document.
type ConfigTransport interface {
	DownloadConfig(ctx context.Context) ([]byte, error)
	UploadConfig(ctx context.Context, doc []byte) error
}

// API is the admin surface of one cluster.
type API struct {
	gql  GraphQLDoer
	rest ConfigTransport
}

// New creates an API over the given transports.
func New(gql GraphQLDoer, rest ConfigTransport) *API {
	return &API{gql: gql, rest: rest}
}

func validateUUID(kind, s string) error {
	if _, err := uuid.Parse(s); err != nil {
		return fmt.Errorf("%s %q: %w", kind, s, ErrInvalidUUID)
	}
	return nil
}

// ListServers returns every known server, configured or not.
func (a *API) ListServers(ctx context.Context) ([]Server, error) {
	var out struct {
		Servers []Server `json:"servers"`
	}
	if err := a.gql.Do(ctx, graphql.Request{Query: serverListQuery, OperationName: "serverList"}, &out); err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	return out.Servers, nil
}

// ListReplicasets returns the replicasets with their servers.
func (a *API) ListReplicasets(ctx context.Context) ([]Replicaset, error) {
	var out struct {
		Replicasets []Replicaset `json:"replicasets"`
	}
	if err := a.gql.Do(ctx, graphql.Request{Query: replicasetListQuery, OperationName: "replicasetList"}, &out); err != nil {
		return nil, fmt.Errorf("list replicasets: %w", err)
	}
	return out.Replicasets, nil
}

// ServerInfo returns the detailed runtime information of one server.
func (a *API) ServerInfo(ctx context.Context, serverUUID string) (*Server, error) {
	if err := validateUUID("server", serverUUID); err != nil {
		return nil, err
	}
	var out struct {
		Servers []Server `json:"servers"`
	}
	req := graphql.Request{
		Query:         serverInfoQuery,
		OperationName: "boxInfo",
		Variables:     map[string]any{"uuid": serverUUID},
	}
	if err := a.gql.Do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("server %s: %w", serverUUID, err)
	}
	if len(out.Servers) == 0 {
		return nil, fmt.Errorf("server %s: %w", serverUUID, apierr.ErrNotFound)
	}
	return &out.Servers[0], nil
}

// Issues returns the problems the backend currently reports.
func (a *API) Issues(ctx context.Context) ([]Issue, error) {
	var out struct {
		Cluster struct {
			Issues []Issue `json:"issues"`
		} `json:"cluster"`
	}
	if err := a.gql.Do(ctx, graphql.Request{Query: issuesQuery, OperationName: "issues"}, &out); err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return out.Cluster.Issues, nil
}

type authEnvelope struct {
	Cluster struct {
		AuthParams AuthParams `json:"auth_params"`
	} `json:"cluster"`
}

// AuthParams returns the authentication settings and the current user.
func (a *API) AuthParams(ctx context.Context) (*AuthParams, error) {
	var out authEnvelope
	if err := a.gql.Do(ctx, graphql.Request{Query: authQuery, OperationName: "Auth"}, &out); err != nil {
		return nil, fmt.Errorf("auth params: %w", err)
	}
	return &out.Cluster.AuthParams, nil
}

// SetAuthEnabled turns cluster authentication on or off.
func (a *API) SetAuthEnabled(ctx context.Context, enabled bool) (*AuthParams, error) {
	var out authEnvelope
	req := graphql.Request{
		Query:         turnAuthMutation,
		OperationName: "turnAuth",
		Variables:     map[string]any{"enabled": enabled},
	}
	if err := a.gql.Do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("set auth enabled=%t: %w", enabled, err)
	}
	return &out.Cluster.AuthParams, nil
}

// ListUsers returns the accounts of the auth backend.
func (a *API) ListUsers(ctx context.Context) ([]User, error) {
	var out struct {
		Cluster struct {
			Users []User `json:"users"`
		} `json:"cluster"`
	}
	if err := a.gql.Do(ctx, graphql.Request{Query: fetchUsersQuery, OperationName: "fetchUsers"}, &out); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out.Cluster.Users, nil
}

// AddUser creates an account.
func (a *API) AddUser(ctx context.Context, in UserInput) (*User, error) {
	if in.Username == "" {
		return nil, ErrEmptyUsername
	}
	var out struct {
		Cluster struct {
			User User `json:"add_user"`
		} `json:"cluster"`
	}
	req := graphql.Request{
		Query:         addUserMutation,
		OperationName: "addUser",
		Variables: map[string]any{
			"username": in.Username,
			"password": in.Password,
			"email":    in.Email,
			"fullname": in.Fullname,
		},
	}
	if err := a.gql.Do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("add user %q: %w", in.Username, err)
	}
	return &out.Cluster.User, nil
}

// EditUser updates an account. Empty fields are left unchanged.
func (a *API) EditUser(ctx context.Context, in UserInput) (*User, error) {
	if in.Username == "" {
		return nil, ErrEmptyUsername
	}
	vars := map[string]any{"username": in.Username}
	if in.Password != "" {
		vars["password"] = in.Password
	}
	if in.Email != "" {
		vars["email"] = in.Email
	}
	if in.Fullname != "" {
		vars["fullname"] = in.Fullname
	}

	var out struct {
		Cluster struct {
			User User `json:"edit_user"`
		} `json:"cluster"`
	}
	if err := a.gql.Do(ctx, graphql.Request{Query: editUserMutation, OperationName: "editUser", Variables: vars}, &out); err != nil {
		return nil, fmt.Errorf("edit user %q: %w", in.Username, err)
	}
	return &out.Cluster.User, nil
}

// RemoveUser deletes an account.
func (a *API) RemoveUser(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	var out struct {
		Cluster struct {
			User User `json:"remove_user"`
		} `json:"cluster"`
	}
	req := graphql.Request{
		Query:         removeUserMutation,
		OperationName: "removeUser",
		Variables:     map[string]any{"username": username},
	}
	if err := a.gql.Do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("remove user %q: %w", username, err)
	}
	return &out.Cluster.User, nil
}

type failoverEnvelope struct {
	Cluster struct {
		FailoverParams FailoverParams `json:"failover_params"`
	} `json:"cluster"`
}

// Failover returns the failover settings.
func (a *API) Failover(ctx context.Context) (*FailoverParams, error) {
	var out failoverEnvelope
	if err := a.gql.Do(ctx, graphql.Request{Query: failoverQuery, OperationName: "failover"}, &out); err != nil {
		return nil, fmt.Errorf("failover params: %w", err)
	}
	return &out.Cluster.FailoverParams, nil
}

// SetFailoverMode changes the failover mode.
func (a *API) SetFailoverMode(ctx context.Context, mode string) (*FailoverParams, error) {
	if !slices.Contains(FailoverModes, mode) {
		return nil, fmt.Errorf("%q (valid: %v): %w", mode, FailoverModes, ErrInvalidFailoverMode)
	}
	var out failoverEnvelope
	req := graphql.Request{
		Query:         changeFailoverMutation,
		OperationName: "changeFailover",
		Variables:     map[string]any{"mode": mode},
	}
	if err := a.gql.Do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("set failover mode %s: %w", mode, err)
	}
	return &out.Cluster.FailoverParams, nil
}

// PromoteLeader makes instanceUUID the leader of replicasetUUID.
func (a *API) PromoteLeader(ctx context.Context, replicasetUUID, instanceUUID string, force bool) error {
	if err := validateUUID("replicaset", replicasetUUID); err != nil {
		return err
	}
	if err := validateUUID("instance", instanceUUID); err != nil {
		return err
	}
	req := graphql.Request{
		Query:         promoteMutation,
		OperationName: "promoteFailoverLeader",
		Variables: map[string]any{
			"replicaset_uuid":     replicasetUUID,
			"instance_uuid":       instanceUUID,
			"force_inconsistency": force,
		},
	}
	if err := a.gql.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("promote %s in %s: %w", instanceUUID, replicasetUUID, err)
	}
	return nil
}

// Probe asks the cluster to discover the server listening at uri.
func (a *API) Probe(ctx context.Context, uri string) error {
	req := graphql.Request{Query: probeMutation, OperationName: "probe", Variables: map[string]any{"uri": uri}}
	if err := a.gql.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("probe %s: %w", uri, err)
	}
	return nil
}

// Expel permanently removes a server from the topology.
func (a *API) Expel(ctx context.Context, serverUUID string) error {
	if err := validateUUID("server", serverUUID); err != nil {
		return err
	}
	req := graphql.Request{
		Query:         expelMutation,
		OperationName: "expel",
		Variables: map[string]any{
			"servers": []map[string]any{{"uuid": serverUUID, "expelled": true}},
		},
	}
	if err := a.gql.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("expel %s: %w", serverUUID, err)
	}
	return nil
}

// BootstrapVshard distributes the buckets across storage replicasets.
func (a *API) BootstrapVshard(ctx context.Context) error {
	if err := a.gql.Do(ctx, graphql.Request{Query: bootstrapMutation, OperationName: "bootstrap"}, nil); err != nil {
		return fmt.Errorf("bootstrap vshard: %w", err)
	}
	return nil
}

// DownloadConfig returns the clusterwide configuration YAML document.
func (a *API) DownloadConfig(ctx context.Context) ([]byte, error) {
	doc, err := a.rest.DownloadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("download config: %w", err)
	}
	return doc, nil
}

// UploadConfig validates doc locally and replaces the clusterwide configuration.
func (a *API) UploadConfig(ctx context.Context, doc []byte) error {
	if err := ValidateConfig(doc); err != nil {
		return err
	}
	if err := a.rest.UploadConfig(ctx, doc); err != nil {
		return fmt.Errorf("upload config: %w", err)
	}
	return nil
}

// ValidateConfig checks that doc is a YAML mapping of section names.
func ValidateConfig(doc []byte) error {
	var sections map[string]any
	if err := yaml.Unmarshal(doc, &sections); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if sections == nil {
		return fmt.Errorf("%w: document is empty", ErrInvalidConfig)
	}
	return nil
}

// Status fetches servers, issues and auth settings concurrently.
func (a *API) Status(ctx context.Context) (*Summary, error) {
	var s Summary
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		servers, err := a.ListServers(ctx)
		s.Servers = servers
		return err
	})
	g.Go(func() error {
		issues, err := a.Issues(ctx)
		s.Issues = issues
		return err
	})
	g.Go(func() error {
		auth, err := a.AuthParams(ctx)
		s.Auth = auth
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, srv := range s.Servers {
		switch {
		case !srv.Configured():
			s.Unconfig++
		case srv.Healthy():
			s.Healthy++
		default:
			s.Unhealthy++
		}
	}
	return &s, nil
}
