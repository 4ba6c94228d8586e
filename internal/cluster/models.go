package cluster

// Server is one cluster instance as seen by the topology query.
type Server struct {
	UUID       string      `json:"uuid" yaml:"uuid"`
	Alias      string      `json:"alias" yaml:"alias"`
	URI        string      `json:"uri" yaml:"uri"`
	Zone       string      `json:"zone,omitempty" yaml:"zone,omitempty"`
	Status     string      `json:"status" yaml:"status"`
	Message    string      `json:"message" yaml:"message"`
	Disabled   bool        `json:"disabled" yaml:"disabled"`
	Electable  bool        `json:"electable" yaml:"electable"`
	Replicaset *Ref        `json:"replicaset,omitempty" yaml:"replicaset,omitempty"`
	Statistics *Statistics `json:"statistics,omitempty" yaml:"statistics,omitempty"`
	BoxInfo    *BoxInfo    `json:"boxinfo,omitempty" yaml:"boxinfo,omitempty"`
}

// Configured reports whether the server has joined a replicaset.
func (s Server) Configured() bool {
	return s.UUID != ""
}

// Healthy reports whether the backend considers the server alive.
func (s Server) Healthy() bool {
	return s.Status == "healthy"
}

// Ref is a reference to another entity by UUID.
type Ref struct {
	UUID string `json:"uuid" yaml:"uuid"`
}

// Statistics are the memory counters of a server.
type Statistics struct {
	QuotaSize    int64   `json:"quota_size" yaml:"quota_size"`
	QuotaUsed    int64   `json:"quota_used" yaml:"quota_used"`
	ArenaSize    int64   `json:"arena_size" yaml:"arena_size"`
	ArenaUsed    int64   `json:"arena_used" yaml:"arena_used"`
	BucketsCount int     `json:"vshard_buckets_count" yaml:"vshard_buckets_count"`
	ArenaRatio   float64 `json:"arena_used_ratio" yaml:"arena_used_ratio"`
}

// BoxInfo is the runtime information of a single server.
type BoxInfo struct {
	General     *GeneralInfo     `json:"general,omitempty" yaml:"general,omitempty"`
	Network     *NetworkInfo     `json:"network,omitempty" yaml:"network,omitempty"`
	Replication *ReplicationInfo `json:"replication,omitempty" yaml:"replication,omitempty"`
	Storage     *StorageInfo     `json:"storage,omitempty" yaml:"storage,omitempty"`
}

type GeneralInfo struct {
	InstanceUUID   string  `json:"instance_uuid" yaml:"instance_uuid"`
	ReplicasetUUID string  `json:"replicaset_uuid" yaml:"replicaset_uuid"`
	Uptime         float64 `json:"uptime" yaml:"uptime"`
	Version        string  `json:"version" yaml:"version"`
	AppVersion     string  `json:"app_version" yaml:"app_version"`
	RO             bool    `json:"ro" yaml:"ro"`
	PID            int     `json:"pid" yaml:"pid"`
	Listen         string  `json:"listen" yaml:"listen"`
	WorkDir        string  `json:"work_dir" yaml:"work_dir"`
}

type NetworkInfo struct {
	IOCollectInterval float64 `json:"io_collect_interval" yaml:"io_collect_interval"`
	NetMsgMax         int     `json:"net_msg_max" yaml:"net_msg_max"`
	Readahead         int     `json:"readahead" yaml:"readahead"`
}

type ReplicationInfo struct {
	ConnectQuorum  int            `json:"replication_connect_quorum" yaml:"replication_connect_quorum"`
	ConnectTimeout float64        `json:"replication_connect_timeout" yaml:"replication_connect_timeout"`
	SyncLag        float64        `json:"replication_sync_lag" yaml:"replication_sync_lag"`
	Timeout        float64        `json:"replication_timeout" yaml:"replication_timeout"`
	Peers          []ReplicaState `json:"replication_info" yaml:"replication_info"`
}

// ReplicaState is the replication link to one peer.
type ReplicaState struct {
	ID             int     `json:"id" yaml:"id"`
	UUID           string  `json:"uuid" yaml:"uuid"`
	LSN            int64   `json:"lsn" yaml:"lsn"`
	UpstreamPeer   string  `json:"upstream_peer" yaml:"upstream_peer"`
	UpstreamStatus string  `json:"upstream_status" yaml:"upstream_status"`
	UpstreamLag    float64 `json:"upstream_lag" yaml:"upstream_lag"`
	UpstreamMsg    string  `json:"upstream_message" yaml:"upstream_message"`
	Downstream     string  `json:"downstream_status" yaml:"downstream_status"`
}

type StorageInfo struct {
	MemtxMemory int64  `json:"memtx_memory" yaml:"memtx_memory"`
	VinylMemory int64  `json:"vinyl_memory" yaml:"vinyl_memory"`
	WALMode     string `json:"wal_mode" yaml:"wal_mode"`
	WALMaxSize  int64  `json:"wal_max_size" yaml:"wal_max_size"`
}

// Replicaset is a group of servers replicating the same data.
type Replicaset struct {
	UUID         string   `json:"uuid" yaml:"uuid"`
	Alias        string   `json:"alias" yaml:"alias"`
	Status       string   `json:"status" yaml:"status"`
	Roles        []string `json:"roles" yaml:"roles"`
	VshardGroup  string   `json:"vshard_group,omitempty" yaml:"vshard_group,omitempty"`
	Weight       *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	AllRW        bool     `json:"all_rw" yaml:"all_rw"`
	Master       Ref      `json:"master" yaml:"master"`
	ActiveMaster Ref      `json:"active_master" yaml:"active_master"`
	Servers      []Server `json:"servers" yaml:"servers"`
}

// Issue is a problem the backend detected in the cluster.
type Issue struct {
	Level          string `json:"level" yaml:"level"`
	Topic          string `json:"topic" yaml:"topic"`
	Message        string `json:"message" yaml:"message"`
	ReplicasetUUID string `json:"replicaset_uuid,omitempty" yaml:"replicaset_uuid,omitempty"`
	InstanceUUID   string `json:"instance_uuid,omitempty" yaml:"instance_uuid,omitempty"`
}

// AuthParams describes the cluster authentication settings.
type AuthParams struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Username string `json:"username" yaml:"username"`
}

// User is an account of the cluster's auth backend.
type User struct {
	Username string `json:"username" yaml:"username"`
	Fullname string `json:"fullname" yaml:"fullname"`
	Email    string `json:"email" yaml:"email"`
}

// UserInput carries add/edit fields. Empty optional fields are not sent on edit.
type UserInput struct {
	Username string
	Password string
	Fullname string
	Email    string
}

// FailoverParams are the failover settings of the cluster.
type FailoverParams struct {
	Mode             string  `json:"mode" yaml:"mode"`
	StateProvider    string  `json:"state_provider,omitempty" yaml:"state_provider,omitempty"`
	FailoverTimeout  float64 `json:"failover_timeout" yaml:"failover_timeout"`
	FencingEnabled   bool    `json:"fencing_enabled" yaml:"fencing_enabled"`
	FencingTimeout   float64 `json:"fencing_timeout" yaml:"fencing_timeout"`
	FencingPause     float64 `json:"fencing_pause" yaml:"fencing_pause"`
	LeaderAutoreturn bool    `json:"leader_autoreturn" yaml:"leader_autoreturn"`
}

// Failover modes accepted by the backend.
const (
	FailoverDisabled = "disabled"
	FailoverEventual = "eventual"
	FailoverStateful = "stateful"
	FailoverRaft     = "raft"
)

// FailoverModes lists the valid modes in display order.
var FailoverModes = []string{FailoverDisabled, FailoverEventual, FailoverStateful, FailoverRaft}

// Summary is the dashboard view assembled by Status.
type Summary struct {
	Servers   []Server    `json:"servers" yaml:"servers"`
	Issues    []Issue     `json:"issues" yaml:"issues"`
	Auth      *AuthParams `json:"auth" yaml:"auth"`
	Healthy   int         `json:"healthy" yaml:"healthy"`
	Unhealthy int         `json:"unhealthy" yaml:"unhealthy"`
	Unconfig  int         `json:"unconfigured" yaml:"unconfigured"`
}
