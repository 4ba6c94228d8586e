package cluster

// GraphQL documents sent by the admin console.

const serverListQuery = `query serverList {
  servers {
    uuid
    alias
    uri
    zone
    status
    message
    disabled
    electable
    replicaset { uuid }
    statistics {
      quota_size
      quota_used
      arena_size
      arena_used
      vshard_buckets_count
      arena_used_ratio
    }
    boxinfo { general { ro uptime version } }
  }
}`

const replicasetListQuery = `query replicasetList {
  replicasets {
    uuid
    alias
    status
    roles
    vshard_group
    weight
    all_rw
    master { uuid }
    active_master { uuid }
    servers { uuid alias uri status message disabled electable }
  }
}`

const serverInfoQuery = `query boxInfo($uuid: String) {
  servers(uuid: $uuid) {
    uuid
    alias
    uri
    status
    message
    replicaset { uuid }
    boxinfo {
      general { instance_uuid replicaset_uuid uptime version app_version ro pid listen work_dir }
      network { io_collect_interval net_msg_max readahead }
      replication {
        replication_connect_quorum
        replication_connect_timeout
        replication_sync_lag
        replication_timeout
        replication_info {
          id
          uuid
          lsn
          upstream_peer
          upstream_status
          upstream_lag
          upstream_message
          downstream_status
        }
      }
      storage { memtx_memory vinyl_memory wal_mode wal_max_size }
    }
  }
}`

const issuesQuery = `query issues {
  cluster {
    issues { level topic message replicaset_uuid instance_uuid }
  }
}`

const authQuery = `query Auth {
  cluster {
    auth_params { enabled username }
  }
}`

const turnAuthMutation = `mutation turnAuth($enabled: Boolean) {
  cluster {
    auth_params(enabled: $enabled) { enabled username }
  }
}`

const fetchUsersQuery = `query fetchUsers {
  cluster {
    users { username fullname email }
  }
}`

const addUserMutation = `mutation addUser($username: String!, $password: String!, $email: String!, $fullname: String!) {
  cluster {
    add_user(username: $username, password: $password, email: $email, fullname: $fullname) { username email fullname }
  }
}`

const editUserMutation = `mutation editUser($username: String!, $password: String, $email: String, $fullname: String) {
  cluster {
    edit_user(username: $username, password: $password, email: $email, fullname: $fullname) { username email fullname }
  }
}`

const removeUserMutation = `mutation removeUser($username: String!) {
  cluster {
    remove_user(username: $username) { username email fullname }
  }
}`

const failoverQuery = `query failover {
  cluster {
    failover_params {
      mode
      state_provider
      failover_timeout
      fencing_enabled
      fencing_timeout
      fencing_pause
      leader_autoreturn
    }
  }
}`

const changeFailoverMutation = `mutation changeFailover($mode: String!) {
  cluster {
    failover_params(mode: $mode) {
      mode
      state_provider
      failover_timeout
      fencing_enabled
      fencing_timeout
      fencing_pause
      leader_autoreturn
    }
  }
}`

const promoteMutation = `mutation promoteFailoverLeader($replicaset_uuid: String!, $instance_uuid: String!, $force_inconsistency: Boolean) {
  cluster {
    failover_promote(replicaset_uuid: $replicaset_uuid, instance_uuid: $instance_uuid, force_inconsistency: $force_inconsistency)
  }
}`

const probeMutation = `mutation probe($uri: String!) {
  probe_server(uri: $uri)
}`

const expelMutation = `mutation expel($servers: [EditServerInput!]) {
  cluster {
    edit_topology(servers: $servers) { servers { uuid } }
  }
}`

const bootstrapMutation = `mutation bootstrap {
  bootstrap_vshard
}`
