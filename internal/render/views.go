package render

import (
	"strconv"
	"strings"

	"github.com/alnah/clusteradm/internal/cluster"
	"github.com/alnah/clusteradm/internal/format"
)

// Named views over cluster types. They marshal exactly like the
// underlying type and add a table layout.
type (
	Servers      []cluster.Server
	Replicasets  []cluster.Replicaset
	Issues       []cluster.Issue
	Users        []cluster.User
	ServerDetail cluster.Server
	Summary      cluster.Summary
	Failover     cluster.FailoverParams
	Auth         cluster.AuthParams
)

var detailHeader = []string{"FIELD", "VALUE"}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func shortUUID(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return orDash(s)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (Servers) Header() []string {
	return []string{"ALIAS", "URI", "STATUS", "REPLICASET", "MODE", "UPTIME", "MEMORY", "UUID"}
}

func (s Servers) Rows() [][]string {
	rows := make([][]string, 0, len(s))
	for _, srv := range s {
		rs, mode, uptime, memory := "-", "-", "-", "-"
		if srv.Replicaset != nil {
			rs = shortUUID(srv.Replicaset.UUID)
		}
		if srv.BoxInfo != nil && srv.BoxInfo.General != nil {
			mode = "rw"
			if srv.BoxInfo.General.RO {
				mode = "ro"
			}
			uptime = format.Uptime(srv.BoxInfo.General.Uptime)
		}
		if srv.Statistics != nil {
			memory = format.Usage(srv.Statistics.ArenaUsed, srv.Statistics.QuotaSize)
		}
		status := srv.Status
		if !srv.Configured() {
			status = "unconfigured"
		}
		rows = append(rows, []string{
			orDash(srv.Alias), srv.URI, orDash(status), rs, mode, uptime, memory, orDash(srv.UUID),
		})
	}
	return rows
}

func (Replicasets) Header() []string {
	return []string{"ALIAS", "STATUS", "ROLES", "MASTER", "SERVERS", "WEIGHT", "UUID"}
}

func (r Replicasets) Rows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, rs := range r {
		master := rs.ActiveMaster.UUID
		for _, srv := range rs.Servers {
			if srv.UUID == master && srv.Alias != "" {
				master = srv.Alias
				break
			}
		}
		weight := "-"
		if rs.Weight != nil {
			weight = strconv.FormatFloat(*rs.Weight, 'g', -1, 64)
		}
		rows = append(rows, []string{
			orDash(rs.Alias),
			orDash(rs.Status),
			orDash(strings.Join(rs.Roles, ",")),
			orDash(master),
			strconv.Itoa(len(rs.Servers)),
			weight,
			rs.UUID,
		})
	}
	return rows
}

func (Issues) Header() []string {
	return []string{"LEVEL", "TOPIC", "MESSAGE"}
}

func (is Issues) Rows() [][]string {
	rows := make([][]string, 0, len(is))
	for _, i := range is {
		rows = append(rows, []string{i.Level, i.Topic, i.Message})
	}
	return rows
}

func (Users) Header() []string {
	return []string{"USERNAME", "FULLNAME", "EMAIL"}
}

func (us Users) Rows() [][]string {
	rows := make([][]string, 0, len(us))
	for _, u := range us {
		rows = append(rows, []string{u.Username, orDash(u.Fullname), orDash(u.Email)})
	}
	return rows
}

func (ServerDetail) Header() []string { return detailHeader }

func (d ServerDetail) Rows() [][]string {
	rows := [][]string{
		{"UUID", orDash(d.UUID)},
		{"Alias", orDash(d.Alias)},
		{"URI", d.URI},
		{"Status", orDash(d.Status)},
	}
	if d.Message != "" {
		rows = append(rows, []string{"Message", d.Message})
	}
	if d.BoxInfo == nil {
		return rows
	}
	if g := d.BoxInfo.General; g != nil {
		rows = append(rows,
			[]string{"Version", orDash(g.Version)},
			[]string{"App version", orDash(g.AppVersion)},
			[]string{"Read only", yesNo(g.RO)},
			[]string{"Uptime", format.Uptime(g.Uptime)},
			[]string{"PID", strconv.Itoa(g.PID)},
			[]string{"Listen", orDash(g.Listen)},
			[]string{"Work dir", orDash(g.WorkDir)},
		)
	}
	if s := d.BoxInfo.Storage; s != nil {
		rows = append(rows,
			[]string{"Memtx memory", format.Size(s.MemtxMemory)},
			[]string{"Vinyl memory", format.Size(s.VinylMemory)},
			[]string{"WAL mode", orDash(s.WALMode)},
		)
	}
	if r := d.BoxInfo.Replication; r != nil {
		for _, p := range r.Peers {
			state := orDash(p.UpstreamStatus)
			if p.UpstreamMsg != "" {
				state += " (" + p.UpstreamMsg + ")"
			}
			rows = append(rows, []string{"Replica " + strconv.Itoa(p.ID), shortUUID(p.UUID) + " upstream " + state})
		}
	}
	return rows
}

func (Summary) Header() []string { return detailHeader }

func (s Summary) Rows() [][]string {
	auth := "-"
	if s.Auth != nil {
		auth = "disabled"
		if s.Auth.Enabled {
			auth = "enabled"
		}
	}
	return [][]string{
		{"Servers", strconv.Itoa(len(s.Servers))},
		{"Healthy", strconv.Itoa(s.Healthy)},
		{"Unhealthy", strconv.Itoa(s.Unhealthy)},
		{"Unconfigured", strconv.Itoa(s.Unconfig)},
		{"Issues", strconv.Itoa(len(s.Issues))},
		{"Auth", auth},
	}
}

func (Failover) Header() []string { return detailHeader }

func (f Failover) Rows() [][]string {
	rows := [][]string{
		{"Mode", f.Mode},
		{"State provider", orDash(f.StateProvider)},
		{"Failover timeout", strconv.FormatFloat(f.FailoverTimeout, 'g', -1, 64) + "s"},
		{"Fencing", yesNo(f.FencingEnabled)},
	}
	if f.FencingEnabled {
		rows = append(rows,
			[]string{"Fencing timeout", strconv.FormatFloat(f.FencingTimeout, 'g', -1, 64) + "s"},
			[]string{"Fencing pause", strconv.FormatFloat(f.FencingPause, 'g', -1, 64) + "s"},
		)
	}
	return append(rows, []string{"Leader autoreturn", yesNo(f.LeaderAutoreturn)})
}

func (Auth) Header() []string { return detailHeader }

func (a Auth) Rows() [][]string {
	return [][]string{
		{"Enabled", yesNo(a.Enabled)},
		{"Username", orDash(a.Username)},
	}
}
