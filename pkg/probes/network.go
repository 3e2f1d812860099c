package probes

import (
	"github.com/shirou/gopsutil/v3/net"

	"github.com/aegis-watch/aegisd/pkg/errors"
)

// SystemConnectionLister lists inet connections through gopsutil.
type SystemConnectionLister struct{}

func NewSystemConnectionLister() *SystemConnectionLister {
	return &SystemConnectionLister{}
}

// Snapshot returns the connections currently in the ESTABLISHED state.
// Entries with no remote endpoint are skipped.
func (s *SystemConnectionLister) Snapshot() ([]ConnectionSnapshot, error) {
	connections, err := net.Connections("inet")
	if err != nil {
		return nil, errors.NewUnavailable("network connections", err)
	}

	var snapshots []ConnectionSnapshot
	for _, conn := range connections {
		if conn.Status != "ESTABLISHED" || conn.Raddr.IP == "" {
			continue
		}
		snapshots = append(snapshots, ConnectionSnapshot{
			LocalAddr:  conn.Laddr.IP,
			RemoteAddr: conn.Raddr.IP,
			RemotePort: conn.Raddr.Port,
			Status:     conn.Status,
			PID:        conn.Pid,
		})
	}

	return snapshots, nil
}
