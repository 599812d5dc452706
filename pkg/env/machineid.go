// Package env provides facts about the host the relay runs on.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID scopes the machine id so the raw id is never published.
const AppID = "relay.go"

// MachineID retrieves an ID identifying the machine. It falls back to
// the hostname when the platform id is unavailable (e.g. containers).
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err == nil {
		return id[:12]
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "relay"
}
