// Package env provides host-level identity for rig processes.
package env

import "github.com/denisbrodbeck/machineid"

// MachineID returns a stable ID of the host, used as the default rig
// ID so restarts keep the same identity. It panics when the host has
// none.
func MachineID() string {
	id, err := machineid.ID()
	if err != nil {
		panic(err)
	}
	return id
}
