// Package fleet contains the orchestration core: resolving the ordered host
// list, electing the bootstrap peer, dispatching lifecycle commands, and
// fanning them out to every host in parallel.
//
// The host list is the only identity key in the system. Position in the
// invocation's argument order binds a host to its identity file and decides
// which host is the bootstrap peer, so callers must supply hosts in the same
// order across all lifecycle actions for a given network. Nothing is
// persisted between invocations.
package fleet

import (
	"github.com/stakeworks/fleet/src/common"
)

// Host is one remote machine in the fleet: an address plus its 1-based
// position in the invocation's host list.
type Host struct {
	Address  string
	Position int
}

// IsBootstrap reports whether this host is the elected bootstrap peer.
func (h Host) IsBootstrap() bool {
	return h.Position == 1
}

// ResolveHosts turns the trailing CLI arguments into an ordered sequence of
// Host records. It fails with a Configuration error when the list is empty.
func ResolveHosts(args []string) ([]Host, error) {
	if len(args) == 0 {
		return nil, common.NewFleetErr(common.Configuration,
			"at least one host is required")
	}

	hosts := make([]Host, len(args))
	for i, addr := range args {
		hosts[i] = Host{
			Address:  addr,
			Position: i + 1,
		}
	}

	return hosts, nil
}

// Bootstrap elects the bootstrap peer: always the host at position 1. The
// designation is derived from input order on every invocation, never stored,
// so any action recomputes the same peer given the same host list.
func Bootstrap(hosts []Host) Host {
	return hosts[0]
}
