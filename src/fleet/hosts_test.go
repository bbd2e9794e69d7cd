package fleet

import (
	"testing"

	"github.com/stakeworks/fleet/src/common"
)

func TestResolveHosts(t *testing.T) {
	addrs := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}

	hosts, err := ResolveHosts(addrs)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if len(hosts) != 3 {
		t.Fatalf("hosts: %v", hosts)
	}

	for i, h := range hosts {
		if h.Address != addrs[i] {
			t.Fatalf("hosts[%d].Address should be %s, not %s", i, addrs[i], h.Address)
		}
		if h.Position != i+1 {
			t.Fatalf("hosts[%d].Position should be %d, not %d", i, i+1, h.Position)
		}
	}
}

func TestResolveHostsEmpty(t *testing.T) {
	_, err := ResolveHosts(nil)
	if err == nil || !common.Is(err, common.Configuration) {
		t.Fatalf("Should return Configuration error, got %v", err)
	}
}

func TestBootstrap(t *testing.T) {
	hosts, err := ResolveHosts([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	b := Bootstrap(hosts)
	if b.Address != "a" {
		t.Fatalf("bootstrap should be a, not %s", b.Address)
	}
	if !b.IsBootstrap() {
		t.Fatalf("position 1 should be bootstrap")
	}
	if hosts[1].IsBootstrap() {
		t.Fatalf("position 2 should not be bootstrap")
	}

	// Re-ordering the same set of hosts elects a different bootstrap peer.
	reordered, err := ResolveHosts([]string{"c", "a", "b"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if Bootstrap(reordered).Address != "c" {
		t.Fatalf("bootstrap should follow input order")
	}
}
