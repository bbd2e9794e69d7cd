package fleet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stakeworks/fleet/src/chainspec"
	"github.com/stakeworks/fleet/src/common"
	"github.com/stakeworks/fleet/src/keys"
)

const testChainspec = `[genesis]
name = "meshnet-1"
timestamp = {{genesis-timestamp}}

[network]
known_peers = ["{{known-peers}}"]
`

const testNodeConfig = `[network]
public_address = "{{public-address}}"
known_addresses = ["{{known-peers}}"]
genesis_timestamp = {{genesis-timestamp}}
`

func testProvisioner(t *testing.T, poolSize int) (*Provisioner, string, string) {
	dir := t.TempDir()

	pool := keys.NewPool(filepath.Join(dir, "keys"))
	if err := pool.Generate(poolSize); err != nil {
		t.Fatalf("err: %v", err)
	}

	specPath := filepath.Join(dir, "chainspec.toml")
	if err := os.WriteFile(specPath, []byte(testChainspec), 0644); err != nil {
		t.Fatalf("err: %v", err)
	}

	confPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(confPath, []byte(testNodeConfig), 0644); err != nil {
		t.Fatalf("err: %v", err)
	}

	p := &Provisioner{
		Pool:          pool,
		StagingDir:    filepath.Join(dir, "staging"),
		GossipPort:    34553,
		GenesisOffset: 2 * time.Minute,
		Logger:        common.NewTestLogger(t),
		Now: func() time.Time {
			return time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)
		},
	}

	return p, specPath, confPath
}

func TestProvisionStage(t *testing.T) {
	p, specPath, confPath := testProvisioner(t, 5)

	addrs := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}
	hosts, err := ResolveHosts(addrs)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if err := p.Stage(hosts, specPath, confPath); err != nil {
		t.Fatalf("err: %v", err)
	}

	genesis := chainspec.GenesisTime(p.Now(), p.GenesisOffset)
	if genesis <= p.Now().UnixNano()/int64(time.Millisecond) {
		t.Fatalf("genesis should be in the future")
	}

	// Each host gets the pool identity matching its position.
	for _, h := range hosts {
		staged, err := os.ReadFile(filepath.Join(p.StagingDir, h.Address+".pem"))
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		original, err := os.ReadFile(p.Pool.KeyPath(h.Position))
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if string(staged) != string(original) {
			t.Fatalf("host %s should hold pool identity %d", h.Address, h.Position)
		}
	}

	// The shared chain specification carries the genesis timestamp and the
	// bootstrap peer, and no unexpanded placeholder.
	spec, err := os.ReadFile(filepath.Join(p.StagingDir, "chainspec.toml"))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !strings.Contains(string(spec), fmt.Sprintf("timestamp = %d", genesis)) {
		t.Fatalf("chainspec missing genesis timestamp: %s", spec)
	}
	if !strings.Contains(string(spec), `"10.0.0.1:34553"`) {
		t.Fatalf("chainspec missing bootstrap peer: %s", spec)
	}
	if strings.Contains(string(spec), "{{") {
		t.Fatalf("chainspec has unexpanded placeholders: %s", spec)
	}

	// Per-host documents differ only in the public-address field.
	expected := strings.ReplaceAll(testNodeConfig, chainspec.TimestampField, fmt.Sprintf("%d", genesis))
	expected = strings.ReplaceAll(expected, chainspec.KnownPeersField, "10.0.0.1:34553")

	for _, h := range hosts {
		doc, err := os.ReadFile(filepath.Join(p.StagingDir, h.Address+"-config.toml"))
		if err != nil {
			t.Fatalf("err: %v", err)
		}

		want := strings.ReplaceAll(expected, chainspec.PublicAddressField, h.Address+":34553")
		if string(doc) != want {
			t.Fatalf("host %s config should be %q, not %q", h.Address, want, doc)
		}
	}
}

func TestProvisionStagePoolExhausted(t *testing.T) {
	p, specPath, confPath := testProvisioner(t, 2)

	hosts, err := ResolveHosts([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	err = p.Stage(hosts, specPath, confPath)
	if err == nil || !common.Is(err, common.PoolExhausted) {
		t.Fatalf("Should return PoolExhausted error, got %v", err)
	}

	// The exhausted pool must abort before any document is written.
	if _, err := os.Stat(filepath.Join(p.StagingDir, "chainspec.toml")); !os.IsNotExist(err) {
		t.Fatalf("no document should be staged after a pool failure")
	}
}

func TestProvisionStageTemplateMismatch(t *testing.T) {
	p, _, confPath := testProvisioner(t, 5)

	// A chainspec baseline without a timestamp field has drifted from the
	// substitution rules.
	stale := filepath.Join(t.TempDir(), "chainspec.toml")
	if err := os.WriteFile(stale, []byte("[genesis]\nname = \"x\"\n"), 0644); err != nil {
		t.Fatalf("err: %v", err)
	}

	hosts, err := ResolveHosts([]string{"a", "b"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	err = p.Stage(hosts, stale, confPath)
	if err == nil || !common.Is(err, common.TemplateMismatch) {
		t.Fatalf("Should return TemplateMismatch error, got %v", err)
	}
}
