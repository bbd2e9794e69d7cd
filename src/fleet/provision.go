package fleet

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stakeworks/fleet/src/chainspec"
	"github.com/stakeworks/fleet/src/keys"
)

// Provisioner performs the local, sequential half of the provision action:
// selecting and staging identities, stamping the genesis timestamp, and
// rendering per-host configuration documents. It runs to completion before
// any parallel fanout, so the shared documents are never written
// concurrently. Any error aborts the whole action; a partially-provisioned
// network is worse than none.
type Provisioner struct {
	Pool          *keys.Pool
	StagingDir    string
	GossipPort    int
	GenesisOffset time.Duration
	Logger        *logrus.Logger

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Stage prepares everything the provision fanout will push. chainspecPath
// and nodeConfigPath are the baseline template documents.
func (p *Provisioner) Stage(hosts []Host, chainspecPath, nodeConfigPath string) error {
	bootstrap := Bootstrap(hosts)

	// Identities first: running out of pool entries must abort before any
	// document is written.
	for _, h := range hosts {
		staged, err := p.Pool.Stage(h.Position, h.Address, p.StagingDir)
		if err != nil {
			return err
		}

		entry := p.Logger.WithField("prefix", h.Address)
		if pub, err := p.Pool.PublicKey(h.Position); err == nil {
			entry.WithField("pubkey", pub).Debugf("Staged identity %d", h.Position)
		} else {
			entry.Debugf("Staged identity %d at %s", h.Position, staged)
		}
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	genesis := chainspec.GenesisTime(now(), p.GenesisOffset)

	p.Logger.WithFields(logrus.Fields{
		"genesis":   genesis,
		"bootstrap": bootstrap.Address,
	}).Info("Provisioning")

	// The chain specification is shared: one copy, identical on every host.
	spec, err := chainspec.LoadRenderer(chainspecPath)
	if err != nil {
		return err
	}
	if err := spec.RenderShared(genesis, bootstrap.Address, p.GossipPort); err != nil {
		return err
	}
	if err := chainspec.ValidateTOML(spec.Shared()); err != nil {
		return err
	}
	if err := p.write("chainspec.toml", spec.Shared()); err != nil {
		return err
	}

	// The node configuration is derived per host from one shared render,
	// so the documents differ only in the public-address field.
	conf, err := chainspec.LoadRenderer(nodeConfigPath)
	if err != nil {
		return err
	}
	if err := conf.RenderShared(genesis, bootstrap.Address, p.GossipPort); err != nil {
		return err
	}

	for _, h := range hosts {
		doc, err := conf.RenderHost(h.Address, p.GossipPort)
		if err != nil {
			return err
		}
		if err := chainspec.ValidateTOML(doc); err != nil {
			return err
		}
		if err := p.write(fmt.Sprintf("%s-config.toml", h.Address), doc); err != nil {
			return err
		}
	}

	return nil
}

func (p *Provisioner) write(name, doc string) error {
	if err := os.MkdirAll(p.StagingDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(p.StagingDir, name), []byte(doc), 0644)
}
