package keys

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stakeworks/fleet/src/common"
)

// Pool is a directory of pre-generated identity files, one per supported
// host position. The pool's cardinality caps the maximum network size.
type Pool struct {
	dir string
}

// NewPool ...
func NewPool(dir string) *Pool {
	return &Pool{dir: dir}
}

// Dir ...
func (p *Pool) Dir() string {
	return p.dir
}

// KeyPath returns the path of the identity file for a 1-based position,
// whether or not it exists.
func (p *Pool) KeyPath(position int) string {
	return filepath.Join(p.dir, fmt.Sprintf("node-%d.pem", position))
}

// PubPath returns the path of the public-key sidecar for a 1-based position.
func (p *Pool) PubPath(position int) string {
	return filepath.Join(p.dir, fmt.Sprintf("node-%d.pub", position))
}

// Select resolves a position to its identity file. It fails with a
// PoolExhausted error when the pool holds no entry for that position.
func (p *Pool) Select(position int) (string, error) {
	path := p.KeyPath(position)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", common.NewFleetErr(common.PoolExhausted,
				fmt.Sprintf("no identity for position %d in %s", position, p.dir))
		}
		return "", err
	}
	return path, nil
}

// Size counts the contiguous positions covered by the pool, starting at 1.
func (p *Pool) Size() int {
	n := 0
	for {
		if _, err := os.Stat(p.KeyPath(n + 1)); err != nil {
			return n
		}
		n++
	}
}

// Stage copies the identity for a position to a host-keyed path in
// stagingDir, so multiple hosts processed in the same run cannot collide.
// Staging is overwrite-safe: re-running for the same host replaces the copy.
func (p *Pool) Stage(position int, address, stagingDir string) (string, error) {
	src, err := p.Select(position)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(stagingDir, 0700); err != nil {
		return "", err
	}

	dst := filepath.Join(stagingDir, address+".pem")

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", err
	}

	return dst, nil
}

// PublicKey reads the hex public key recorded next to a position's identity.
func (p *Pool) PublicKey(position int) (string, error) {
	buf, err := os.ReadFile(p.PubPath(position))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(buf)), nil
}

// Generate fills the pool with keypairs for positions 1..n. Existing
// entries are left untouched; a pool is never silently regenerated.
func (p *Pool) Generate(n int) error {
	if err := os.MkdirAll(p.dir, 0700); err != nil {
		return err
	}

	for i := 1; i <= n; i++ {
		pemKey := NewPemKey(p.KeyPath(i))

		existing, err := pemKey.ReadKey()
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		key, err := GenerateECDSAKey()
		if err != nil {
			return err
		}

		if err := pemKey.WriteKey(key); err != nil {
			return err
		}

		pub := PublicKeyHex(&key.PublicKey)
		if err := os.WriteFile(p.PubPath(i), []byte(pub), 0600); err != nil {
			return err
		}
	}

	return nil
}
