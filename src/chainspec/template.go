package chainspec

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/stakeworks/fleet/src/common"
)

// Placeholder tokens expected in the baseline documents. A baseline that
// lacks a token the renderer is about to substitute has drifted from the
// substitution rules, and rendering fails instead of emitting an unmodified
// document.
const (
	TimestampField     = "{{genesis-timestamp}}"
	KnownPeersField    = "{{known-peers}}"
	PublicAddressField = "{{public-address}}"
)

// Renderer derives per-host configuration documents from an immutable
// baseline. The shared substitutions (genesis timestamp, bootstrap peer) are
// applied once to a working copy; each host's document is then derived from
// that copy by substituting the host's own public address last, so rendered
// documents differ only in the public-address field.
type Renderer struct {
	baseline string
	shared   string
}

// NewRenderer ...
func NewRenderer(baseline string) *Renderer {
	return &Renderer{baseline: baseline}
}

// LoadRenderer reads a baseline template file.
func LoadRenderer(path string) (*Renderer, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewRenderer(string(buf)), nil
}

// RenderShared applies the batch-wide substitutions: the genesis timestamp
// and the bootstrap peer's gossip address. It must run before RenderHost.
func (r *Renderer) RenderShared(genesisMillis int64, bootstrapAddr string, gossipPort int) error {
	doc, err := substitute(r.baseline, TimestampField, strconv.FormatInt(genesisMillis, 10))
	if err != nil {
		return err
	}

	peer := fmt.Sprintf("%s:%d", bootstrapAddr, gossipPort)
	doc, err = substitute(doc, KnownPeersField, peer)
	if err != nil {
		return err
	}

	r.shared = doc
	return nil
}

// Shared returns the batch-wide document. If the baseline carries no
// public-address field, the shared render is complete as-is (the chain
// specification is identical on every host).
func (r *Renderer) Shared() string {
	return r.shared
}

// RenderHost derives one host's document from the shared render by
// substituting the host's own gossip address into the public-address field.
func (r *Renderer) RenderHost(address string, gossipPort int) (string, error) {
	if r.shared == "" {
		return "", common.NewFleetErr(common.TemplateMismatch,
			"shared substitutions have not been applied")
	}
	public := fmt.Sprintf("%s:%d", address, gossipPort)
	return substitute(r.shared, PublicAddressField, public)
}

func substitute(doc, token, value string) (string, error) {
	if !strings.Contains(doc, token) {
		return "", common.NewFleetErr(common.TemplateMismatch,
			fmt.Sprintf("baseline template has no %s field", token))
	}
	return strings.ReplaceAll(doc, token, value), nil
}

// ValidateTOML re-parses a rendered document. Substitution is textual, so a
// malformed value would only surface when the node service rejects its
// config; parsing here moves that failure before any host receives a file.
func ValidateTOML(doc string) error {
	var v map[string]interface{}
	if _, err := toml.Decode(doc, &v); err != nil {
		return common.NewFleetErr(common.TemplateMismatch,
			fmt.Sprintf("rendered document is not valid TOML: %v", err))
	}
	return nil
}
