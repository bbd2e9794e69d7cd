package fleet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stakeworks/fleet/src/common"
)

// Action is a lifecycle verb.
type Action string

// The fixed set of lifecycle verbs. No other value is valid.
const (
	Setup     Action = "setup"
	Provision Action = "provision"
	Start     Action = "start"
	Status    Action = "status"
	Logs      Action = "logs"
	SSH       Action = "ssh"
)

// HostPlaceholder is the token in a command template that the executor
// replaces with each target host's address.
const HostPlaceholder = "{}"

// gracePlaceholder is expanded to the start grace period in seconds: zero
// for the bootstrap peer, StartDelay for everyone else, so the bootstrap is
// reachable before the rest of the fleet comes up.
const gracePlaceholder = "{{grace}}"

// Dispatcher maps lifecycle verbs to remote command strings. Remote
// execution itself is delegated to ssh/scp through the local shell; the
// dispatcher only decides what runs where.
type Dispatcher struct {
	// User is the remote account for ssh and scp.
	User string

	// StagingDir is the local directory holding staged identities and
	// rendered configuration, keyed by host address.
	StagingDir string

	// RemoteConfDir is the node service's configuration directory on the
	// targets.
	RemoteConfDir string

	// ServiceName is the systemd unit of the node service.
	ServiceName string

	// ServicePort is the port of the node's HTTP stats endpoint.
	ServicePort int

	// StartDelay is the grace period applied to non-bootstrap hosts by the
	// start action.
	StartDelay time.Duration

	// Installer is the local path of the payload pushed by setup.
	Installer string
}

// Template returns the command template for a verb, with the host
// placeholder unexpanded. An unrecognized verb fails with an UnknownAction
// error before any side effect is attempted.
func (d *Dispatcher) Template(action Action) (string, error) {
	ssh := fmt.Sprintf("ssh %s@%s", d.User, HostPlaceholder)

	switch action {
	case Setup:
		return fmt.Sprintf("scp %s %s@%s:/tmp/fleet-install.sh && %s 'sh /tmp/fleet-install.sh'",
			d.Installer, d.User, HostPlaceholder, ssh), nil

	case Provision:
		stagedKey := fmt.Sprintf("%s/%s.pem", d.StagingDir, HostPlaceholder)
		stagedConf := fmt.Sprintf("%s/%s-config.toml", d.StagingDir, HostPlaceholder)
		stagedSpec := fmt.Sprintf("%s/chainspec.toml", d.StagingDir)
		target := fmt.Sprintf("%s@%s:%s", d.User, HostPlaceholder, d.RemoteConfDir)
		return fmt.Sprintf("%s 'mkdir -p %s' && scp %s %s/priv_key.pem && scp %s %s/config.toml && scp %s %s/chainspec.toml",
			ssh, d.RemoteConfDir, stagedKey, target, stagedConf, target, stagedSpec, target), nil

	case Start:
		return fmt.Sprintf("%s 'sleep %s && sudo systemctl start %s && journalctl -u %s -f'",
			ssh, gracePlaceholder, d.ServiceName, d.ServiceName), nil

	case Status:
		return fmt.Sprintf("%s 'curl -s localhost:%d/Stats'", ssh, d.ServicePort), nil

	case Logs:
		return fmt.Sprintf("ssh -t %s@%s 'journalctl -u %s -f'",
			d.User, HostPlaceholder, d.ServiceName), nil

	case SSH:
		return fmt.Sprintf("ssh -tt %s@%s", d.User, HostPlaceholder), nil

	default:
		return "", common.NewFleetErr(common.UnknownAction, string(action))
	}
}

// Command renders the verb's template for one host, expanding the host
// placeholder and the start grace period.
func (d *Dispatcher) Command(action Action, host Host) (string, error) {
	tmpl, err := d.Template(action)
	if err != nil {
		return "", err
	}

	cmd := strings.ReplaceAll(tmpl, HostPlaceholder, host.Address)

	grace := "0"
	if !host.IsBootstrap() {
		grace = strconv.Itoa(int(d.StartDelay / time.Second))
	}

	return strings.ReplaceAll(cmd, gracePlaceholder, grace), nil
}

// CommandFor validates the verb once and returns a per-host command builder
// for the executor. Validation happens here so an unknown action fails
// before any goroutine is spawned.
func (d *Dispatcher) CommandFor(action Action) (CommandFunc, error) {
	if _, err := d.Template(action); err != nil {
		return nil, err
	}
	return func(h Host) (string, error) {
		return d.Command(action, h)
	}, nil
}

// ReconnectHint returns the command an operator can run to resume
// inspecting a host after the orchestrator detaches.
func (d *Dispatcher) ReconnectHint(host Host) string {
	return fmt.Sprintf("ssh -t %s@%s 'journalctl -u %s -f'",
		d.User, host.Address, d.ServiceName)
}
