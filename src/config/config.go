package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultKeysDirName is the default name of the folder containing the
	// identity pool, inside the datadir.
	DefaultKeysDirName = "keys"

	// DefaultChainspecFile is the default name of the baseline chain
	// specification template, inside the datadir.
	DefaultChainspecFile = "chainspec.toml"

	// DefaultNodeConfigFile is the default name of the baseline node
	// configuration template, inside the datadir.
	DefaultNodeConfigFile = "config.toml"

	// DefaultInstallerFile is the default name of the installer payload
	// pushed by the setup action, inside the datadir.
	DefaultInstallerFile = "install.sh"
)

// Default configuration values.
const (
	DefaultLogLevel      = "info"
	DefaultSSHUser       = "root"
	DefaultStagingDir    = "/tmp/fleet"
	DefaultRemoteConfDir = "/etc/meshnode"
	DefaultServiceName   = "meshnode"
	DefaultGossipPort    = 34553
	DefaultServicePort   = 8000
	DefaultGenesisOffset = 2 * time.Minute
	DefaultStartDelay    = 30 * time.Second
	DefaultPoolSize      = 10
)

// Config contains all the configuration properties of a fleet invocation.
type Config struct {
	// DataDir is the top-level directory containing templates, the identity
	// pool, and log files.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// SSHUser is the remote account used for every ssh/scp invocation.
	SSHUser string `mapstructure:"ssh-user"`

	// KeysDir is the directory holding the pre-generated identity pool. If
	// empty, [datadir]/keys is used.
	KeysDir string `mapstructure:"keys"`

	// StagingDir is the local scratch directory where identities and
	// rendered configuration documents are staged before being pushed.
	StagingDir string `mapstructure:"staging"`

	// RemoteConfDir is the well-known configuration directory of the node
	// service on every remote host.
	RemoteConfDir string `mapstructure:"confdir"`

	// ServiceName is the systemd unit of the node service.
	ServiceName string `mapstructure:"service"`

	// GossipPort is the port peers gossip on. It is appended to the
	// bootstrap address in the known-peers field, and to each host's own
	// address in the public-address field.
	GossipPort int `mapstructure:"gossip-port"`

	// ServicePort is the port of the node's read-only HTTP stats endpoint.
	ServicePort int `mapstructure:"service-port"`

	// GenesisOffset is how far in the future the genesis timestamp is set
	// when provisioning. It must leave enough room for every host to
	// receive its configuration and start.
	GenesisOffset time.Duration `mapstructure:"genesis-offset"`

	// StartDelay is the grace period non-bootstrap hosts wait before
	// starting their service, so the bootstrap peer is reachable first.
	StartDelay time.Duration `mapstructure:"start-delay"`

	logger *logrus.Logger
}

// NewDefaultConfig returns the default configuration.
func NewDefaultConfig() *Config {
	return &Config{
		DataDir:       DefaultDataDir(),
		LogLevel:      DefaultLogLevel,
		SSHUser:       DefaultSSHUser,
		StagingDir:    DefaultStagingDir,
		RemoteConfDir: DefaultRemoteConfDir,
		ServiceName:   DefaultServiceName,
		GossipPort:    DefaultGossipPort,
		ServicePort:   DefaultServicePort,
		GenesisOffset: DefaultGenesisOffset,
		StartDelay:    DefaultStartDelay,
	}
}

// SetDataDir sets the top-level fleet directory, and updates the keys
// directory if it is currently unset or derived from the previous datadir.
func (c *Config) SetDataDir(dataDir string) {
	if c.KeysDir == "" || c.KeysDir == filepath.Join(c.DataDir, DefaultKeysDirName) {
		c.KeysDir = filepath.Join(dataDir, DefaultKeysDirName)
	}
	c.DataDir = dataDir
}

// Keys returns the directory holding the identity pool.
func (c *Config) Keys() string {
	if c.KeysDir != "" {
		return c.KeysDir
	}
	return filepath.Join(c.DataDir, DefaultKeysDirName)
}

// ChainspecTemplate returns the full path of the baseline chain specification.
func (c *Config) ChainspecTemplate() string {
	return filepath.Join(c.DataDir, DefaultChainspecFile)
}

// NodeConfigTemplate returns the full path of the baseline node configuration.
func (c *Config) NodeConfigTemplate() string {
	return filepath.Join(c.DataDir, DefaultNodeConfigFile)
}

// Installer returns the full path of the setup payload.
func (c *Config) Installer() string {
	return filepath.Join(c.DataDir, DefaultInstallerFile)
}

// Logger returns a formatted logrus Logger with a file hook mirroring info
// and debug records into the datadir.
func (c *Config) Logger() *logrus.Logger {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)

		formatter := new(prefixed.TextFormatter)
		formatter.ForceFormatting = true
		c.logger.Formatter = formatter

		pathMap := lfshook.PathMap{}

		infoLog := filepath.Join(c.DataDir, "fleet_info.log")
		if f, err := os.OpenFile(infoLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
			f.Close()
			pathMap[logrus.InfoLevel] = infoLog
		}

		debugLog := filepath.Join(c.DataDir, "fleet_debug.log")
		if f, err := os.OpenFile(debugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
			f.Close()
			pathMap[logrus.DebugLevel] = debugLog
		}

		if len(pathMap) > 0 {
			c.logger.Hooks.Add(lfshook.NewHook(
				pathMap,
				&logrus.TextFormatter{},
			))
		}
	}
	return c.logger
}

// DefaultDataDir returns the default directory name for top-level fleet
// config based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Fleet")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Fleet")
		} else {
			return filepath.Join(home, ".fleet")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
