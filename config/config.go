// Package config loads the node's runtime configuration from flags and
// environment via viper+pflag, replacing the teacher's hardcoded
// nodeTable/Keys constants with a single bindable Config struct — the
// pattern ava-labs-timestampvm's go.mod pulls both libraries in for.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the node's runtime configuration.
type Config struct {
	NodeID       string
	DataDir      string
	ListenAddr   string
	Committee    []string
	BatchSize    int
	HeartbeatSec int
}

// Default returns the zero-value-safe defaults used when no flag or env
// var overrides them.
func Default() Config {
	return Config{
		NodeID:       "node0",
		DataDir:      "./data",
		ListenAddr:   "127.0.0.1:7000",
		BatchSize:    10,
		HeartbeatSec: 10,
	}
}

// BindFlags registers the config's flags onto fs and returns a loader that
// must be called after fs.Parse to produce the final Config.
func BindFlags(fs *pflag.FlagSet) func() (Config, error) {
	def := Default()
	fs.String("node-id", def.NodeID, "this node's committee ID")
	fs.String("data-dir", def.DataDir, "directory for persistent state and logs")
	fs.String("listen-addr", def.ListenAddr, "gossip listen address")
	fs.StringSlice("committee", nil, "ordered list of committee validator IDs")
	fs.Int("batch-size", def.BatchSize, "finalized blocks per settlement batch")
	fs.Int("heartbeat-sec", def.HeartbeatSec, "seconds of silence before an empty heartbeat block")

	return func() (Config, error) {
		v := viper.New()
		v.SetEnvPrefix("AEGEN")
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, err
		}
		return Config{
			NodeID:       v.GetString("node-id"),
			DataDir:      v.GetString("data-dir"),
			ListenAddr:   v.GetString("listen-addr"),
			Committee:    v.GetStringSlice("committee"),
			BatchSize:    v.GetInt("batch-size"),
			HeartbeatSec: v.GetInt("heartbeat-sec"),
		}, nil
	}
}
