package config

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/latticenet/go-lattice/common/types"
)

// DefaultEpochLink is the sentinel link value of protocol-epoch upgrade
// blocks ("epoch v1 block" left-padded to 32 bytes). It is never a real
// inbound source and the confirmation traversal never descends into it.
const DefaultEpochLink = "00000000000000000000000000000000000065706f636820763120626c6f636b"

type Confirmation struct {
	// Max write entries applied per write transaction; pending writes are
	// also flushed once their count reaches this value.
	BatchWriteSize uint64 `json:"BatchWriteSize"`
	// Blocks visited per read transaction refresh during a descent.
	BatchReadSize uint64 `json:"BatchReadSize"`
	// Chain length above which a descent logs its top block.
	LargeChainThreshold uint64 `json:"LargeChainThreshold"`
}

type Config struct {
	Confirmation *Confirmation `json:"Confirmation"`

	// global keys
	DataDir   string `json:"DataDir"`
	LogLevel  string `json:"LogLevel"`
	EpochLink string `json:"EpochLink"`
}

func MergeConfirmationConfig(cfg *Confirmation) *Confirmation {
	defaultCfg := &Confirmation{
		BatchWriteSize:      4096,
		BatchReadSize:       14000,
		LargeChainThreshold: 20000,
	}
	if cfg == nil {
		return defaultCfg
	}
	if cfg.BatchWriteSize == 0 {
		cfg.BatchWriteSize = defaultCfg.BatchWriteSize
	}
	if cfg.BatchReadSize == 0 {
		cfg.BatchReadSize = defaultCfg.BatchReadSize
	}
	if cfg.LargeChainThreshold == 0 {
		cfg.LargeChainThreshold = defaultCfg.LargeChainThreshold
	}
	return cfg
}

func New() *Config {
	return &Config{
		Confirmation: MergeConfirmationConfig(nil),
		LogLevel:     "info",
		EpochLink:    DefaultEpochLink,
	}
}

func Load(path string) (*Config, error) {
	cfg := New()
	text, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	if err := json.Unmarshal(text, cfg); err != nil {
		return nil, errors.Wrapf(err, "unmarshal config file %s", path)
	}
	cfg.Confirmation = MergeConfirmationConfig(cfg.Confirmation)
	if cfg.EpochLink == "" {
		cfg.EpochLink = DefaultEpochLink
	}
	return cfg, nil
}

func (c *Config) LedgerDir() string {
	return filepath.Join(c.DataDir, "ledger")
}

func (c *Config) EpochLinkHash() (types.Hash, error) {
	return types.HexToHash(c.EpochLink)
}
