package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration: YAML file first, then PADI_* env vars
// on top.
type Config struct {
	LogLevel    string `yaml:"logLevel"                       split_words:"true"`
	BindAddr    string `yaml:"bindAddr"                       split_words:"true"`
	ApiPort     uint   `yaml:"apiPort"      envconfig:"port"`
	MetricsPort uint   `yaml:"metricsPort"                    split_words:"true"`
	// DataDir empty selects the in-memory backend.
	DataDir string `yaml:"dataDir" split_words:"true"`

	Protocol ProtocolConfig `yaml:"protocol"`
	Dao      DaoConfig      `yaml:"dao"`
	Dev      DevConfig      `yaml:"dev"`
}

type ProtocolConfig struct {
	Admin                string `yaml:"admin"`
	PaymentWallet        string `yaml:"paymentWallet"        split_words:"true"`
	EngineAddress        string `yaml:"engineAddress"        split_words:"true"`
	MembershipPrice      int64  `yaml:"membershipPrice"      split_words:"true"`
	OpenCorroboration    bool   `yaml:"openCorroboration"    split_words:"true"`
	OpenEmergencyConfirm bool   `yaml:"openEmergencyConfirm" split_words:"true"`
	RelaySecret          string `yaml:"relaySecret"          split_words:"true"`
}

type DaoConfig struct {
	VotingDelay       uint64 `yaml:"votingDelay"       split_words:"true"`
	VotingPeriod      uint64 `yaml:"votingPeriod"      split_words:"true"`
	ProposalThreshold int64  `yaml:"proposalThreshold" split_words:"true"`
	Quorum            int64  `yaml:"quorum"`
	MaxActions        int    `yaml:"maxActions"        split_words:"true"`
	TimelockDelay     int64  `yaml:"timelockDelay"     split_words:"true"`
	GracePeriod       int64  `yaml:"gracePeriod"       split_words:"true"`
	Guardian          string `yaml:"guardian"`
}

// DevConfig seeds the in-process ledger and votes oracle so a fresh daemon
// is usable without a chain behind it.
type DevConfig struct {
	Accounts []DevAccount `yaml:"accounts"`
}

type DevAccount struct {
	Address string `yaml:"address"`
	Balance int64  `yaml:"balance"`
	Votes   int64  `yaml:"votes"`
}

func defaultConfig() *Config {
	return &Config{
		LogLevel:    "info",
		BindAddr:    "0.0.0.0",
		ApiPort:     8322,
		MetricsPort: 8323,
		DataDir:     "",
		Protocol: ProtocolConfig{
			Admin:                "system:admin",
			PaymentWallet:        "system:payments",
			EngineAddress:        "contract:padi-protocol",
			MembershipPrice:      500,
			OpenCorroboration:    true,
			OpenEmergencyConfirm: true,
			RelaySecret:          "dev-secret",
		},
		Dao: DaoConfig{
			VotingDelay:       1,
			VotingPeriod:      17280,
			ProposalThreshold: 1_000,
			Quorum:            4_000,
			MaxActions:        10,
			TimelockDelay:     2 * 24 * 3_600,
			GracePeriod:       14 * 24 * 3_600,
			Guardian:          "system:admin",
		},
	}
}

// Load reads the optional YAML file at path and applies PADI_* environment
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := envconfig.Process("padi", cfg); err != nil {
		return nil, fmt.Errorf("process env vars: %w", err)
	}
	return cfg, nil
}
