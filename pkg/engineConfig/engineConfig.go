package engineConfig

import (
	"slices"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/yaml"

	"github.com/kleros/linguo-engine/pkg/config"
)

const (
	EnvPrefix = "LINGUO_"

	Debug = "debug"
)

// Chain is the network the Linguo contract lives on.
type Chain struct {
	Name    string         `json:"name" yaml:"name"`
	ChainID config.ChainId `json:"chainId" yaml:"chainId"`
	RpcURL  string         `json:"rpcUrl" yaml:"rpcUrl"`
}

func (c *Chain) Validate() field.ErrorList {
	var allErrors field.ErrorList
	if c.Name == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("name"), "name is required"))
	}
	if c.ChainID == 0 {
		allErrors = append(allErrors, field.Required(field.NewPath("chainId"), "chainId is required"))
	}
	if !slices.Contains(config.SupportedChainIds, c.ChainID) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("chainId"), c.ChainID, "unsupported chainId"))
	}
	if c.RpcURL == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("rpcUrl"), "rpcUrl is required"))
	}
	return allErrors
}

// StorageConfig selects the task store backend.
type StorageConfig struct {
	// Type is "memory" or "badger".
	Type string `json:"type" yaml:"type"`

	BadgerDir string `json:"badgerDir,omitempty" yaml:"badgerDir,omitempty"`
}

func (s *StorageConfig) Validate() field.ErrorList {
	var allErrors field.ErrorList
	switch s.Type {
	case "", "memory":
	case "badger":
		if s.BadgerDir == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("badgerDir"), "badgerDir is required for the badger backend"))
		}
	default:
		allErrors = append(allErrors, field.Invalid(field.NewPath("type"), s.Type, "must be one of: memory, badger"))
	}
	return allErrors
}

// IpfsConfig points at the content-addressable store.
type IpfsConfig struct {
	ApiURL     string `json:"apiUrl" yaml:"apiUrl"`
	GatewayURL string `json:"gatewayUrl" yaml:"gatewayUrl"`
}

// EngineConfig is the whole service configuration.
type EngineConfig struct {
	Debug bool `json:"debug" yaml:"debug"`

	Chain Chain `json:"chain" yaml:"chain"`

	// ContractAddress is the Linguo contract the poller mirrors.
	ContractAddress string `json:"contractAddress" yaml:"contractAddress"`

	// IndexerURL is the HTTP endpoint task snapshots are fetched from.
	IndexerURL string `json:"indexerUrl" yaml:"indexerUrl"`

	PollingIntervalSeconds int `json:"pollingIntervalSeconds" yaml:"pollingIntervalSeconds"`

	Storage StorageConfig `json:"storage" yaml:"storage"`

	Ipfs IpfsConfig `json:"ipfs,omitempty" yaml:"ipfs,omitempty"`

	// SettingsFile is the persisted display settings document; optional.
	SettingsFile string `json:"settingsFile,omitempty" yaml:"settingsFile,omitempty"`
}

func NewEngineConfig() *EngineConfig {
	return &EngineConfig{
		PollingIntervalSeconds: 15,
		Storage:                StorageConfig{Type: "memory"},
	}
}

func NewEngineConfigFromYamlBytes(data []byte) (*EngineConfig, error) {
	cfg := NewEngineConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse engine config")
	}
	return cfg, nil
}

func (c *EngineConfig) Validate() error {
	var allErrors field.ErrorList
	if chainErrors := c.Chain.Validate(); len(chainErrors) > 0 {
		allErrors = append(allErrors, chainErrors...)
	}
	if c.ContractAddress == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("contractAddress"), "contractAddress is required"))
	}
	if c.IndexerURL == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("indexerUrl"), "indexerUrl is required"))
	}
	if c.PollingIntervalSeconds <= 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("pollingIntervalSeconds"), c.PollingIntervalSeconds, "must be positive"))
	}
	if storageErrors := c.Storage.Validate(); len(storageErrors) > 0 {
		allErrors = append(allErrors, storageErrors...)
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}
