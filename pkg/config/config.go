package config

import "strings"

type ChainId uint

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_Gnosis          ChainId = 100
	ChainId_EthereumSepolia ChainId = 11155111
)

var (
	SupportedChainIds = []ChainId{
		ChainId_EthereumMainnet,
		ChainId_Gnosis,
		ChainId_EthereumSepolia,
	}
)

// KebabToSnakeCase maps cobra flag names to viper keys.
func KebabToSnakeCase(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}
