package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inheritx/ixdeploy/internal/domain/config"
)

// DefaultNetwork is used when neither a flag nor STARKNET_NETWORK names one
const DefaultNetwork = "sepolia"

var knownNetworks = map[string]config.Network{
	"sepolia": {
		Name:        "sepolia",
		RPCURL:      "https://starknet-sepolia.public.blastapi.io/rpc/v0_8",
		ChainID:     "SN_SEPOLIA",
		ExplorerURL: "https://sepolia.voyager.online",
	},
	"mainnet": {
		Name:        "mainnet",
		RPCURL:      "https://starknet-mainnet.public.blastapi.io/rpc/v0_8",
		ChainID:     "SN_MAIN",
		ExplorerURL: "https://voyager.online",
	},
	"devnet": {
		Name:   "devnet",
		RPCURL: "http://127.0.0.1:5050/rpc",
	},
}

// KnownNetworks returns the built-in network names in sorted order
func KnownNetworks() []string {
	names := make([]string, 0, len(knownNetworks))
	for name := range knownNetworks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NetworkResolver turns a network name plus endpoint overrides into a
// Network. It never talks to the node; chain id checks happen at connect time.
type NetworkResolver struct {
	lookupEnv func(string) (string, bool)
}

// NewNetworkResolver creates a resolver reading overrides through lookupEnv
func NewNetworkResolver(lookupEnv func(string) (string, bool)) *NetworkResolver {
	return &NetworkResolver{lookupEnv: lookupEnv}
}

// Resolve picks the endpoint in order: explicit rpcURL, STARKNET_RPC_URL,
// SEPOLIA_NODE_URL (sepolia only), then the network's default.
func (r *NetworkResolver) Resolve(name, rpcURL string) (*config.Network, error) {
	if name == "" {
		name = r.env(EnvNetwork)
	}
	if name == "" {
		name = DefaultNetwork
	}
	name = strings.ToLower(name)

	network, known := knownNetworks[name]
	if !known {
		network = config.Network{Name: name}
	}

	switch {
	case rpcURL != "":
		network.RPCURL = rpcURL
	case r.env(EnvRPCURL) != "":
		network.RPCURL = r.env(EnvRPCURL)
	case name == "sepolia" && r.env(EnvSepoliaNodeURL) != "":
		network.RPCURL = r.env(EnvSepoliaNodeURL)
	}

	if network.RPCURL == "" {
		return nil, fmt.Errorf("network %q is not built in (known: %s); pass --rpc-url or set %s",
			name, strings.Join(KnownNetworks(), ", "), EnvRPCURL)
	}
	if !strings.HasPrefix(network.RPCURL, "http://") && !strings.HasPrefix(network.RPCURL, "https://") {
		return nil, fmt.Errorf("rpc url for %s must be http(s): %q", name, network.RPCURL)
	}
	return &network, nil
}

func (r *NetworkResolver) env(key string) string {
	if r.lookupEnv == nil {
		return ""
	}
	v, _ := r.lookupEnv(key)
	return strings.TrimSpace(v)
}
