package model

import "fmt"

type Network string

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
)

// Validate reports whether the network is one mintcore can build for.
func (n Network) Validate() error {
	switch n {
	case Mainnet, Testnet, Regtest:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedNetwork, string(n))
	}
}
