//go:build !unix

package config

import "net/netip"

// SystemResolvers is unsupported on platforms without a resolv.conf.
func SystemResolvers() ([]netip.AddrPort, error) {
	return nil, ErrPlatformUnsupported
}
