//go:build unix

package config

import (
	"net/netip"
	"os"
)

const resolvConfPath = "/etc/resolv.conf"

// SystemResolvers returns the nameservers configured in /etc/resolv.conf.
func SystemResolvers() ([]netip.AddrPort, error) {
	f, err := os.Open(resolvConfPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseResolvConf(f)
}
