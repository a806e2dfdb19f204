package config

import (
	"bufio"
	"errors"
	"io"
	"net/netip"
	"strings"
)

// dnsPort is the port assumed for nameservers listed without one.
const dnsPort = 53

// Errors returned by system resolver discovery.
var (
	// ErrNoResolvers means the resolver configuration file contained
	// no usable nameserver entries.
	ErrNoResolvers = errors.New("no usable nameservers in resolver configuration")

	// ErrPlatformUnsupported means this platform has no resolver
	// configuration file to read.
	ErrPlatformUnsupported = errors.New("system resolvers are not supported on this platform")
)

// parseResolvConf extracts the addresses of every "nameserver <ip>" line,
// defaulting the port to 53. Malformed addresses are skipped, not fatal.
func parseResolvConf(r io.Reader) ([]netip.AddrPort, error) {
	var servers []netip.AddrPort
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 || fields[0] != "nameserver" {
			continue
		}
		ip, err := netip.ParseAddr(fields[1])
		if err != nil {
			continue
		}
		servers = append(servers, netip.AddrPortFrom(ip, dnsPort))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(servers) == 0 {
		return nil, ErrNoResolvers
	}
	return servers, nil
}
