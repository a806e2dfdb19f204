// dnsq is a small lookup tool built on the dnsclient library. Each
// argument is resolved against the configured upstream servers: domain
// names to their addresses, IP addresses to their forward-confirmed PTR
// names.
//
// Configuration comes from DNSQ_-prefixed environment variables, e.g.
// DNSQ_SERVERS="9.9.9.9:53" DNSQ_FORCE_TCP=true dnsq example.com
package main

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"time"

	"github.com/rmears/dnsclient"
	"github.com/rmears/dnsclient/internal/dns/common/log"
	"github.com/rmears/dnsclient/internal/dns/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <name-or-ip> ...\n", os.Args[0])
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := log.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging configuration error: %v\n", err)
		os.Exit(1)
	}

	client, err := buildClient(cfg, logger)
	if err != nil {
		logger.Error(map[string]any{"error": err.Error()}, "failed to build client")
		os.Exit(1)
	}

	ctx := context.Background()
	failed := false
	for _, arg := range os.Args[1:] {
		if err := lookup(ctx, client, arg); err != nil {
			logger.Error(map[string]any{
				"query": arg,
				"error": err.Error(),
			}, "lookup failed")
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func buildClient(cfg *config.AppConfig, logger log.Logger) (*dnsclient.Client, error) {
	var servers []dnsclient.UpstreamServer
	if cfg.System {
		var err error
		servers, err = dnsclient.SystemServers()
		if err != nil {
			return nil, err
		}
	} else {
		for _, s := range cfg.Servers {
			addr, err := netip.ParseAddrPort(s)
			if err != nil {
				return nil, fmt.Errorf("bad server address %q: %w", s, err)
			}
			servers = append(servers, dnsclient.NewUpstreamServer(addr))
		}
	}

	logger.Info(map[string]any{
		"servers":   cfg.Servers,
		"system":    cfg.System,
		"timeout":   cfg.Timeout,
		"force_tcp": cfg.ForceTCP,
	}, "starting dnsq")

	return dnsclient.New(dnsclient.Options{
		Servers:  servers,
		Timeout:  time.Duration(cfg.Timeout) * time.Second,
		ForceTCP: cfg.ForceTCP,
		Logger:   logger,
	})
}

// lookup resolves one command line argument and prints the results. An
// argument that parses as an IP address becomes a reverse lookup.
func lookup(ctx context.Context, client *dnsclient.Client, arg string) error {
	if ip, err := netip.ParseAddr(arg); err == nil {
		names, err := client.QueryPTR(ctx, ip)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Printf("%s\tPTR\t%s\n", arg, name)
		}
		return nil
	}

	addrs, err := client.QueryAddrs(ctx, arg)
	if err != nil {
		return err
	}
	for _, addr := range addrs {
		rrtype := "A"
		if addr.Is6() {
			rrtype = "AAAA"
		}
		fmt.Printf("%s\t%s\t%s\n", arg, rrtype, addr)
	}
	return nil
}
