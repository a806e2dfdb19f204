// Package config loads the dnsq tool configuration from the environment
// and discovers the system's default resolvers.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Servers is the ordered list of upstream DNS servers in ip:port
	// format. The order is the failover order.
	Servers []string `koanf:"servers" validate:"required,dive,ip_port"`

	// Timeout bounds each network exchange, in seconds.
	Timeout int `koanf:"timeout" validate:"gte=1,lte=60"`

	// ForceTCP skips UDP and sends every query over TCP.
	ForceTCP bool `koanf:"force_tcp"`

	// System replaces Servers with the nameservers from /etc/resolv.conf.
	System bool `koanf:"system"`
}

// defaultAppConfig holds the values used when the environment does not
// override them.
var defaultAppConfig = AppConfig{
	Env:      "prod",
	LogLevel: "info",
	Servers:  []string{"1.1.1.1:53", "1.0.0.1:53"},
	Timeout:  5,
}

// validIPPort reports whether a field holds a valid "IP:port" value.
func validIPPort(fl validator.FieldLevel) bool {
	ip, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil || ip == "" || port == "" {
		return false
	}
	if net.ParseIP(ip) == nil {
		return false
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0
}

// Load parses environment variables prefixed with DNSQ_ and returns an
// AppConfig. It applies defaults and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultAppConfig, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: "DNSQ_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "DNSQ_"))
			value = strings.TrimSpace(value)
			// Space- or comma-separated values become lists, so
			// DNSQ_SERVERS="9.9.9.9:53,1.1.1.1:53" works.
			if strings.ContainsAny(value, " ,") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}
			return key, value
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("ip_port", validIPPort); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &cfg, nil
}
