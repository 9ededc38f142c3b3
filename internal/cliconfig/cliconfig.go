// Package cliconfig defines the global CLI options from spec §6 and
// their MQTTUI_* environment fallbacks, generalizing into a
// flag-then-env-then-default precedence the env loading used by
// saaga0h-jeeves/pkg/config.Config.LoadFromEnv from a fixed struct of
// os.Getenv reads into a small per-flag helper.
package cliconfig

import (
	"crypto/tls"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/pflag"

	"github.com/mqttui/mqttui/internal/apperr"
)

// Options holds every global flag, resolved from (in increasing
// priority) built-in default, environment variable, explicit flag.
type Options struct {
	Broker           string
	Username         string
	Password         string
	ClientCert       string
	ClientKey        string
	Insecure         bool
	PayloadSizeLimit int // bytes; 0 = unlimited
}

// Default returns the built-in defaults from spec §6.
func Default() Options {
	return Options{
		Broker:           "mqtt://localhost:1883",
		PayloadSizeLimit: 0,
	}
}

// BindGlobal registers the global flags on fs, seeding each with its
// environment-variable fallback (checked ahead of the flag's own
// default), matching spec §6's "flag, falling back to environment
// variable" contract.
func BindGlobal(fs *pflag.FlagSet, opts *Options) {
	*opts = Default()
	applyEnv(opts)

	fs.StringVar(&opts.Broker, "broker", opts.Broker, "Broker URL (mqtt://, mqtts://, ws://, wss://) [env MQTTUI_BROKER]")
	fs.StringVar(&opts.Username, "username", opts.Username, "Username [env MQTTUI_USERNAME]")
	fs.StringVar(&opts.Password, "password", opts.Password, "Password [env MQTTUI_PASSWORD]")
	fs.StringVar(&opts.ClientCert, "client-cert", opts.ClientCert, "Path to a client certificate (PEM)")
	fs.StringVar(&opts.ClientKey, "client-key", opts.ClientKey, "Path to a client private key (PEM)")
	fs.BoolVar(&opts.Insecure, "insecure", opts.Insecure, "Do not verify the broker's TLS certificate")
	fs.IntVar(&opts.PayloadSizeLimit, "payload-size-limit", opts.PayloadSizeLimit, "Maximum bytes of payload to store per message (0 = unlimited)")
}

func applyEnv(opts *Options) {
	if v, ok := os.LookupEnv("MQTTUI_BROKER"); ok {
		opts.Broker = v
	}
	if v, ok := os.LookupEnv("MQTTUI_USERNAME"); ok {
		opts.Username = v
	}
	if v, ok := os.LookupEnv("MQTTUI_PASSWORD"); ok {
		opts.Password = v
	}
}

// BrokerScheme identifies the four schemes spec §6 supports and their
// default ports.
type BrokerScheme string

const (
	SchemeTCP          BrokerScheme = "mqtt"
	SchemeTLS          BrokerScheme = "mqtts"
	SchemeWebSocket    BrokerScheme = "ws"
	SchemeWebSocketTLS BrokerScheme = "wss"
)

func (s BrokerScheme) DefaultPort() string {
	switch s {
	case SchemeTCP:
		return "1883"
	case SchemeTLS:
		return "8883"
	case SchemeWebSocket:
		return "80"
	case SchemeWebSocketTLS:
		return "443"
	default:
		return ""
	}
}

func (s BrokerScheme) UsesTLS() bool {
	return s == SchemeTLS || s == SchemeWebSocketTLS
}

// ParsedBroker is a validated broker URL with its port defaulted.
type ParsedBroker struct {
	Scheme BrokerScheme
	Host   string
	Port   string
	Raw    *url.URL
}

// ParseBroker validates a --broker value against spec §6's scheme list
// and fills in the scheme's default port when the URL omits one. Any
// problem here is a configuration error (exit code 2), never a startup
// error.
func ParseBroker(raw string) (ParsedBroker, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ParsedBroker{}, apperr.Config("invalid broker URL", err)
	}
	scheme := BrokerScheme(u.Scheme)
	switch scheme {
	case SchemeTCP, SchemeTLS, SchemeWebSocket, SchemeWebSocketTLS:
	default:
		return ParsedBroker{}, apperr.Config(fmt.Sprintf("unsupported broker scheme %q (want mqtt/mqtts/ws/wss)", u.Scheme), nil)
	}
	host := u.Hostname()
	if host == "" {
		return ParsedBroker{}, apperr.Config("broker URL is missing a host", nil)
	}
	port := u.Port()
	if port == "" {
		port = scheme.DefaultPort()
	}
	return ParsedBroker{Scheme: scheme, Host: host, Port: port, Raw: u}, nil
}

// TLSConfig builds the tls.Config for a broker connection (mqtts/wss
// only): optional client certificate, and --insecure to skip
// verification. RootCAs is left nil, so Go's default system root pool
// is used; nothing here loads or logs individual root certificates.
func TLSConfig(opts Options, parsed ParsedBroker) (*tls.Config, error) {
	if !parsed.Scheme.UsesTLS() {
		return nil, nil
	}
	cfg := &tls.Config{
		InsecureSkipVerify: opts.Insecure, //nolint:gosec // explicit --insecure opt-in
		ServerName:         parsed.Host,
		KeyLogWriter:       keyLogWriter(),
	}
	if opts.ClientCert != "" || opts.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(opts.ClientCert, opts.ClientKey)
		if err != nil {
			return nil, apperr.Config("failed to load client certificate/key", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

func keyLogWriter() *os.File {
	path := os.Getenv("SSLKEYLOGFILE")
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil
	}
	return f
}
