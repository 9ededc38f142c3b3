package commands

import (
	"github.com/rs/zerolog"

	"github.com/mqttui/mqttui/internal/cliconfig"
	"github.com/mqttui/mqttui/internal/history"
	"github.com/mqttui/mqttui/internal/mqttconn"
)

// connect resolves the global broker/TLS options, builds a history
// Store and an mqttconn.Client subscribed to filters, and performs the
// initial handshake. Any failure here is already classified as a
// apperr.ConfigError or apperr.StartupError by the packages it
// calls.
func connect(opts cliconfig.Options, filters []string, historyCap int, logger zerolog.Logger) (*history.Store, *mqttconn.Client, error) {
	parsed, err := cliconfig.ParseBroker(opts.Broker)
	if err != nil {
		return nil, nil, err
	}
	tlsConfig, err := cliconfig.TLSConfig(opts, parsed)
	if err != nil {
		return nil, nil, err
	}

	store := history.New(historyCap)
	client := mqttconn.New(mqttconn.Options{
		Broker:       parsed,
		ClientID:     mqttconn.DeriveClientID(),
		Username:     opts.Username,
		Password:     opts.Password,
		TLSConfig:    tlsConfig,
		Filters:      filters,
		SubscribeQoS: 1,
		PayloadLimit: opts.PayloadSizeLimit,
	}, store, logger)

	if err := client.Connect(); err != nil {
		return nil, nil, err
	}
	return store, client, nil
}

// connectWithHook is connect's variant for the non-interactive
// subcommands (log, read-one) that react to each message as it arrives
// instead of polling a store snapshot.
func connectWithHook(filters []string, onMessage func(string, history.Entry), logger zerolog.Logger) (*history.Store, *mqttconn.Client, error) {
	parsed, err := cliconfig.ParseBroker(globalOpts.Broker)
	if err != nil {
		return nil, nil, err
	}
	tlsConfig, err := cliconfig.TLSConfig(globalOpts, parsed)
	if err != nil {
		return nil, nil, err
	}

	store := history.New(0)
	client := mqttconn.New(mqttconn.Options{
		Broker:       parsed,
		ClientID:     mqttconn.DeriveClientID(),
		Username:     globalOpts.Username,
		Password:     globalOpts.Password,
		TLSConfig:    tlsConfig,
		Filters:      filters,
		SubscribeQoS: 1,
		PayloadLimit: globalOpts.PayloadSizeLimit,
		OnMessage:    onMessage,
	}, store, logger)

	if err := client.Connect(); err != nil {
		return nil, nil, err
	}
	return store, client, nil
}
