// Package mqttconn owns the single paho.mqtt.golang connection this
// program keeps open to the broker: building connection options,
// classifying the outcome of the first connect attempt as a startup
// error (spec §7) versus letting later drops become background
// reconnect attempts, and feeding every inbound PUBLISH into the
// history store. Grounded on
// illmade-knight-go-dataflow/pkg/mqttconverter/mqttconsumer.go's
// createMqttOptions/handleIncomingMessage split, adapted from a
// single-topic pipeline consumer into a multi-filter store writer with
// a state-change feed the TUI subscribes to.
package mqttconn

import (
	"crypto/tls"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/mqttui/mqttui/internal/apperr"
	"github.com/mqttui/mqttui/internal/cliconfig"
	"github.com/mqttui/mqttui/internal/history"
	"github.com/mqttui/mqttui/internal/payload"
)

const (
	keepAlive         = 5 * time.Second
	connectTimeout    = 10 * time.Second
	maxReconnectWait  = 30 * time.Second
	disconnectGraceMS = 250
)

// Options configures a Client. Broker, ClientID and the subscription
// filter list are required; everything else has a zero value that
// means "use the paho default".
type Options struct {
	Broker       cliconfig.ParsedBroker
	ClientID     string
	Username     string
	Password     string
	TLSConfig    *tls.Config
	Filters      []string // topic filters to subscribe on connect, e.g. []string{"#"}
	SubscribeQoS byte
	PayloadLimit int // bytes; forwarded to payload.Decode

	// OnMessage, when set, is called synchronously for every received
	// message in addition to the store insert — used by the log and
	// read-one subcommands, which print each message as it arrives
	// rather than polling the store.
	OnMessage func(topicPath string, entry history.Entry)
}

// Client wraps a paho.mqtt.golang client, writing every received
// message into a history.Store and publishing connection-state
// transitions on a channel the UI reads as bubbletea messages.
type Client struct {
	opts   Options
	store  *history.Store
	logger zerolog.Logger

	paho mqtt.Client

	states chan StateChange
	errs   chan error
}

// New builds a Client. The paho client is not created until Connect is
// called.
func New(opts Options, store *history.Store, logger zerolog.Logger) *Client {
	return &Client{
		opts:   opts,
		store:  store,
		logger: logger.With().Str("component", "mqttconn").Logger(),
		states: make(chan StateChange, 8),
		errs:   make(chan error, 8),
	}
}

// States returns the channel of connection-state transitions.
func (c *Client) States() <-chan StateChange { return c.states }

// Errors returns the channel of non-fatal runtime errors the UI shows in
// its error overlay without exiting. Only failed subscriptions are sent
// here; Publish returns its error to the caller instead.
func (c *Client) Errors() <-chan error { return c.errs }

// Connect performs the initial handshake synchronously and returns a
// StartupError (spec §7, exit code 1) if it fails; once the initial
// connect succeeds, all further reconnect activity happens in the
// background via paho's auto-reconnect and is reported only through
// States()/Errors().
func (c *Client) Connect() error {
	mqttOpts := c.buildOptions()
	c.paho = mqtt.NewClient(mqttOpts)

	c.emitState(StateChange{State: Connecting})
	token := c.paho.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return apperr.Startup(fmt.Sprintf("timed out connecting to %s:%s", c.opts.Broker.Host, c.opts.Broker.Port), nil)
	}
	if err := token.Error(); err != nil {
		return apperr.Startup(fmt.Sprintf("failed to connect to %s:%s", c.opts.Broker.Host, c.opts.Broker.Port), err)
	}
	return nil
}

// Disconnect closes the connection with a short grace period for
// in-flight QoS acknowledgements.
func (c *Client) Disconnect() {
	if c.paho != nil && c.paho.IsConnected() {
		c.paho.Disconnect(disconnectGraceMS)
	}
}

// Publish sends one message. QoS AtMostOnce publishes fire-and-forget;
// higher QoS levels block until the broker acknowledges or the token
// times out.
func (c *Client) Publish(topicPath string, qos history.QoS, retain bool, body []byte) error {
	token := c.paho.Publish(topicPath, byte(qos), retain, body)
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("publish to %s timed out", topicPath)
	}
	return token.Error()
}

// Subscribe adds a filter to the live session, on top of the filters
// subscribed on connect.
func (c *Client) Subscribe(filter string, qos byte) error {
	token := c.paho.Subscribe(filter, qos, c.handleMessage)
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("subscribe to %s timed out", filter)
	}
	return token.Error()
}

func (c *Client) buildOptions() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(c.opts.Broker))
	opts.SetClientID(c.opts.ClientID)
	if c.opts.Username != "" {
		opts.SetUsername(c.opts.Username)
	}
	if c.opts.Password != "" {
		opts.SetPassword(c.opts.Password)
	}
	if c.opts.TLSConfig != nil {
		opts.SetTLSConfig(c.opts.TLSConfig)
	}
	opts.SetKeepAlive(keepAlive)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(maxReconnectWait)
	opts.SetOrderMatters(false)

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		c.emitState(StateChange{State: Connected})
		for _, filter := range c.opts.Filters {
			if token := client.Subscribe(filter, c.opts.SubscribeQoS, c.handleMessage); token.WaitTimeout(connectTimeout) && token.Error() != nil {
				c.emitError(fmt.Errorf("subscribe %s: %w", filter, token.Error()))
			}
		}
	})
	opts.SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
		c.emitState(StateChange{State: Connecting, Reason: "reconnecting"})
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		reason := ""
		if err != nil {
			reason = err.Error()
		}
		c.emitState(StateChange{State: Disconnected, Reason: reason})
	})
	return opts
}

func (c *Client) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	raw := msg.Payload()
	body := make([]byte, len(raw))
	copy(body, raw)
	decoded := payload.Decode(body, c.opts.PayloadLimit)

	entry := history.Entry{
		ReceivedAt: time.Now(),
		QoS:        history.QoS(msg.Qos()),
		Retained:   msg.Retained(),
		Payload:    decoded,
		RawSize:    len(body),
	}
	c.store.Insert(msg.Topic(), entry)
	if c.opts.OnMessage != nil {
		c.opts.OnMessage(msg.Topic(), entry)
	}
}

func (c *Client) emitState(s StateChange) {
	select {
	case c.states <- s:
	default:
		c.logger.Warn().Msg("state channel full, dropping transition")
	}
}

func (c *Client) emitError(err error) {
	c.logger.Warn().Err(err).Msg("runtime error")
	select {
	case c.errs <- err:
	default:
	}
}

func brokerURL(b cliconfig.ParsedBroker) string {
	return fmt.Sprintf("%s://%s:%s", b.Scheme, b.Host, b.Port)
}
