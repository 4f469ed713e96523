package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anicoll/amcrest2mqtt/internal/pkg/config"
	"github.com/anicoll/amcrest2mqtt/internal/pkg/model"
)

const (
	connectTimeout    = 5 * time.Second
	publishTimeout    = 2 * time.Second
	disconnectQuiesce = 250 // milliseconds
)

var (
	ErrConnectionFailed = errors.New("could not connect to MQTT server")
	ErrConnectionLost   = errors.New("unexpected MQTT disconnection")
	ErrPublishFailed    = errors.New("error publishing MQTT message")
)

type service struct {
	client   paho_mqtt.Client
	qos      byte
	logger   *zap.Logger
	errChan  chan error
	shutdown sync.Once
}

// New builds a client for the configured broker. The last will is published
// as "offline" on statusTopic if the connection drops without a disconnect.
func New(cfg *config.MqttConfig, statusTopic string, errChan chan error) (*service, error) {
	s := &service{
		qos:     byte(cfg.QoS),
		logger:  zap.L(),
		errChan: errChan,
	}

	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts.SetWill(statusTopic, model.StatusOffline, s.qos, true)
	opts.SetConnectionLostHandler(func(_ paho_mqtt.Client, err error) {
		s.onConnectionLost(err)
	})

	s.client = paho_mqtt.NewClient(opts)
	return s, nil
}

// NewWithClient wraps an existing paho client.
func NewWithClient(client paho_mqtt.Client, qos byte, errChan chan error) *service {
	return &service{
		client:  client,
		qos:     qos,
		logger:  zap.L(),
		errChan: errChan,
	}
}

func clientOptions(cfg *config.MqttConfig) (*paho_mqtt.ClientOptions, error) {
	opts := paho_mqtt.NewClientOptions()

	scheme := "tcp"
	if cfg.TLS.Enabled {
		scheme = "ssl"
		tlsCfg, err := tlsConfig(cfg.TLS)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port))
	opts.SetClientID(fmt.Sprintf("%s_%s", model.BridgeName, uuid.NewString()[:8]))
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(connectTimeout)
	return opts, nil
}

func tlsConfig(cfg config.TLSConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if cfg.CACert != "" {
		pem, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, fmt.Errorf("read MQTT CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CACert)
		}
		tlsCfg.RootCAs = pool
	}
	if cfg.Cert != "" || cfg.Key != "" {
		cert, err := tls.LoadX509KeyPair(cfg.Cert, cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("load MQTT client certificate: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return tlsCfg, nil
}

func (s *service) Connect() error {
	token := s.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	s.logger.Info("connected to MQTT server")
	return nil
}

func (s *service) onConnectionLost(err error) {
	s.logger.Error("unexpected MQTT disconnection", zap.Error(err))
	s.sendErr(fmt.Errorf("%w: %w", ErrConnectionLost, err))
}

// sendErr never blocks, the first fatal error is enough to shut down.
func (s *service) sendErr(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// Shutdown publishes "offline" to statusTopic if still connected and then
// disconnects. Only the first call does anything.
func (s *service) Shutdown(statusTopic string) {
	s.shutdown.Do(func() {
		s.logger.Info("MQTT client exiting")
		if !s.client.IsConnected() {
			return
		}
		if err := s.publish(statusTopic, []byte(model.StatusOffline)); err != nil {
			s.logger.Debug("failed to publish offline status", zap.Error(err))
		}
		s.client.Disconnect(disconnectQuiesce)
	})
}
