package mqtt

import (
	"errors"
	"sync"
	"testing"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/amcrest2mqtt/internal/pkg/config"
)

type fakeToken struct {
	err     error
	timeout bool
}

func (t *fakeToken) Wait() bool                     { return !t.timeout }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.timeout }
func (t *fakeToken) Error() error                   { return t.err }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  string
}

// fakeClient implements the parts of paho_mqtt.Client the service uses.
type fakeClient struct {
	paho_mqtt.Client

	mu           sync.Mutex
	connected    bool
	connectErr   error
	publishErr   error
	published    []published
	disconnected int
}

func (c *fakeClient) Connect() paho_mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connectErr == nil {
		c.connected = true
	}
	return &fakeToken{err: c.connectErr}
}

func (c *fakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho_mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, published{
		topic:    topic,
		qos:      qos,
		retained: retained,
		payload:  string(payload.([]byte)),
	})
	return &fakeToken{err: c.publishErr}
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.disconnected++
}

func TestConnect(t *testing.T) {
	client := &fakeClient{}
	s := NewWithClient(client, 0, make(chan error, 1))

	require.NoError(t, s.Connect())
	assert.True(t, client.IsConnected())
}

func TestConnect_Error(t *testing.T) {
	client := &fakeClient{connectErr: errors.New("connection refused")}
	s := NewWithClient(client, 0, make(chan error, 1))

	err := s.Connect()
	assert.ErrorIs(t, err, ErrConnectionFailed)
	assert.ErrorContains(t, err, "connection refused")
}

func TestPublish_Retained(t *testing.T) {
	client := &fakeClient{connected: true}
	s := NewWithClient(client, 1, make(chan error, 1))

	require.NoError(t, s.Publish("amcrest2mqtt/S/motion", "on"))

	require.Len(t, client.published, 1)
	assert.Equal(t, published{
		topic:    "amcrest2mqtt/S/motion",
		qos:      1,
		retained: true,
		payload:  "on",
	}, client.published[0])
}

func TestPublishJSON(t *testing.T) {
	client := &fakeClient{connected: true}
	s := NewWithClient(client, 0, make(chan error, 1))

	require.NoError(t, s.PublishJSON("amcrest2mqtt/S/event", map[string]any{"action": "Start"}))

	require.Len(t, client.published, 1)
	assert.JSONEq(t, `{"action":"Start"}`, client.published[0].payload)
}

func TestPublishJSON_EncodeError(t *testing.T) {
	client := &fakeClient{connected: true}
	s := NewWithClient(client, 0, make(chan error, 1))

	err := s.PublishJSON("amcrest2mqtt/S/event", map[string]any{"bad": make(chan int)})
	assert.ErrorIs(t, err, ErrPublishFailed)
	assert.Empty(t, client.published)
}

func TestPublish_Error(t *testing.T) {
	client := &fakeClient{connected: true, publishErr: errors.New("not connected")}
	s := NewWithClient(client, 0, make(chan error, 1))

	err := s.Publish("amcrest2mqtt/S/motion", "on")
	assert.ErrorIs(t, err, ErrPublishFailed)
}

func TestPublish_AckTimeoutIsNotAnError(t *testing.T) {
	client := &timeoutClient{fakeClient: fakeClient{connected: true}}
	s := NewWithClient(client, 0, make(chan error, 1))

	assert.NoError(t, s.Publish("amcrest2mqtt/S/motion", "on"))
}

type timeoutClient struct {
	fakeClient
}

func (c *timeoutClient) Publish(string, byte, bool, interface{}) paho_mqtt.Token {
	return &fakeToken{timeout: true}
}

func TestShutdown_OnlyOnce(t *testing.T) {
	client := &fakeClient{connected: true}
	s := NewWithClient(client, 0, make(chan error, 1))

	s.Shutdown("amcrest2mqtt/S/status")
	s.Shutdown("amcrest2mqtt/S/status")

	require.Len(t, client.published, 1)
	assert.Equal(t, "amcrest2mqtt/S/status", client.published[0].topic)
	assert.Equal(t, "offline", client.published[0].payload)
	assert.True(t, client.published[0].retained)
	assert.Equal(t, 1, client.disconnected)
}

func TestShutdown_SkipsPublishWhenDisconnected(t *testing.T) {
	client := &fakeClient{connected: false}
	s := NewWithClient(client, 0, make(chan error, 1))

	s.Shutdown("amcrest2mqtt/S/status")

	assert.Empty(t, client.published)
	assert.Equal(t, 0, client.disconnected)
}

func TestShutdown_IgnoresPublishError(t *testing.T) {
	client := &fakeClient{connected: true, publishErr: errors.New("broken pipe")}
	s := NewWithClient(client, 0, make(chan error, 1))

	s.Shutdown("amcrest2mqtt/S/status")

	assert.Len(t, client.published, 1)
	assert.Equal(t, 1, client.disconnected)
}

func TestOnConnectionLost(t *testing.T) {
	errChan := make(chan error, 1)
	s := NewWithClient(&fakeClient{}, 0, errChan)

	s.onConnectionLost(errors.New("EOF"))
	// a second loss must not block on the full channel
	s.onConnectionLost(errors.New("EOF"))

	select {
	case err := <-errChan:
		assert.ErrorIs(t, err, ErrConnectionLost)
	default:
		t.Fatal("expected an error on the channel")
	}
}

func TestNew_BuildsOptions(t *testing.T) {
	s, err := New(&config.MqttConfig{Host: "localhost", Port: 1883, QoS: 1}, "amcrest2mqtt/S/status", make(chan error, 1))
	require.NoError(t, err)

	opts := s.client.OptionsReader()
	require.Len(t, opts.Servers(), 1)
	assert.Equal(t, "tcp://localhost:1883", opts.Servers()[0].String())
	assert.Contains(t, opts.ClientID(), "amcrest2mqtt_")
	assert.True(t, opts.WillEnabled())
	assert.Equal(t, "amcrest2mqtt/S/status", opts.WillTopic())
	assert.Equal(t, []byte("offline"), opts.WillPayload())
	assert.True(t, opts.WillRetained())
	assert.False(t, opts.AutoReconnect())
	assert.Equal(t, byte(1), s.qos)
}

func TestNew_TLSMissingCA(t *testing.T) {
	_, err := New(&config.MqttConfig{
		Host: "localhost",
		Port: 8883,
		TLS:  config.TLSConfig{Enabled: true, CACert: "/does/not/exist.pem"},
	}, "amcrest2mqtt/S/status", make(chan error, 1))
	assert.ErrorContains(t, err, "read MQTT CA certificate")
}
