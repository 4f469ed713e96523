package cmd

import (
	"encoding/json"
	"sync"
)

// MockMessage is a message recorded by MockMqttService.
type MockMessage struct {
	Topic   string
	Payload string
}

// MockMqttService records every publish. It is safe for concurrent use.
type MockMqttService struct {
	ConnectFunc func() error
	PublishFunc func(topic, payload string) error

	mu            sync.Mutex
	messages      []MockMessage
	shutdownCalls []string
}

func (m *MockMqttService) Connect() error {
	if m.ConnectFunc != nil {
		return m.ConnectFunc()
	}
	return nil
}

func (m *MockMqttService) Publish(topic, payload string) error {
	if m.PublishFunc != nil {
		if err := m.PublishFunc(topic, payload); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, MockMessage{Topic: topic, Payload: payload})
	return nil
}

func (m *MockMqttService) PublishJSON(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return m.Publish(topic, string(data))
}

func (m *MockMqttService) Shutdown(statusTopic string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdownCalls = append(m.shutdownCalls, statusTopic)
}

// Messages returns the payloads published to topic, in order.
func (m *MockMqttService) Messages(topic string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var payloads []string
	for _, msg := range m.messages {
		if msg.Topic == topic {
			payloads = append(payloads, msg.Payload)
		}
	}
	return payloads
}

// All returns every recorded message.
func (m *MockMqttService) All() []MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockMessage(nil), m.messages...)
}

// ShutdownCalls returns the status topics passed to Shutdown.
func (m *MockMqttService) ShutdownCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.shutdownCalls...)
}
