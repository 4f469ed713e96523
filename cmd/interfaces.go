package cmd

import (
	"context"

	"github.com/anicoll/amcrest2mqtt/internal/pkg/model"
)

// CameraService defines what cmd.run expects from the camera adapter.
type CameraService interface {
	Connect(ctx context.Context) (model.Device, error)
	Listen(ctx context.Context, handler func(model.Event) error) error
	StorageInfo(ctx context.Context) (model.StorageInfo, error)
}

// MqttService defines what cmd.run expects from the MQTT publisher.
type MqttService interface {
	Connect() error
	Publish(topic, payload string) error
	PublishJSON(topic string, v any) error
	Shutdown(statusTopic string)
}

// mqttFactory builds the MQTT service once the status topic is known.
type mqttFactory func(statusTopic string) (MqttService, error)
