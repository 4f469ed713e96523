package mqtt

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Publish sends a retained message and waits briefly for the local
// acknowledgement. A wait that times out is not treated as a failure.
func (s *service) Publish(topic, payload string) error {
	if err := s.publish(topic, []byte(payload)); err != nil {
		s.logger.Error("error publishing MQTT message", zap.String("topic", topic), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishJSON encodes v as JSON and publishes it like Publish.
func (s *service) PublishJSON(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPublishFailed, topic, err)
	}
	return s.Publish(topic, string(payload))
}

func (s *service) publish(topic string, payload []byte) error {
	token := s.client.Publish(topic, s.qos, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		s.logger.Debug("publish not acknowledged in time", zap.String("topic", topic))
		return nil
	}
	return token.Error()
}
