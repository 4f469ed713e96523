package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTopics(t *testing.T) {
	topics := NewTopics("ABC123", "front_door", "homeassistant")

	assert.Equal(t, "amcrest2mqtt/ABC123/config", topics.Config)
	assert.Equal(t, "amcrest2mqtt/ABC123/status", topics.Status)
	assert.Equal(t, "amcrest2mqtt/ABC123/event", topics.Event)
	assert.Equal(t, "amcrest2mqtt/ABC123/motion", topics.Motion)
	assert.Equal(t, "amcrest2mqtt/ABC123/doorbell", topics.Doorbell)
	assert.Equal(t, "amcrest2mqtt/ABC123/human", topics.Human)
	assert.Equal(t, "amcrest2mqtt/ABC123/storage/used", topics.StorageUsed)
	assert.Equal(t, "amcrest2mqtt/ABC123/storage/used_percent", topics.StorageUsedPercent)
	assert.Equal(t, "amcrest2mqtt/ABC123/storage/total", topics.StorageTotal)

	assert.Len(t, topics.Discovery, 9)
	assert.Equal(t, DiscoveryTopics{
		Current: "homeassistant/binary_sensor/amcrest2mqtt-ABC123/doorbell/config",
		Legacy:  "homeassistant/binary_sensor/amcrest2mqtt-ABC123/front_door_doorbell/config",
	}, topics.Discovery[EntityDoorbell])
	assert.Equal(t, DiscoveryTopics{
		Current: "homeassistant/sensor/amcrest2mqtt-ABC123/storage_used_percent/config",
		Legacy:  "homeassistant/sensor/amcrest2mqtt-ABC123/front_door_storage_used_percent/config",
	}, topics.Discovery[EntityStorageUsedPercent])
}

func TestNewTopics_Prefix(t *testing.T) {
	topics := NewTopics("S1", "cam", "ha")
	assert.Equal(t, "ha/sensor/amcrest2mqtt-S1/host/config", topics.Discovery[EntityHost].Current)
	assert.Equal(t, "ha/sensor/amcrest2mqtt-S1/cam_host/config", topics.Discovery[EntityHost].Legacy)
}

func TestEvent_Accessors(t *testing.T) {
	ev := Event{
		Code: EventCodeCrossRegionDetection,
		Payload: map[string]any{
			"Code":   EventCodeCrossRegionDetection,
			"action": "Start",
			"data":   map[string]any{"ObjectType": "Human", "Count": float64(1)},
		},
	}

	action, ok := ev.Action()
	assert.True(t, ok)
	assert.Equal(t, "Start", action)

	objectType, ok := ev.DataString("ObjectType")
	assert.True(t, ok)
	assert.Equal(t, "Human", objectType)

	_, ok = ev.DataString("Count")
	assert.False(t, ok)
	_, ok = ev.DataString("Missing")
	assert.False(t, ok)

	_, ok = Event{Payload: map[string]any{}}.DataString("ObjectType")
	assert.False(t, ok)
	_, ok = Event{}.Action()
	assert.False(t, ok)
}
