package model

// DiscoveryDevice is the Home Assistant device registry block shared by
// every entity of the camera.
type DiscoveryDevice struct {
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Identifiers  string `json:"identifiers"`
	SWVersion    string `json:"sw_version"`
	ViaDevice    string `json:"via_device"`
}

// DiscoveryConfig is the payload of a Home Assistant MQTT discovery message.
type DiscoveryConfig struct {
	AvailabilityTopic string          `json:"availability_topic"`
	QoS               int             `json:"qos"`
	Device            DiscoveryDevice `json:"device"`
	StateTopic        string          `json:"state_topic"`
	Name              string          `json:"name"`
	UniqueID          string          `json:"unique_id"`
	ObjectID          string          `json:"object_id,omitempty"`
	Icon              string          `json:"icon,omitempty"`
	DeviceClass       string          `json:"device_class,omitempty"`
	PayloadOn         string          `json:"payload_on,omitempty"`
	PayloadOff        string          `json:"payload_off,omitempty"`
	UnitOfMeasurement string          `json:"unit_of_measurement,omitempty"`
	ValueTemplate     string          `json:"value_template,omitempty"`
	EntityCategory    string          `json:"entity_category,omitempty"`
	EnabledByDefault  *bool           `json:"enabled_by_default,omitempty"`
}
