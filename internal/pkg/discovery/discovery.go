package discovery

import (
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/amcrest2mqtt/internal/pkg/model"
)

const (
	manufacturer       = "Amcrest"
	entityDiagnostic   = "diagnostic"
	deviceClassMotion  = "motion"
	unitGigabytes      = "GB"
	unitPercent        = "%"
	iconMicroSD        = "mdi:micro-sd"
	valueTemplateField = "{{ value_json.%s }}"
)

type publisher interface {
	Publish(topic, payload string) error
	PublishJSON(topic string, v any) error
}

type entity struct {
	id      model.Entity
	enabled bool
	config  model.DiscoveryConfig
}

type discovery struct {
	publisher      publisher
	topics         model.Topics
	qos            int
	storageEnabled bool
	logger         *zap.Logger
}

func New(publisher publisher, topics model.Topics, qos int, storageEnabled bool) *discovery {
	return &discovery{
		publisher:      publisher,
		topics:         topics,
		qos:            qos,
		storageEnabled: storageEnabled,
		logger:         zap.L(),
	}
}

// Publish clears the legacy config topic of every supported entity and
// publishes its current discovery document.
func (d *discovery) Publish(device model.Device) error {
	d.logger.Info("writing Home Assistant discovery config")

	for _, e := range lo.Filter(d.entities(device), func(e entity, _ int) bool { return e.enabled }) {
		topics := d.topics.Discovery[e.id]
		if err := d.publisher.Publish(topics.Legacy, ""); err != nil {
			return err
		}
		if err := d.publisher.PublishJSON(topics.Current, e.config); err != nil {
			return err
		}
		d.logger.Debug("registered entity", zap.String("entity", e.id.String()), zap.String("topic", topics.Current))
	}
	return nil
}

func (d *discovery) base(device model.Device) model.DiscoveryConfig {
	return model.DiscoveryConfig{
		AvailabilityTopic: d.topics.Status,
		QoS:               d.qos,
		Device: model.DiscoveryDevice{
			Name:         fmt.Sprintf("%s %s", manufacturer, device.Type),
			Manufacturer: manufacturer,
			Model:        device.Type,
			Identifiers:  device.SerialNumber,
			SWVersion:    device.AmcrestVersion(),
			ViaDevice:    model.BridgeName,
		},
	}
}

func (d *discovery) entities(device model.Device) []entity {
	base := d.base(device)
	uniqueID := func(e model.Entity) string {
		return fmt.Sprintf("%s.%s", device.SerialNumber, e)
	}
	name := func(suffix string) string {
		return fmt.Sprintf("%s %s", device.Name, suffix)
	}

	binarySensor := func(e model.Entity, stateTopic, displayName string) model.DiscoveryConfig {
		c := base
		c.StateTopic = stateTopic
		c.PayloadOn = model.StateOn
		c.PayloadOff = model.StateOff
		c.Name = name(displayName)
		c.UniqueID = uniqueID(e)
		return c
	}
	diagnostic := func(e model.Entity, icon, displayName string) model.DiscoveryConfig {
		c := base
		c.StateTopic = d.topics.Config
		c.ValueTemplate = fmt.Sprintf(valueTemplateField, e)
		c.Icon = icon
		c.Name = name(displayName)
		c.UniqueID = uniqueID(e)
		c.EntityCategory = entityDiagnostic
		c.EnabledByDefault = lo.ToPtr(false)
		return c
	}
	storageSensor := func(e model.Entity, stateTopic, unit, displayName string) model.DiscoveryConfig {
		c := base
		c.StateTopic = stateTopic
		c.UnitOfMeasurement = unit
		c.Icon = iconMicroSD
		c.Name = name(displayName)
		c.UniqueID = uniqueID(e)
		c.EntityCategory = entityDiagnostic
		return c
	}

	doorbell := binarySensor(model.EntityDoorbell, d.topics.Doorbell, "Doorbell")
	doorbell.Icon = "mdi:doorbell"

	human := binarySensor(model.EntityHuman, d.topics.Human, "Human")
	human.DeviceClass = deviceClassMotion

	motion := binarySensor(model.EntityMotion, d.topics.Motion, "Motion")
	motion.DeviceClass = deviceClassMotion

	usedPercent := storageSensor(model.EntityStorageUsedPercent, d.topics.StorageUsedPercent, unitPercent, "Storage Used %")
	usedPercent.ObjectID = fmt.Sprintf("%s_%s", device.Slug(), model.EntityStorageUsedPercent)

	// SWVersion holds the combined version and build string.
	version := diagnostic(model.EntityVersion, "mdi:package-up", "Version")
	version.ValueTemplate = fmt.Sprintf(valueTemplateField, "sw_version")

	return []entity{
		{id: model.EntityDoorbell, enabled: device.IsDoorbell(), config: doorbell},
		{id: model.EntityHuman, enabled: device.IsAD410(), config: human},
		{id: model.EntityMotion, enabled: true, config: motion},
		{id: model.EntityVersion, enabled: true, config: version},
		{id: model.EntitySerialNumber, enabled: true, config: diagnostic(model.EntitySerialNumber, "mdi:alphabetical-variant", "Serial Number")},
		{id: model.EntityHost, enabled: true, config: diagnostic(model.EntityHost, "mdi:ip-network", "Host")},
		{id: model.EntityStorageUsedPercent, enabled: d.storageEnabled, config: usedPercent},
		{id: model.EntityStorageUsed, enabled: d.storageEnabled, config: storageSensor(model.EntityStorageUsed, d.topics.StorageUsed, unitGigabytes, "Storage Used")},
		{id: model.EntityStorageTotal, enabled: d.storageEnabled, config: storageSensor(model.EntityStorageTotal, d.topics.StorageTotal, unitGigabytes, "Storage Total")},
	}
}
