package model

import "fmt"

const (
	BridgeName = "amcrest2mqtt"

	StatusOnline  = "online"
	StatusOffline = "offline"

	StateOn  = "on"
	StateOff = "off"
)

type Component string

const (
	ComponentBinarySensor Component = "binary_sensor"
	ComponentSensor       Component = "sensor"
)

type Entity string

const (
	EntityDoorbell           Entity = "doorbell"
	EntityHuman              Entity = "human"
	EntityMotion             Entity = "motion"
	EntityVersion            Entity = "version"
	EntitySerialNumber       Entity = "serial_number"
	EntityHost               Entity = "host"
	EntityStorageUsedPercent Entity = "storage_used_percent"
	EntityStorageUsed        Entity = "storage_used"
	EntityStorageTotal       Entity = "storage_total"
)

var entityComponents = map[Entity]Component{
	EntityDoorbell:           ComponentBinarySensor,
	EntityHuman:              ComponentBinarySensor,
	EntityMotion:             ComponentBinarySensor,
	EntityVersion:            ComponentSensor,
	EntitySerialNumber:       ComponentSensor,
	EntityHost:               ComponentSensor,
	EntityStorageUsedPercent: ComponentSensor,
	EntityStorageUsed:        ComponentSensor,
	EntityStorageTotal:       ComponentSensor,
}

func (e Entity) Component() Component {
	return entityComponents[e]
}

func (e Entity) String() string {
	return string(e)
}

// DiscoveryTopics holds the current and legacy config topics of one entity.
type DiscoveryTopics struct {
	Current string
	Legacy  string
}

// Topics is the full MQTT topic table for a single camera.
type Topics struct {
	Config             string
	Status             string
	Event              string
	Motion             string
	Doorbell           string
	Human              string
	StorageUsed        string
	StorageUsedPercent string
	StorageTotal       string
	Discovery          map[Entity]DiscoveryTopics
}

// NewTopics builds the topic table from the device serial number, the device
// name slug and the discovery prefix.
func NewTopics(serialNumber, deviceSlug, discoveryPrefix string) Topics {
	base := fmt.Sprintf("%s/%s", BridgeName, serialNumber)
	t := Topics{
		Config:             base + "/config",
		Status:             base + "/status",
		Event:              base + "/event",
		Motion:             base + "/motion",
		Doorbell:           base + "/doorbell",
		Human:              base + "/human",
		StorageUsed:        base + "/storage/used",
		StorageUsedPercent: base + "/storage/used_percent",
		StorageTotal:       base + "/storage/total",
		Discovery:          make(map[Entity]DiscoveryTopics, len(entityComponents)),
	}
	for entity, component := range entityComponents {
		nodeID := fmt.Sprintf("%s/%s/%s-%s", discoveryPrefix, component, BridgeName, serialNumber)
		t.Discovery[entity] = DiscoveryTopics{
			Current: fmt.Sprintf("%s/%s/config", nodeID, entity),
			Legacy:  fmt.Sprintf("%s/%s_%s/config", nodeID, deviceSlug, entity),
		}
	}
	return t
}
