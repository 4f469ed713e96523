package model

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

const (
	DeviceTypeAD410 = "AD410"
	DeviceTypeAD110 = "AD110"
)

// Device is the camera identity, fetched once at startup.
type Device struct {
	SerialNumber string
	Version      string
	Build        string
	Name         string
	Type         string
	Host         string
}

func (d Device) IsAD410() bool {
	return d.Type == DeviceTypeAD410
}

func (d Device) IsAD110() bool {
	return d.Type == DeviceTypeAD110
}

// IsDoorbell reports whether the model has a doorbell button.
func (d Device) IsDoorbell() bool {
	return d.IsAD410() || d.IsAD110()
}

// AmcrestVersion combines the software version and build, e.g.
// "2.800.0000000.8.R (build:2020-03-02)".
func (d Device) AmcrestVersion() string {
	return fmt.Sprintf("%s (%s)", d.Version, d.Build)
}

// Slug is the device name in lower case with "_" separators, as used in the
// legacy discovery topics.
func (d Device) Slug() string {
	return strings.ReplaceAll(slug.Make(d.Name), "-", "_")
}

// BridgeConfig is published to the config topic. The diagnostic discovery
// entities read their values from it.
type BridgeConfig struct {
	Version      string `json:"version"`
	DeviceType   string `json:"device_type"`
	DeviceName   string `json:"device_name"`
	SWVersion    string `json:"sw_version"`
	SerialNumber string `json:"serial_number"`
	Host         string `json:"host"`
}

func (d Device) BridgeConfig() BridgeConfig {
	return BridgeConfig{
		Version:      d.Version,
		DeviceType:   d.Type,
		DeviceName:   d.Name,
		SWVersion:    d.AmcrestVersion(),
		SerialNumber: d.SerialNumber,
		Host:         d.Host,
	}
}
