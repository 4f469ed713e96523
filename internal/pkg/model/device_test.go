package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDevice_Capabilities(t *testing.T) {
	tests := map[string]struct {
		deviceType string
		doorbell   bool
		ad410      bool
		ad110      bool
	}{
		"AD410":        {deviceType: "AD410", doorbell: true, ad410: true},
		"AD110":        {deviceType: "AD110", doorbell: true, ad110: true},
		"IP camera":    {deviceType: "IP8M-2496EB"},
		"empty":        {deviceType: ""},
		"lower case":   {deviceType: "ad410"},
		"with padding": {deviceType: " AD410"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d := Device{Type: tt.deviceType}
			assert.Equal(t, tt.doorbell, d.IsDoorbell())
			assert.Equal(t, tt.ad410, d.IsAD410())
			assert.Equal(t, tt.ad110, d.IsAD110())
		})
	}
}

func TestDevice_Slug(t *testing.T) {
	assert.Equal(t, "front_door", Device{Name: "Front Door"}.Slug())
	assert.Equal(t, "garage_cam_2", Device{Name: "Garage-Cam 2"}.Slug())
}

func TestDevice_BridgeConfig(t *testing.T) {
	d := Device{
		SerialNumber: "ABC123",
		Version:      "2.800.0000000.8.R",
		Build:        "build:2020-03-02",
		Name:         "Front Door",
		Type:         "AD410",
		Host:         "192.168.1.20",
	}

	assert.Equal(t, BridgeConfig{
		Version:      "2.800.0000000.8.R",
		DeviceType:   "AD410",
		DeviceName:   "Front Door",
		SWVersion:    "2.800.0000000.8.R (build:2020-03-02)",
		SerialNumber: "ABC123",
		Host:         "192.168.1.20",
	}, d.BridgeConfig())
}
