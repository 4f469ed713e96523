package amcrest

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/anicoll/amcrest2mqtt/internal/pkg/model"
)

// Connect fetches the device identity. It is called once at startup.
func (c *client) Connect(ctx context.Context) (model.Device, error) {
	c.logger.Info("fetching camera details")

	serial, err := c.command(ctx, "magicBox.cgi?action=getSerialNo")
	if err != nil {
		return model.Device{}, err
	}
	software, err := c.command(ctx, "magicBox.cgi?action=getSoftwareVersion")
	if err != nil {
		return model.Device{}, err
	}
	name, err := c.command(ctx, "magicBox.cgi?action=getMachineName")
	if err != nil {
		return model.Device{}, err
	}
	deviceType, err := c.command(ctx, "magicBox.cgi?action=getDeviceType")
	if err != nil {
		return model.Device{}, err
	}

	version, build := parseSoftwareVersion(software)
	device := model.Device{
		SerialNumber: value(serial, "sn"),
		Version:      version,
		Build:        build,
		Name:         value(name, "name"),
		Type:         value(deviceType, "type"),
		Host:         c.cfg.Host,
	}

	c.logger.Info("camera details",
		zap.String("device_type", device.Type),
		zap.String("serial_number", device.SerialNumber),
		zap.String("software_version", device.AmcrestVersion()),
		zap.String("device_name", device.Name),
	)
	return device, nil
}

// parseSoftwareVersion splits "version=2.800.0000000.8.R,build:2020-03-02".
func parseSoftwareVersion(body string) (version, build string) {
	version, build, _ = strings.Cut(strings.TrimSpace(body), ",")
	return value(version, "version"), strings.TrimSpace(build)
}
