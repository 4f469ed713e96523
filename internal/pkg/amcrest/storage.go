package amcrest

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/anicoll/amcrest2mqtt/internal/pkg/model"
)

// StorageInfo sums the capacity and usage of every storage device.
func (c *client) StorageInfo(ctx context.Context) (model.StorageInfo, error) {
	body, err := c.command(ctx, "storageDevice.cgi?action=getDeviceAllInfo")
	if err != nil {
		return model.StorageInfo{}, err
	}
	return parseStorageInfo(body)
}

func parseStorageInfo(body string) (model.StorageInfo, error) {
	info := model.StorageInfo{}
	found := false
	for _, line := range strings.Split(body, "\n") {
		key, raw, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		var target *float64
		switch {
		case strings.HasSuffix(key, ".TotalBytes"):
			target = &info.TotalBytes
		case strings.HasSuffix(key, ".UsedBytes"):
			target = &info.UsedBytes
		default:
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.StorageInfo{}, fmt.Errorf("%w: bad storage value %q: %w", ErrCommunication, line, err)
		}
		*target += v
		found = true
	}
	if !found {
		return model.StorageInfo{}, fmt.Errorf("%w: no storage devices reported", ErrCommunication)
	}
	if info.TotalBytes > 0 {
		info.UsedPercent = math.Round(info.UsedBytes/info.TotalBytes*10000) / 100
	}
	return info, nil
}
