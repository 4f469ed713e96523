package storage

import (
	"math"
	"strconv"
	"strings"
	"sync"
)

const bytesPerGB = 1024 * 1024 * 1024

var gbCache sync.Map

// ToGB converts bytes to gigabytes rounded to two decimals, formatted with at
// least one decimal place ("1.0", "29.71"). Results are memoized.
func ToGB(bytes float64) string {
	if v, ok := gbCache.Load(bytes); ok {
		return v.(string)
	}
	gb := formatDecimal(math.Round(bytes/bytesPerGB*100) / 100)
	gbCache.Store(bytes, gb)
	return gb
}

func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
