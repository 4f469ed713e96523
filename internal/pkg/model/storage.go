package model

// StorageInfo is the aggregate of every storage device on the camera.
type StorageInfo struct {
	UsedBytes   float64
	TotalBytes  float64
	UsedPercent float64
}
