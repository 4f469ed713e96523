package cmd

import (
	"context"
	"errors"

	"github.com/anicoll/amcrest2mqtt/internal/pkg/model"
)

// MockCameraService is a mock implementation of the CameraService interface.
type MockCameraService struct {
	ConnectFunc     func(ctx context.Context) (model.Device, error)
	ListenFunc      func(ctx context.Context, handler func(model.Event) error) error
	StorageInfoFunc func(ctx context.Context) (model.StorageInfo, error)
}

func (m *MockCameraService) Connect(ctx context.Context) (model.Device, error) {
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx)
	}
	return model.Device{}, nil
}

// Listen blocks until ctx is done when ListenFunc is not set.
func (m *MockCameraService) Listen(ctx context.Context, handler func(model.Event) error) error {
	if m.ListenFunc != nil {
		return m.ListenFunc(ctx, handler)
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *MockCameraService) StorageInfo(ctx context.Context) (model.StorageInfo, error) {
	if m.StorageInfoFunc != nil {
		return m.StorageInfoFunc(ctx)
	}
	return model.StorageInfo{}, errors.New("mocked StorageInfo not implemented")
}
