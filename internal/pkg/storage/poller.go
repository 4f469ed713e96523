package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/anicoll/amcrest2mqtt/internal/pkg/model"
)

var ErrDisabled = errors.New("storage polling is disabled")

type camera interface {
	StorageInfo(ctx context.Context) (model.StorageInfo, error)
}

type publisher interface {
	Publish(topic, payload string) error
}

type poller struct {
	camera    camera
	publisher publisher
	topics    model.Topics
	interval  int
	logger    *zap.Logger
	errChan   chan error
}

// New returns a poller that runs every interval seconds. An interval of zero
// or less returns ErrDisabled.
func New(camera camera, publisher publisher, topics model.Topics, interval int) (*poller, error) {
	if interval <= 0 {
		return nil, ErrDisabled
	}
	return &poller{
		camera:    camera,
		publisher: publisher,
		topics:    topics,
		interval:  interval,
		logger:    zap.L(),
		errChan:   make(chan error, 1),
	}, nil
}

// Run refreshes the storage sensors immediately and then on every interval
// until ctx is done. It returns early only when a publish fails.
func (p *poller) Run(ctx context.Context) error {
	if err := p.refresh(ctx); err != nil {
		return err
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %ds", p.interval), func() {
		if err := p.refresh(ctx); err != nil {
			select {
			case p.errChan <- err:
			default:
			}
		}
	}); err != nil {
		return err
	}
	c.Start()
	defer func() {
		// wait for a running tick so nothing is published after Run returns
		<-c.Stop().Done()
	}()

	select {
	case err := <-p.errChan:
		return err
	case <-ctx.Done():
		return nil
	}
}

// refresh publishes one storage snapshot. Camera errors are logged and the
// tick is skipped, publish errors are returned.
func (p *poller) refresh(ctx context.Context) error {
	p.logger.Info("fetching storage sensors")

	info, err := p.camera.StorageInfo(ctx)
	if err != nil {
		p.logger.Warn("error fetching storage information", zap.Error(err))
		return nil
	}

	if err := p.publisher.Publish(p.topics.StorageUsedPercent, formatDecimal(info.UsedPercent)); err != nil {
		return err
	}
	if err := p.publisher.Publish(p.topics.StorageUsed, ToGB(info.UsedBytes)); err != nil {
		return err
	}
	return p.publisher.Publish(p.topics.StorageTotal, ToGB(info.TotalBytes))
}
