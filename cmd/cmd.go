package cmd

import (
	"context"
	"errors"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/amcrest2mqtt/internal/pkg/amcrest"
	"github.com/anicoll/amcrest2mqtt/internal/pkg/config"
	"github.com/anicoll/amcrest2mqtt/internal/pkg/discovery"
	"github.com/anicoll/amcrest2mqtt/internal/pkg/model"
	"github.com/anicoll/amcrest2mqtt/internal/pkg/mqtt"
	"github.com/anicoll/amcrest2mqtt/internal/pkg/router"
	"github.com/anicoll/amcrest2mqtt/internal/pkg/storage"
)

// AmcrestCommand is the main entry point of the CLI. It loads the
// configuration from the environment and runs the bridge until interrupted
// or a fatal error occurs.
func AmcrestCommand(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.LogLevel = ctx.String("log-level")

	logCfg := zap.NewProductionConfig()
	logCfg.Level, err = zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	logger := zap.Must(logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)))
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)

	logger.Info("starting", zap.String("app", ctx.App.Name), zap.String("version", ctx.App.Version))

	camera, err := amcrest.New(cfg.AmcrestCfg)
	if err != nil {
		return err
	}

	errorChan := make(chan error, 1)
	newMqtt := func(statusTopic string) (MqttService, error) {
		svc, err := mqtt.New(cfg.MqttCfg, statusTopic, errorChan)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}

	return run(ctx.Context, cfg, camera, newMqtt, errorChan, logger)
}

func run(ctx context.Context, cfg *config.Config, camera CameraService, newMqtt mqttFactory, errorChan chan error, logger *zap.Logger) error {
	device, err := camera.Connect(ctx)
	if err != nil {
		logger.Error("failed to connect to camera", zap.Error(err))
		return err
	}
	topics := model.NewTopics(device.SerialNumber, device.Slug(), cfg.HomeAssistantCfg.Prefix)

	mqttSvc, err := newMqtt(topics.Status)
	if err != nil {
		logger.Error("failed to configure MQTT client", zap.Error(err))
		return err
	}
	if err := mqttSvc.Connect(); err != nil {
		logger.Error("failed to connect to MQTT server", zap.Error(err))
		return err
	}

	err = serve(ctx, cfg, camera, mqttSvc, device, topics, errorChan, logger)
	mqttSvc.Shutdown(topics.Status)

	if err == nil || (errors.Is(err, context.Canceled) && ctx.Err() != nil) {
		logger.Info("interrupted, exiting")
		return nil
	}
	logger.Error("fatal error, exiting", zap.Error(err))
	return err
}

// serve publishes the startup messages and then runs the event loop and the
// storage poller until one of them fails or ctx is done.
func serve(ctx context.Context, cfg *config.Config, camera CameraService, mqttSvc MqttService, device model.Device, topics model.Topics, errorChan chan error, logger *zap.Logger) error {
	if cfg.HomeAssistantCfg.Enabled {
		if err := discovery.New(mqttSvc, topics, cfg.MqttCfg.QoS, cfg.StoragePollingEnabled()).Publish(device); err != nil {
			return err
		}
	}

	if err := mqttSvc.Publish(topics.Status, model.StatusOnline); err != nil {
		return err
	}
	if err := mqttSvc.PublishJSON(topics.Config, device.BridgeConfig()); err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)

	if cfg.StoragePollingEnabled() {
		poller, err := storage.New(camera, mqttSvc, topics, cfg.StoragePollInterval)
		if err != nil {
			return err
		}
		eg.Go(func() error {
			return poller.Run(ctx)
		})
	} else {
		logger.Info("storage polling disabled")
	}

	eg.Go(func() error {
		return camera.Listen(ctx, router.New(mqttSvc, topics, device).Handle)
	})

	eg.Go(func() error {
		// handle any async errors from the MQTT client
		select {
		case err := <-errorChan:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	return eg.Wait()
}
