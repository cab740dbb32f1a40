package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"partysense/device/executor"
	"partysense/device/player"
	"partysense/device/sensors"
	"partysense/device/status"
	"partysense/domain/model"
	"partysense/infrastructure/configuration"
	"partysense/infrastructure/logger"
	"partysense/infrastructure/messaging"
)

// The device agent subscribes to its user's commands channel, runs the local
// player state machine and publishes status reports.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	configuration.LoadEnvFromFile("config.env", ".env")
	cfg := configuration.C

	userID := cfg.Device.UserID
	if userID == "" {
		logger.GetLogger().Error("DEVICE_USER_ID is required")
		os.Exit(1)
	}

	broker, err := initBroker(ctx, cfg)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Message broker initialization failed")
		os.Exit(1)
	}

	commandsChannel := model.ChannelName(userID, model.ChannelCommands)
	statusChannel := model.ChannelName(userID, model.ChannelStatus)

	var publisher *status.Publisher
	p := player.New(func() {
		if publisher != nil {
			publisher.OnChange()
		}
	})
	publisher = status.NewPublisher(broker, statusChannel, userID, p)

	led := sensors.NewLogLEDRing()
	exec := executor.New(p, led)
	pir := sensors.NewPIRSensor(nil)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return publisher.Run(ctx)
	})
	g.Go(func() error {
		pir.Run(ctx)
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case motion, ok := <-pir.Events():
				if !ok {
					return nil
				}
				if !exec.MotionEnabled() {
					continue
				}
				p.SetMotionDetected(motion)
				if motion {
					led.SetMode(model.ModeDefault)
				} else {
					led.TurnOff()
				}
			}
		}
	})
	g.Go(func() error {
		return exec.Run(ctx, broker, commandsChannel)
	})

	logger.GetLogger().
		WithField("user_id", userID).
		WithField("commands_channel", commandsChannel).
		Info("Device agent started")

	select {
	case <-interrupt:
		logger.GetLogger().Info("Device agent shutdown requested")
	case <-ctx.Done():
	}
	cancel()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Device agent returned an error")
		os.Exit(2)
	}
	led.TurnOff()
}

func initBroker(ctx context.Context, cfg configuration.Config) (messaging.IBroker, error) {
	signer := messaging.NewGrantSigner(cfg.Channels.SigningKey)
	switch cfg.Messaging.Driver {
	case "servicebus":
		return messaging.NewServiceBusBroker(ctx, cfg.ServiceBus.Namespace, signer)
	default:
		return messaging.NewPubSubBroker(ctx, cfg.Pubsub.ProjectID, signer)
	}
}
