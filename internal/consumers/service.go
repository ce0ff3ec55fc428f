package consumers

import (
	"context"
	"log/slog"

	"eventro/internal/config"
	"eventro/internal/database"
	"eventro/internal/external"
	"eventro/internal/mail"
	"eventro/internal/messaging"
	"eventro/internal/models"
	"eventro/internal/notify"
	"eventro/internal/repository"
	"eventro/internal/service"

	"github.com/nats-io/stan.go"
)

const queueGroup = "consumers"

type ConsumerService struct {
	db         *database.DB
	nats       *messaging.NATSClient
	dispatcher *notify.Dispatcher
	services   *service.Services
	handlers   *Handlers
	subs       []stan.Subscription
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Connect to NATS; без NATS работает только задача напоминаний
	var natsClient *messaging.NATSClient
	var publisher notify.Publisher
	if cfg.NATS.Enabled() {
		natsClient, err = messaging.NewNATSClient(cfg.NATS)
		if err != nil {
			db.Close()
			return nil, err
		}
		publisher = natsClient
	} else {
		slog.Warn("NATS is not configured, notification consumer disabled")
	}

	// напоминания публикуют уведомления так же, как API
	dispatcher := notify.NewDispatcher(publisher, cfg.NotifyQueueSize, slog.Default())
	dispatcher.Start()

	deps := service.Deps{
		Notifier:  dispatcher,
		Functions: external.NewFunctionsClient(cfg.Functions),
	}

	var mailer Mailer
	if sender := mail.NewSender(cfg.Mail); sender != nil {
		deps.Mailer = sender
		mailer = sender
	}

	services := service.NewServices(repository.NewRepositories(db), deps)

	return &ConsumerService{
		db:         db,
		nats:       natsClient,
		dispatcher: dispatcher,
		services:   services,
		handlers:   NewHandlers(services.Notifications, services.Profiles, mailer),
	}, nil
}

// Services exposes the domain services to background jobs
func (cs *ConsumerService) Services() *service.Services {
	return cs.services
}

func (cs *ConsumerService) Start() error {
	if cs.nats == nil {
		return nil
	}

	slog.Info("Starting NATS consumers...")

	sub, err := cs.nats.SubscribeQueue(models.EventNotificationRequested, queueGroup, cs.handlers.HandleNotificationRequested)
	if err != nil {
		return err
	}
	cs.subs = append(cs.subs, sub)

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	for _, sub := range cs.subs {
		if err := sub.Close(); err != nil {
			slog.Error("Error closing subscription", "error", err)
		}
	}

	if err := cs.dispatcher.Stop(ctx); err != nil {
		slog.Error("Error draining notification queue", "error", err)
	}

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
