package bootstrap

import (
	"context"
	"log"

	"consultation-be/internal/config"
	"consultation-be/internal/controller"
	"consultation-be/internal/handler"
	"consultation-be/internal/pkg/clock"
	"consultation-be/internal/pkg/logger"
	"consultation-be/internal/pkg/mailer"
	"consultation-be/internal/pkg/serverutils"
	"consultation-be/internal/repository/memory"
	"consultation-be/internal/repository/unitofwork"
	"consultation-be/internal/service"
	"consultation-be/internal/websocket"
	pktNats "consultation-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	EngagementController controller.IEngagementController
	VisitController      controller.IVisitController
	ReportController     controller.IReportController
	FeedbackController   controller.IFeedbackController
	ChatController       controller.IChatController
	ChatSocketHandler    *handler.ChatSocketHandler

	// Background workers (exposed for main.go to run)
	WebSocketHub   *websocket.Hub
	Dispatcher     *service.NotificationDispatcher
	EventRelay     *service.EventRelayService
	ChannelService service.IChannelService

	closers []func()
}

// NewContainer wires every component. db may be nil when the memory storage
// driver is selected.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	var uowFactory unitofwork.RepositoryFactory
	if cfg.Database.Driver == config.StorageDriverMemory || db == nil {
		log.Println("[WARN] Using in-memory storage; data is lost on restart")
		uowFactory = memory.NewRepositoryFactory(memory.NewStore())
	} else {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	}

	clk := clock.Real()

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Email queue
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })
	dispatcher := service.NewNotificationDispatcher(pubSub, cfg.App.NotificationTopic, emailService, sysLogger)

	// 3. Infrastructure
	// Interfaces stay nil when a connection fails so services see "disabled".
	var publisher service.IPublisherService
	var subscriber service.IEventSubscriber
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			publisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			subscriber = natsSub
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Cross-instance fan-out disabled", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
	}

	wsLogger := logger.NewIsolatedLogger(cfg.App.RealtimeLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 4. Services
	directory := service.NewUserDirectory(uowFactory)
	channelService := service.NewChannelService(uowFactory, clk, sysLogger)
	engagementService := service.NewEngagementService(uowFactory, channelService, directory, dispatcher, publisher, clk, sysLogger)
	messageService := service.NewMessageService(uowFactory, wsHub, clk, sysLogger)
	visitService := service.NewVisitService(uowFactory, clk, sysLogger)
	reportService := service.NewReportService(uowFactory, clk, sysLogger)
	feedbackService := service.NewFeedbackService(uowFactory, directory, dispatcher, clk, cfg.Domain.FeedbackEditWindow, sysLogger)
	relay := service.NewEventRelayService(subscriber, wsHub, wsLogger)

	// 5. Controllers
	auth := serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret)

	c.EngagementController = controller.NewEngagementController(controller.EngagementServices{
		Engagement: engagementService,
		Channel:    channelService,
		Visit:      visitService,
		Report:     reportService,
		Feedback:   feedbackService,
	}, auth)
	c.VisitController = controller.NewVisitController(visitService, auth)
	c.ReportController = controller.NewReportController(reportService, auth)
	c.FeedbackController = controller.NewFeedbackController(feedbackService, auth)
	c.ChatController = controller.NewChatController(messageService, auth)
	c.ChatSocketHandler = handler.NewChatSocketHandler(messageService, wsHub, cfg.Auth.JwtSecret, wsLogger)

	c.WebSocketHub = wsHub
	c.Dispatcher = dispatcher
	c.EventRelay = relay
	c.ChannelService = channelService

	return c
}

// Close releases broker and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
