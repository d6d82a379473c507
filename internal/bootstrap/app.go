package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/arogyalabs/arogyabot/internal/answer"
	"github.com/arogyalabs/arogyabot/internal/cache"
	"github.com/arogyalabs/arogyabot/internal/config"
	"github.com/arogyalabs/arogyabot/internal/i18n"
	"github.com/arogyalabs/arogyabot/internal/logging"
	"github.com/arogyalabs/arogyabot/internal/model"
	"github.com/arogyalabs/arogyabot/internal/nlp"
	mysqlClient "github.com/arogyalabs/arogyabot/internal/platform/mysql"
	rabbitmqClient "github.com/arogyalabs/arogyabot/internal/platform/rabbitmq"
	redisClient "github.com/arogyalabs/arogyabot/internal/platform/redis"
	"github.com/arogyalabs/arogyabot/internal/repository"
	"github.com/arogyalabs/arogyabot/internal/research"
	"github.com/arogyalabs/arogyabot/internal/whatsapp"
	"github.com/arogyalabs/arogyabot/internal/worker"
)

type App struct {
	Config *config.Config
	MySQL  *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	Localizer        i18n.Localizer
	HistoryCache     *cache.HistoryCache
	Engine           *answer.Engine
	Sender           *whatsapp.Sender
	MessagePublisher *rabbitmqClient.MessagePublisher
	ReplyPublisher   *rabbitmqClient.ReplyJobPublisher

	gemini        *nlp.GeminiClient
	messageWorker *worker.MessagePersistWorker
	replyWorker   *worker.ReplyDispatchWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	logging.Setup(cfg.Log)

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.User{}, &model.Conversation{}, &model.Message{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	historyCache := cache.NewHistoryCache(
		redisCli,
		time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(cfg.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	researchCache := cache.NewResearchCache(
		redisCli,
		time.Duration(cfg.Redis.ResearchTTLSeconds)*time.Second,
	)

	gemini := nlp.NewGeminiClient(cfg.NLP.APIKey, cfg.NLP.Model)
	engine := answer.NewEngine(
		research.NewSearchClient(cfg.Search.APIKey),
		research.NewPageFetcher(),
		gemini,
		researchCache,
		cfg.Search.MaxSources,
	)

	localizer := i18n.Default()
	sender := whatsapp.NewSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.WhatsAppNumber)

	messagePublisher := rabbitmqClient.NewMessagePublisher(mqConn, cfg.RabbitMQ.MessagePersistQueue)
	replyPublisher := rabbitmqClient.NewReplyJobPublisher(mqConn, cfg.RabbitMQ.ReplyDispatchQueue)

	messageRepo := repository.NewMessageRepository(mysqlDB)
	messageWorker := worker.NewMessagePersistWorker(mqConn, messageRepo, cfg.RabbitMQ.MessagePersistQueue)
	if err := messageWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start message worker failed: %w", err)
	}

	replyWorker := worker.NewReplyDispatchWorker(
		mqConn,
		engine,
		sender,
		messagePublisher,
		localizer,
		cfg.RabbitMQ.ReplyDispatchQueue,
	)
	if err := replyWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start reply worker failed: %w", err)
	}

	return &App{
		Config:           cfg,
		MySQL:            mysqlDB,
		Redis:            redisCli,
		MQConn:           mqConn,
		Localizer:        localizer,
		HistoryCache:     historyCache,
		Engine:           engine,
		Sender:           sender,
		MessagePublisher: messagePublisher,
		ReplyPublisher:   replyPublisher,
		gemini:           gemini,
		messageWorker:    messageWorker,
		replyWorker:      replyWorker,
		StartedAt:        time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.replyWorker != nil {
		a.replyWorker.Close()
	}
	if a.messageWorker != nil {
		a.messageWorker.Close()
	}
	if a.gemini != nil {
		if err := a.gemini.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
