package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
	"github.com/jantenesse/bjj-classifier/internal/domain/port"
	"github.com/jantenesse/bjj-classifier/internal/infra/config"
	"github.com/jantenesse/bjj-classifier/internal/infra/email"
	"github.com/jantenesse/bjj-classifier/internal/infra/examples"
	"github.com/jantenesse/bjj-classifier/internal/infra/ffmpeg"
	"github.com/jantenesse/bjj-classifier/internal/infra/httpapi"
	"github.com/jantenesse/bjj-classifier/internal/infra/metrics"
	miniosource "github.com/jantenesse/bjj-classifier/internal/infra/minio"
	"github.com/jantenesse/bjj-classifier/internal/infra/postgres"
	"github.com/jantenesse/bjj-classifier/internal/infra/rabbitmq"
	"github.com/jantenesse/bjj-classifier/internal/infra/torchserve"
	"github.com/jantenesse/bjj-classifier/internal/infra/tracing"
	"github.com/jantenesse/bjj-classifier/internal/usecase"
	"github.com/jantenesse/bjj-classifier/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting bjj-classifier")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if the collector is unavailable)
	if cfg.JaegerEndpoint != "" {
		tp, err := tracing.InitTracer(ctx, cfg.JaegerEndpoint)
		if err != nil {
			log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
		} else {
			defer tp.Shutdown(ctx)
		}
	}

	// Labeled example source
	var source port.ExampleSource
	switch cfg.TrainingSource {
	case "minio":
		src, err := miniosource.NewSource(miniosource.SourceConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			UseSSL:    cfg.MinIOUseSSL,
			Bucket:    cfg.MinIOBucket,
			TempDir:   cfg.TempDir,
		})
		fatalOnErr(err, "create minio example source")
		fatalOnErr(src.EnsureBucket(ctx), "ensure training bucket")
		source = src
	default:
		source = examples.NewDirSource(cfg.TrainingDir)
	}

	// Pipeline
	sampler := ffmpeg.NewSampler(entity.FrameSize, log)
	model := torchserve.NewClient(torchserve.ClientConfig{
		BaseURL:   cfg.ModelServerURL,
		ModelName: cfg.ModelName,
	}, log)
	extractor := usecase.NewEmbeddingExtractor(sampler, model, log, usecase.ExtractorConfig{
		NumFrames: cfg.NumFrames,
		Alpha:     cfg.Alpha,
	})

	corpus := usecase.NewCorpusCache(source, extractor, log)
	if cfg.NotificationTo != "" {
		notifier := email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, log)
		corpus.WithDegradationNotifier(notifier, cfg.NotificationTo)
	}

	classifier := usecase.NewSimilarityClassifier(cfg.DefaultCategory)

	// Optional classification history
	var repo port.ClassificationRepository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		fatalOnErr(err, "connect to postgres")
		defer pool.Close()
		fatalOnErr(postgres.EnsureSchema(ctx, pool), "ensure postgres schema")
		repo = postgres.NewClassificationRepository(pool)
	}

	// Optional classification events
	var publisher port.EventPublisher
	if cfg.RabbitMQURL != "" {
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		fatalOnErr(err, "connect to rabbitmq")
		defer conn.Close()
		pub, err := rabbitmq.NewPublisher(conn, cfg.RabbitMQExchange)
		fatalOnErr(err, "create rabbitmq publisher")
		publisher = rabbitmq.NewClassificationPublisher(pub)
	}

	uc := usecase.NewClassifyClipUseCase(
		extractor, corpus, classifier,
		repo, publisher,
		log,
		usecase.ClassifyClipConfig{
			TempDir:        cfg.TempDir,
			ModelVersion:   cfg.ModelVersion,
			RequestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
	)

	metricsSrv := metrics.StartServer(cfg.MetricsPort, log)

	// Startup hook: the corpus must be built before classification traffic
	// is accepted.
	log.Info("building training corpus", zap.String("source", cfg.TrainingSource))
	buildStart := time.Now()
	built, err := corpus.Build(ctx)
	fatalOnErr(err, "build training corpus")
	log.Info("training corpus ready",
		zap.Int("categories", built.CategoryCount()),
		zap.Int("examples", built.ExampleCount()),
		zap.Duration("took", time.Since(buildStart)),
	)

	app := httpapi.NewHTTPServer(httpapi.ServerDependencies{
		Controller: httpapi.NewClassificationController(uc, log),
		Ready:      corpus.Ready,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		log.Info("http server starting", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			log.Error("http server error", zap.Error(err))
			cancel()
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("http server shutdown error", zap.Error(err))
	}
	metricsSrv.Shutdown(shutdownCtx)

	log.Info("bjj-classifier stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
