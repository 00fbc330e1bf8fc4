package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/user-registry/internal/api/grpc/context"
	"github.com/dtroode/user-registry/internal/api/grpc/router"
	grpcServer "github.com/dtroode/user-registry/internal/api/grpc/server"
	"github.com/dtroode/user-registry/internal/config"
	"github.com/dtroode/user-registry/internal/durable"
	"github.com/dtroode/user-registry/internal/logger"
	"github.com/dtroode/user-registry/internal/model"
	"github.com/dtroode/user-registry/internal/repository/memory"
	"github.com/dtroode/user-registry/internal/repository/postgres"
	"github.com/dtroode/user-registry/internal/server"
	"github.com/dtroode/user-registry/internal/service"
	storage "github.com/dtroode/user-registry/internal/storage/minio"
	"github.com/dtroode/user-registry/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

type stores struct {
	emails model.EmailStore
	users  model.UserStore
	sagas  model.SagaStore
	close  func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err, "driver", cfg.StorageDriver)
	}
	defer st.close()

	emailLedger := service.NewEmailLedger(st.emails, logger)
	userAggregate := service.NewUserAggregate(st.users, logger)
	saga := service.NewSaga(st.sagas, emailLedger, userAggregate, logger)

	archiver, err := newArchiver(ctx, cfg.Archive, logger)
	if err != nil {
		logger.Fatal("failed to initialize journal archive", "error", err)
	}

	runner := durable.NewRunner(st.sagas, saga, archiver, durable.Config{
		Workers:      cfg.Runtime.Workers,
		BatchSize:    cfg.Runtime.BatchSize,
		PollInterval: cfg.Runtime.PollInterval,
		Lease:        cfg.Runtime.Lease,
		BackoffBase:  cfg.Runtime.BackoffBase,
		BackoffMax:   cfg.Runtime.BackoffMax,
	}, logger.With("component", "runner"))
	saga.SetNotifier(runner)

	r := router.New(saga, userAggregate, emailLedger, token.NewJWT(cfg.JWT.Secret), grpcctx.NewManager(), logger)
	s := r.Register()
	reflection.Register(s)
	apiServer := grpcServer.NewGRPCServer(s, fmt.Sprintf(":%s", cfg.GRPC.Port))

	var sl model.SecurityLayer
	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	runnerCtx, stopRunner := context.WithCancel(context.Background())
	defer stopRunner()

	var wg sync.WaitGroup
	wg.Add(2)
	go func(w model.Worker) {
		defer wg.Done()
		if err := w.Run(runnerCtx); err != nil {
			logger.Error("saga runner stopped with error", "error", err)
		}
	}(runner)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "driver", cfg.StorageDriver)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(apiServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", apiServer.Address())
	}
	stopRunner()

	wg.Wait()
	logger.Info("shutdown complete")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.StorageDriver == config.DriverMemory {
		return &stores{
			emails: memory.NewEmailRepository(),
			users:  memory.NewUserRepository(),
			sagas:  memory.NewSagaRepository(),
			close:  func() {},
		}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}

	return &stores{
		emails: postgres.NewEmailRepository(db),
		users:  postgres.NewUserRepository(db),
		sagas:  postgres.NewSagaRepository(db),
		close:  func() { _ = db.Close() },
	}, nil
}

// newArchiver returns nil when archiving is disabled.
func newArchiver(ctx context.Context, cfg config.Archive, logger *logger.Logger) (durable.Archiver, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	return service.NewJournalArchive(storageClient, cfg.Prefix, logger), nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
