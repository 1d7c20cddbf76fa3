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

	"github.com/unklab/lostfound-server/internal/api/http/httpctx"
	"github.com/unklab/lostfound-server/internal/api/http/router"
	httpServer "github.com/unklab/lostfound-server/internal/api/http/server"
	"github.com/unklab/lostfound-server/internal/config"
	"github.com/unklab/lostfound-server/internal/logger"
	"github.com/unklab/lostfound-server/internal/mailer"
	"github.com/unklab/lostfound-server/internal/model"
	"github.com/unklab/lostfound-server/internal/repository/postgres"
	"github.com/unklab/lostfound-server/internal/server"
	"github.com/unklab/lostfound-server/internal/service"
	storage "github.com/unklab/lostfound-server/internal/storage/minio"
	"github.com/unklab/lostfound-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	resetTokenRepo := postgres.NewResetTokenRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	resetMailer, err := newResetMailer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create mailer", "error", err)
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	avatarStorage, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize avatar storage", "error", err)
	}

	authService := service.NewAuth(userRepo, logger)
	resetService := service.NewReset(userRepo, resetTokenRepo, resetMailer, logger)
	usersService := service.NewUsers(userRepo, avatarStorage, logger)
	ctxMgr := httpctx.NewManager()

	r := router.New(authService, resetService, usersService, tokenManager, userRepo, db, ctxMgr, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runCleanupSweep(ctx, resetService, time.Duration(cfg.Reset.CleanupInterval)*time.Minute, logger.With("job", "token_cleanup"))
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// newResetMailer selects SMTP delivery when a host is configured and falls
// back to logging reset links otherwise.
func newResetMailer(cfg *config.Config, logger *logger.Logger) (model.ResetMailer, error) {
	if cfg.SMTP.Host == "" {
		logger.Info("no SMTP host configured, reset links will be logged")
		return mailer.NewLog(cfg.Reset.BaseURL, logger), nil
	}
	return mailer.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, cfg.Reset.BaseURL)
}

// runCleanupSweep periodically removes expired reset tokens until ctx is done.
func runCleanupSweep(ctx context.Context, resetService *service.Reset, interval time.Duration, logger *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := resetService.CleanupExpiredTokens(ctx); err != nil {
				logger.Error("expired token sweep failed", "error", err)
			}
		}
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
