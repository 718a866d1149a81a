package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/jsw-dev/portfolio-server/auth"
	"github.com/jsw-dev/portfolio-server/internal/config"
	"github.com/jsw-dev/portfolio-server/mail"
	"github.com/jsw-dev/portfolio-server/server"
	"github.com/jsw-dev/portfolio-server/session"
	"github.com/jsw-dev/portfolio-server/token"
	"github.com/jsw-dev/portfolio-server/users/postgres"
	"github.com/jsw-dev/portfolio-server/verify"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	c := config.New()
	configureLogging(c)
	displayAppname(c.GetAppName())

	ctx := context.Background()

	handler, cleanup, err := buildServer(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildServer(ctx context.Context, c config.Config) (http.Handler, func(), error) {
	codec, err := token.NewCodec(c.GetJWTSecret())
	if err != nil {
		return nil, nil, fmt.Errorf("token.NewCodec: %w", err)
	}

	userStore, err := postgres.New(ctx, c.GetDatabaseURL())
	if err != nil {
		return nil, nil, fmt.Errorf("postgres.New: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     c.GetRedisAddr(),
		Password: c.GetRedisPassword(),
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		userStore.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	cleanup := func() {
		userStore.Close()
		if err := redisClient.Close(); err != nil {
			zlog.Err(err).Msg("Failed to close redis client")
		}
	}

	mailer := mail.NewSMTPSender(c.GetSmtpHost(), c.GetSmtpPort(), c.GetSmtpAccount(), c.GetSmtpPassword())

	authService, err := auth.NewService(auth.Repos{
		Users:         userStore,
		Sessions:      session.NewRedisRepo(redisClient, c.GetStoreTimeout()),
		Verifications: verify.NewRedisRepo(redisClient, c.GetStoreTimeout()),
	}, codec, mailer, c)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("auth.NewService: %w", err)
	}

	// Social login is optional; the server runs without it when the
	// Google client credentials are absent.
	google, err := server.NewGoogleOAuth(ctx, c)
	if err != nil {
		zlog.Warn().Err(err).Msg("Google social login disabled")
		google = nil
	}

	srv, err := server.New(c, authService, codec, google)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("server.New: %w", err)
	}
	return srv, cleanup, nil
}

func configureLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
