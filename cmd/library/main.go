package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"library-lending/internal/api"
	"library-lending/internal/config"
	"library-lending/internal/domain"
	"library-lending/internal/router"
	"library-lending/internal/service"
	"library-lending/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.LoadClientConfig()
	if err != nil {
		log.Fatal(err)
	}
	bindFlags(pflag.CommandLine, cfg)
	pflag.Parse()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	kv, closeKV, err := openSessionKV(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open session store: %v", err)
	}
	defer closeKV()

	sess := session.NewContext(kv, logger)
	notifier := newTerminalNotifier(os.Stderr)
	unsubscribe := sess.Subscribe(func(s domain.Session) {
		logger.Debug("login state changed", zap.Bool("logged_in", s.HasToken()))
	})
	defer unsubscribe()

	table, err := router.NewTable(router.DefaultRoutes())
	if err != nil {
		log.Fatal(err)
	}
	nav := router.New(table, sess, notifier, logger)

	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger,
		api.WithRequestInterceptor(api.AuthInterceptor(sess)),
		api.WithRequestInterceptor(api.RequestIDInterceptor()),
		api.WithResponseInterceptor(api.NewErrorInterceptor(sess, notifier, nav, logger)),
	)

	app := &app{
		in:        bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		notifier:  notifier,
		session:   sess,
		nav:       nav,
		auth:      service.NewAuthService(logger, client, sess),
		books:     service.NewBookService(client),
		borrowing: service.NewBorrowingService(client),
	}
	if err := app.run(ctx); err != nil {
		log.Fatal(err)
	}
}

func bindFlags(fs *pflag.FlagSet, cfg *config.ClientConfig) {
	fs.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "backend base URL including /api")
	fs.DurationVar(&cfg.APITimeout, "timeout", cfg.APITimeout, "per-request timeout")
	fs.StringVar(&cfg.SessionBackend, "session-backend", cfg.SessionBackend, "where to keep the session: file, redis or memory")
	fs.StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "session file for the file backend")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address for the redis backend")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}

// openSessionKV elige donde persiste la sesion. Si Redis no responde se
// vuelve al archivo.
func openSessionKV(ctx context.Context, cfg *config.ClientConfig, logger *zap.Logger) (session.KV, func(), error) {
	noop := func() {}
	switch strings.ToLower(cfg.SessionBackend) {
	case config.SessionBackendMemory:
		return session.NewMemoryKV(), noop, nil
	case config.SessionBackendRedis:
		if cfg.RedisAddr == "" {
			return nil, noop, fmt.Errorf("redis session backend needs REDIS_ADDR")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			logger.Warn("redis ping failed, falling back to file session", zap.Error(err))
			return session.NewFileKV(cfg.SessionFile), noop, nil
		}
		return session.NewRedisKV(client, cfg.SessionPrefix), func() { _ = client.Close() }, nil
	case config.SessionBackendFile, "":
		return session.NewFileKV(cfg.SessionFile), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
