package app

import (
	"context"
	"log/slog"
	httpserver "points-wallet/internal/app/http-server"
	"points-wallet/internal/config"
	"points-wallet/internal/handlers"
	"points-wallet/internal/lib/jwt"
	"points-wallet/internal/middlewares"
	"points-wallet/internal/repository/postgres"
	"points-wallet/internal/repository/redis"
	"points-wallet/internal/routes"
	"points-wallet/internal/services"
	"points-wallet/internal/sweeper"
	"time"
)

type App struct {
	HTTPServer *httpserver.Server
	Sweeper    *sweeper.Sweeper

	storage *postgres.Storage
}

func New(log *slog.Logger, cfg *config.Config) *App {
	if err := postgres.RunMigrations(cfg.Database.PostgresConn); err != nil {
		panic(err)
	}

	storage, err := postgres.NewPostgres(context.Background(), cfg.Database.PostgresConn)
	if err != nil {
		panic(err)
	}

	jwtGen := jwt.NewGenerator(
		cfg.JWT.Secret,
		time.Minute*time.Duration(cfg.JWT.AccessExpirationMinutes),
		24*time.Hour*time.Duration(cfg.JWT.RefreshExpirationDays),
	)

	refreshTTL := 24 * time.Hour * time.Duration(cfg.JWT.RefreshExpirationDays)
	redisDB, err := redis.InitRedis(context.Background(), cfg.Redis.RedisConn, cfg.Redis.RedisPassword,
		cfg.Redis.DBNumber, refreshTTL)
	if err != nil {
		panic(err)
	}

	authService := services.NewAuthService(log, storage, redisDB, jwtGen, cfg.Wallet.InitialPoints)
	transferService := services.NewTransferService(log, storage, storage, storage, storage, cfg.Wallet.TransferExpiry)
	userService := services.NewUserService(log, storage, storage)

	authHandler := handlers.NewAuthHandler(log, authService)
	transferHandler := handlers.NewTransferHandler(log, transferService)
	userHandler := handlers.NewUserHandler(log, userService)

	authMiddleware := middlewares.NewAuthMiddleware(jwtGen)

	r := routes.InitRoutes(authHandler, transferHandler, userHandler, authMiddleware)

	server := httpserver.NewServer(log, cfg.Server.Address, r)
	expirySweeper := sweeper.New(log, transferService, cfg.Wallet.SweepInterval)

	return &App{
		HTTPServer: server,
		Sweeper:    expirySweeper,
		storage:    storage,
	}
}

func (a *App) Stop(ctx context.Context) error {
	a.Sweeper.Stop()

	if err := a.HTTPServer.Stop(ctx); err != nil {
		return err
	}

	return a.storage.Close()
}
