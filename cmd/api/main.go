// @title CEO OS journal API
// @description Per-user row store behind the reflection journal
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/limbo/ceoos/docs"
	"github.com/limbo/ceoos/internal/api"
	"github.com/limbo/ceoos/internal/repository"
	"github.com/limbo/ceoos/internal/service"
	"github.com/limbo/ceoos/pkg/cleanup"
	"github.com/limbo/ceoos/pkg/config"
	jwtservice "github.com/limbo/ceoos/pkg/jwt_service"
	"github.com/pressly/goose"
	"golang.org/x/sync/errgroup"
)

func init() {
	service.InitValidator()
}

func main() {
	migrate := flag.Bool("migrate", false, "apply migrations before serving")
	migrationsDir := flag.String("migrations", "./migrations", "directory with goose migrations")
	flag.Parse()

	cfg := config.New()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	if *migrate || cfg.GetBool("MIGRATE_ON_START") {
		if err := applyMigrations(dbCfg.ConnString(), *migrationsDir); err != nil {
			log.Fatal("migrations error: " + err.Error())
		}
	}
	userService := service.NewUserService(repository.NewUsersRepo(&dbCfg))
	rowsService := service.NewRowsService(repository.NewRowsRepo(&dbCfg))
	serv := api.New(&api.ServicesList{
		UserService: userService,
		RowsService: rowsService,
		JwtService:  jwtservice.New(cfg.GetString("JWT_SECRET"), cfg.GetDuration("JWT_TTL", time.Hour)),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serv.Run(cfg.GetString("API_ADDRESS"))
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetDuration("SHUTDOWN_TIMEOUT", 10*time.Second))
		defer cancel()
		slog.Info("shutting down api server")
		return serv.Shutdown(shutdownCtx)
	})
	err := g.Wait()
	cleanup.CleanUp()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Println("Server error: " + err.Error())
		os.Exit(1)
	}
}

func applyMigrations(connString, dir string) error {
	conn, err := sql.Open("postgres", connString+"?sslmode=disable")
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(conn, dir)
}
