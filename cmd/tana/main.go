package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/yuitake/tana/internal/config"
	"github.com/yuitake/tana/internal/domain"
	"github.com/yuitake/tana/internal/infra/cache"
	"github.com/yuitake/tana/internal/infra/database"
	"github.com/yuitake/tana/internal/infra/database/models"
	"github.com/yuitake/tana/internal/infra/provider"
	"github.com/yuitake/tana/internal/infra/repository"
	"github.com/yuitake/tana/internal/infra/telemetry"
	"github.com/yuitake/tana/internal/present/rest"
	"github.com/yuitake/tana/internal/service"
	"github.com/yuitake/tana/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()
	if env := os.Getenv("TANA_CONFIG"); env != "" && *configPath == "config.yaml" {
		*configPath = env
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := database.MigratePostgres(db); err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var signal *service.SignalService
	if conf.Server.RedisAddr != "" {
		rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)
		signal = service.NewSignalService(rdb)
	}

	var spotlightCache usecase.SpotlightCache
	switch conf.Server.CacheBackend {
	case "memcached":
		spotlightCache = cache.NewMemcached(database.NewMemcached(conf.Server.MemcachedAddr))
	default:
		spotlightCache = cache.NewMemory()
	}

	var locker usecase.RolloverLocker
	switch conf.Server.RolloverLock {
	case "category":
		locker = usecase.NewKeyedLocker()
	default:
		locker = usecase.NewGlobalLocker()
	}

	directory := provider.NewDirectory()
	directory.Register(domain.CategoryBook, provider.NewArchive[models.Book](db))
	directory.Register(domain.CategoryMovie, provider.NewArchive[models.Movie](db))
	directory.Register(domain.CategoryShow, provider.NewArchive[models.Show](db))
	directory.Register(domain.CategoryMusic, provider.NewArchive[models.Album](db))
	directory.Register(domain.CategoryAnime, provider.NewArchive[models.Anime](db))
	directory.Register(domain.CategoryGame, provider.NewArchive[models.Game](db))
	directory.Register(domain.CategoryTabletop, provider.NewArchive[models.Campaign](db))
	directory.Register(domain.CategoryQuote, provider.NewArchive[models.Quote](db))

	for _, category := range domain.Categories() {
		if _, err := directory.Resolve(category); err != nil {
			slog.Error("category has no registered provider", slog.String("category", category))
			os.Exit(1)
		}
	}

	spotlightRepo := repository.NewSpotlightRepository(db)

	var events usecase.EventPublisher
	if signal != nil {
		events = signal
	}
	spotlightUC := usecase.NewSpotlightUsecase(spotlightRepo, directory, spotlightCache, events, locker)

	stores := map[string]usecase.ArchiveStore{
		domain.CategoryBook:     usecase.NewTypedStore[models.Book](repository.NewArchiveRepository[models.Book](db)),
		domain.CategoryMovie:    usecase.NewTypedStore[models.Movie](repository.NewArchiveRepository[models.Movie](db)),
		domain.CategoryShow:     usecase.NewTypedStore[models.Show](repository.NewArchiveRepository[models.Show](db)),
		domain.CategoryMusic:    usecase.NewTypedStore[models.Album](repository.NewArchiveRepository[models.Album](db)),
		domain.CategoryAnime:    usecase.NewTypedStore[models.Anime](repository.NewArchiveRepository[models.Anime](db)),
		domain.CategoryGame:     usecase.NewTypedStore[models.Game](repository.NewArchiveRepository[models.Game](db)),
		domain.CategoryTabletop: usecase.NewTypedStore[models.Campaign](repository.NewArchiveRepository[models.Campaign](db)),
		domain.CategoryQuote:    usecase.NewTypedStore[models.Quote](repository.NewArchiveRepository[models.Quote](db)),
		"Article":               usecase.NewTypedStore[models.Article](repository.NewArchiveRepository[models.Article](db)),
	}
	archiveUC := usecase.NewArchiveUsecase(stores)

	e := echo.New()
	e.Validator = rest.NewValidator()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	if conf.Server.EnableTrace {
		cleanup, err := telemetry.SetupTraceProvider(context.Background(), conf.Server.TraceEndpoint, "tana")
		if err != nil {
			slog.Error("failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cleanup()
		e.Use(otelecho.Middleware("tana"))
	}

	h := rest.NewHandler(conf.Server, spotlightUC, archiveUC, signal)
	h.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}
