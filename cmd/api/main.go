package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/workoutlog/internal/api"
	"example.com/workoutlog/internal/auth"
	"example.com/workoutlog/internal/config"
	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/feed"
	"example.com/workoutlog/internal/geo"
	"example.com/workoutlog/internal/persistence"
	"example.com/workoutlog/internal/present"
	httptransport "example.com/workoutlog/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := persistence.Open(ctx, persistence.Settings{
		Driver:      cfg.StoreDriver,
		DataDir:     cfg.DataDir,
		PostgresURL: cfg.PostgresURL,
	})
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	var (
		display domain.MapDisplay
		list    domain.ListRenderer
		opts    = []domain.Option{domain.WithViewOptions(domain.ViewOptions{
			Zoom:        cfg.MapZoom,
			Animate:     true,
			PanDuration: cfg.PanDuration,
		})}
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer := feed.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()
		publisher := feed.NewPublisher(producer, cfg.DisplayTopic)
		display, list = publisher, publisher
		opts = append(opts, domain.WithStartupRenderer(publisher))
		log.Printf("publishing display events to %s", cfg.DisplayTopic)
	} else {
		console := present.NewConsole(os.Stdout)
		display, list = console, console
	}

	service := domain.NewService(store, display, list, opts...)

	locator, err := geo.FromSetting(cfg.InitialLocation)
	if err != nil {
		log.Fatalf("invalid INITIAL_LOCATION: %v", err)
	}
	if err := service.Start(ctx, locator); err != nil {
		if !errors.Is(err, domain.ErrLocationUnavailable) {
			log.Fatalf("failed to load workouts: %v", err)
		}
		log.Printf("starting without a map position: %v", err)
	}

	handler := api.NewHandler(service)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	authMiddleware := auth.NewMiddleware(auth.Config{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Disabled: cfg.AuthDisabled,
	})

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, authMiddleware.Wrap(logger(mux)))

	if err := httptransport.Serve(ctx, server, cfg.ShutdownTimeout); err != nil {
		log.Printf("server error: %v", err)
	}
}
