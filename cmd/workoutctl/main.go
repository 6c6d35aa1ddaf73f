package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"example.com/workoutlog/internal/config"
	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/persistence"
	"example.com/workoutlog/internal/present"
)

// App holds the controller shared by every subcommand.
type App struct {
	service *domain.Service
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	store, closeStore, err := persistence.Open(ctx, persistence.Settings{
		Driver:      cfg.StoreDriver,
		DataDir:     cfg.DataDir,
		PostgresURL: cfg.PostgresURL,
	})
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreDriver, err)
	}

	console := present.NewConsole(os.Stdout)
	service := domain.NewService(store, console, console,
		domain.WithLogger(log.New(os.Stderr, "[workoutctl] ", 0)),
		domain.WithViewOptions(domain.ViewOptions{Zoom: cfg.MapZoom, Animate: true, PanDuration: cfg.PanDuration}),
	)
	if err := service.LoadFromStore(ctx); err != nil {
		closeStore()
		log.Fatalf("failed to load workouts: %v", err)
	}

	rootCmd := SetupCommands(&App{service: service})
	err = rootCmd.ExecuteContext(ctx)
	closeStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
