package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/persistence/memory"
	"example.com/workoutlog/internal/present"
)

func newTestApp(t *testing.T, store *memory.Store) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	console := present.NewConsole(&out)
	svc := domain.NewService(store, console, console, domain.WithLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, svc.LoadFromStore(context.Background()))
	return &App{service: svc}, &out
}

func run(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := SetupCommands(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSelectCommandPersistsClicks(t *testing.T) {
	store := memory.NewStore()
	app, _ := newTestApp(t, store)

	out, err := run(t, app, "record", "--type", "cycling", "--distance", "20", "--duration", "60", "--metric", "150", "--lat", "40", "--lng", "-3.7")
	require.NoError(t, err)
	id := strings.TrimSpace(strings.TrimPrefix(out, "recorded "))

	_, err = run(t, app, "select", id)
	require.NoError(t, err)

	// A fresh process sees the click.
	next, _ := newTestApp(t, store)
	workouts := next.service.Workouts()
	require.Len(t, workouts, 1)
	require.Equal(t, id, workouts[0].ID)
	require.Equal(t, 1, workouts[0].Clicks)

	_, err = run(t, next, "select", "missing")
	require.ErrorIs(t, err, domain.ErrWorkoutNotFound)
}

func TestListAndFieldsCommands(t *testing.T) {
	app, _ := newTestApp(t, memory.NewStore())

	out, err := run(t, app, "list")
	require.NoError(t, err)
	require.Equal(t, "no workouts yet\n", out)

	_, err = run(t, app, "record", "--distance", "5", "--duration", "25", "--metric", "170", "--lat", "1", "--lng", "2")
	require.NoError(t, err)
	out, err = run(t, app, "list")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)

	out, err = run(t, app, "fields", "cycling")
	require.NoError(t, err)
	require.Equal(t, "Elev Gain (meters) --metric\n", out)
}
