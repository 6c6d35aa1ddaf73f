package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"HTTP_ADDRESS", "STORE_DRIVER", "KAFKA_BROKERS", "MAP_ZOOM", "PAN_DURATION", "AUTH_DISABLED", "INITIAL_LOCATION"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, "file", cfg.StoreDriver)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, 13, cfg.MapZoom)
	require.Equal(t, time.Second, cfg.PanDuration)
	require.False(t, cfg.AuthDisabled)
	require.Empty(t, cfg.InitialLocation)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("MAP_ZOOM", "15")
	t.Setenv("PAN_DURATION", "250ms")
	t.Setenv("AUTH_DISABLED", "true")
	t.Setenv("INITIAL_LOCATION", "51.5,-0.12")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	cfg := Load()
	require.Equal(t, "postgres", cfg.StoreDriver)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 15, cfg.MapZoom)
	require.Equal(t, 250*time.Millisecond, cfg.PanDuration)
	require.True(t, cfg.AuthDisabled)
	require.Equal(t, "51.5,-0.12", cfg.InitialLocation)
	require.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
