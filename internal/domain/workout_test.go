package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRunningComputesPace(t *testing.T) {
	at := time.Date(2024, time.April, 14, 9, 30, 0, 0, time.UTC)
	w, err := NewRunning(Coordinates{Lat: 51.5, Lng: -0.12}, 5.2, 26, 178, at)
	require.NoError(t, err)

	require.Equal(t, KindRunning, w.Kind)
	require.NotNil(t, w.Running)
	require.Nil(t, w.Cycling)
	require.Equal(t, 178, w.Running.CadenceSpm)
	require.InDelta(t, 5.0, w.Running.PaceMinPerKm, 1e-9)
	require.InDelta(t, 5.0, w.DerivedMetric(), 1e-9)
	require.Equal(t, "Running on April 14", w.Description)
	require.Equal(t, 0, w.Clicks)
}

func TestNewCyclingComputesSpeed(t *testing.T) {
	at := time.Date(2024, time.December, 1, 18, 0, 0, 0, time.UTC)
	w, err := NewCycling(Coordinates{Lat: 40, Lng: -3.7}, 20, 60, -150, at)
	require.NoError(t, err)

	require.Equal(t, KindCycling, w.Kind)
	require.NotNil(t, w.Cycling)
	require.Nil(t, w.Running)
	require.Equal(t, -150.0, w.Cycling.ElevationGainM)
	require.InDelta(t, 20.0, w.Cycling.SpeedKmPerH, 1e-9)
	require.Equal(t, "Cycling on December 1", w.Description)
}

func TestConstructorsRejectInvalidInput(t *testing.T) {
	at := time.Now()
	here := Coordinates{Lat: 10, Lng: 10}

	cases := []struct {
		name string
		fn   func() error
	}{
		{"running zero distance", func() error { _, err := NewRunning(here, 0, 20, 170, at); return err }},
		{"running negative duration", func() error { _, err := NewRunning(here, 5, -1, 170, at); return err }},
		{"running zero cadence", func() error { _, err := NewRunning(here, 5, 20, 0, at); return err }},
		{"running NaN distance", func() error { _, err := NewRunning(here, math.NaN(), 20, 170, at); return err }},
		{"cycling infinite elevation", func() error { _, err := NewCycling(here, 5, 20, math.Inf(1), at); return err }},
		{"cycling zero duration", func() error { _, err := NewCycling(here, 5, 0, 10, at); return err }},
		{"latitude out of range", func() error { _, err := NewCycling(Coordinates{Lat: 91}, 5, 20, 10, at); return err }},
		{"longitude out of range", func() error { _, err := NewRunning(Coordinates{Lng: -181}, 5, 20, 170, at); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.fn(), ErrInvalidWorkoutInput)
		})
	}
}

func TestIDUsesTrailingMillisecondDigits(t *testing.T) {
	at := time.UnixMilli(1712345678901)
	require.Equal(t, "2345678901", idFromTime(at))

	short := time.UnixMilli(42)
	require.Equal(t, "42", idFromTime(short))
}

func TestDescribeCoversEveryMonth(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		at := time.Date(2023, m, 31, 0, 0, 0, 0, time.UTC)
		got := Describe(KindCycling, at)
		require.Contains(t, got, "Cycling on ")
		require.Contains(t, got, at.Month().String())
	}
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" Running ")
	require.NoError(t, err)
	require.Equal(t, KindRunning, kind)

	_, err = ParseKind("swimming")
	require.ErrorIs(t, err, ErrInvalidWorkoutInput)
}

func TestFormInputBuild(t *testing.T) {
	at := time.Date(2024, time.May, 3, 7, 0, 0, 0, time.UTC)
	here := Coordinates{Lat: 1, Lng: 2}

	w, err := FormInput{Type: "cycling", Distance: "20", Duration: "60", Metric: ""}.build(here, at)
	require.NoError(t, err)
	require.Equal(t, 0.0, w.Cycling.ElevationGainM)

	_, err = FormInput{Type: "running", Distance: "5", Duration: "25", Metric: "170.5"}.build(here, at)
	require.ErrorIs(t, err, ErrInvalidWorkoutInput)

	_, err = FormInput{Type: "running", Distance: "abc", Duration: "25", Metric: "170"}.build(here, at)
	require.ErrorIs(t, err, ErrInvalidWorkoutInput)

	_, err = FormInput{Type: "cycling", Distance: "10", Duration: "30", Metric: "up"}.build(here, at)
	require.ErrorIs(t, err, ErrInvalidWorkoutInput)

	_, err = FormInput{Type: "running", Distance: "", Duration: "25", Metric: "170"}.build(here, at)
	require.ErrorIs(t, err, ErrInvalidWorkoutInput)
}
