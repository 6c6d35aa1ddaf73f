package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/present"
)

// SetupCommands builds the command tree around the app.
func SetupCommands(a *App) *cobra.Command {
	// root command
	rootCmd := &cobra.Command{
		Use:          "workoutctl",
		Short:        "Record and browse map-pinned workouts",
		SilenceUsage: true,
	}

	var (
		input    domain.FormInput
		lat, lng float64
	)

	// command for recording a workout at a position
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Record a running or cycling workout",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.service.RecordWorkoutFromInput(cmd.Context(), input, domain.Coordinates{Lat: lat, Lng: lng})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %s\n", w.ID)
			return nil
		},
	}
	recordCmd.Flags().StringVar(&input.Type, "type", string(domain.KindRunning), "workout type (running or cycling)")
	recordCmd.Flags().StringVar(&input.Distance, "distance", "", "distance in km")
	recordCmd.Flags().StringVar(&input.Duration, "duration", "", "duration in minutes")
	recordCmd.Flags().StringVar(&input.Metric, "metric", "", "cadence in steps/min for running, elevation gain in meters for cycling")
	recordCmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	recordCmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	_ = recordCmd.MarkFlagRequired("lat")
	_ = recordCmd.MarkFlagRequired("lng")

	// command for listing the log, newest first
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded workouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := present.ListItems(a.service.Workouts())
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no workouts yet")
				return nil
			}
			for _, item := range items {
				fmt.Fprintln(cmd.OutOrStdout(), present.FormatLine(item))
			}
			return nil
		},
	}

	// command for centring the map on a workout
	selectCmd := &cobra.Command{
		Use:   "select [id]",
		Short: "Show where a workout happened",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			workouts := a.service.Workouts()
			ids := make([]string, 0, len(workouts))
			for _, w := range workouts {
				ids = append(ids, w.ID)
			}
			return ids, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.service.SelectWorkout(cmd.Context(), args[0]); err != nil {
				return err
			}
			// The process exits after this command, so store the new click count now.
			return a.service.Persist(cmd.Context())
		},
	}

	// command for wiping the log
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded workout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.service.ClearAll(cmd.Context())
		},
	}

	// command for printing a metric field label
	fieldsCmd := &cobra.Command{
		Use:       "fields [type]",
		Short:     "Show the type-specific form field",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.KindRunning), string(domain.KindCycling)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseKind(args[0])
			if err != nil {
				return err
			}
			f := present.MetricField(kind)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) --metric\n", f.Label, f.Unit)
			return nil
		},
	}

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(fieldsCmd)

	return rootCmd
}
