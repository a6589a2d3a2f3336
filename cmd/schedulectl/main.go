// Command schedulectl previews patterns and day timelines offline, without a store.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"beautypage/models"
	"beautypage/services/schedule"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "schedulectl",
		Short:        "Working schedule tooling",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(timelineCmd())
	rootCmd.AddCommand(optionsCmd())
	return rootCmd
}

// dayFile is the input of the timeline command.
type dayFile struct {
	Start        models.TimeOfDay     `json:"start"`
	End          models.TimeOfDay     `json:"end"`
	Breaks       []models.TimeRange   `json:"breaks"`
	Appointments []models.Appointment `json:"appointments"`
}

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Expand a pattern file into the working days it would create",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			var req models.PatternRequest
			if err := readJSON(file, &req); err != nil {
				return err
			}
			pattern, err := schedule.DecodePattern(req)
			if err != nil {
				return err
			}
			if err := schedule.ValidatePattern(pattern); err != nil {
				return err
			}
			days, err := schedule.GeneratePattern(pattern)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"totalDays": len(days),
				"days":      days,
			})
		},
	}
	cmd.Flags().String("file", "", "Path to a pattern JSON file (- for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func timelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print the slots of a day file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			duration, _ := cmd.Flags().GetInt("duration")

			var day dayFile
			if err := readJSON(file, &day); err != nil {
				return err
			}
			slots, err := schedule.GenerateSlots(models.DaySchedule{
				Start:  day.Start,
				End:    day.End,
				Breaks: day.Breaks,
			}, day.Appointments, duration)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range slots {
				state := "available"
				if !s.Available {
					state = string(s.BlockedReason)
				}
				fmt.Fprintf(out, "%s-%s  %s\n", s.Start, s.End, state)
			}
			return nil
		},
	}
	cmd.Flags().String("file", "", "Path to a day JSON file (- for stdin)")
	cmd.Flags().Int("duration", 30, "Slot duration in minutes (5, 10, 15, 30 or 60)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func optionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List selectable times of day",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetInt("start")
			end, _ := cmd.Flags().GetInt("end")
			step, _ := cmd.Flags().GetInt("step")

			out := cmd.OutOrStdout()
			for _, t := range models.GenerateTimeOptions(start, end, step) {
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}
	cmd.Flags().Int("start", 8, "First hour")
	cmd.Flags().Int("end", 20, "Last hour (inclusive)")
	cmd.Flags().Int("step", 15, "Step in minutes")
	return cmd
}

func readJSON(path string, v interface{}) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
