package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go.ngs.io/fstd2nc/internal/synth"
)

func newSynthCmd(a *app) *cobra.Command {
	opts := synth.DefaultOptions()
	var start string
	cmd := &cobra.Command{
		Use:   "synth <output>",
		Short: "Write a demonstration record file",
		Long: "Synth writes a small record file with variables on a global lat/lon grid,\n" +
			"on a polar stereographic mesh with its >> and ^^ records, and on hybrid\n" +
			"levels with their HY record.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return err
			}
			opts.Start = t.UTC()
			sum, err := synth.Write(args[0], opts)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{
				"path":      args[0],
				"records":   sum.Records,
				"variables": sum.Variables,
			}).Info("Wrote demo file")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&start, "start", opts.Start.Format(time.RFC3339), "first valid time (RFC3339)")
	f.IntVar(&opts.Steps, "steps", opts.Steps, "number of hourly time steps")
	f.IntVar(&opts.NI, "ni", opts.NI, "longitudes of the global grid")
	f.IntVar(&opts.NJ, "nj", opts.NJ, "latitudes of the global grid")
	f.StringVar(&opts.Etiket, "etiket", opts.Etiket, "label written to every record")
	return cmd
}
