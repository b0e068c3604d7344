package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go.ngs.io/fstd2nc/internal/usecase"
)

func newInspectCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "List the variables assembled from a record file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.assembler().Execute(cmd.Context(), usecase.AssembleRequest{
				Path:      args[0],
				Workers:   a.cfg.Workers,
				AddLatLon: a.cfg.ProjectLatLon,
			})
			if err != nil {
				return err
			}
			summary := usecase.Summarize(filepath.Base(args[0]), res)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPVAR\tETIKET\tGRID\tDIMS")
			for _, v := range summary.Variables {
				dims := make([]string, len(v.Dims))
				for i, d := range v.Dims {
					dims[i] = fmt.Sprintf("%s=%d", d.Name, d.Size)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.Name, v.Typvar, v.Etiket, v.Grid, strings.Join(dims, " "))
			}
			for _, f := range summary.Fields {
				fmt.Fprintf(tw, "%s\t\t\t\tderived\n", f)
			}
			for _, d := range summary.Dropped {
				fmt.Fprintf(tw, "%s\t\t\t\tdropped: %s\n", d.Name, d.Error)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().Bool("project-latlon", false, "add latitude/longitude fields for polar stereographic grids")
	return cmd
}
