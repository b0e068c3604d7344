package main

import (
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go.ngs.io/fstd2nc/internal/adapter/ncout"
	"go.ngs.io/fstd2nc/internal/usecase"
)

func newConvertCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "convert <input> [output.nc]",
		Short: "Convert a record file to NetCDF-4",
		Long: "Convert assembles the records of <input> into variables and writes them to\n" +
			"a NetCDF-4 file. Without an explicit output the file is written to the\n" +
			"output directory under the input name with a .nc extension.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputPath(a.cfg.OutputDir, args)
			uc := usecase.NewConvertUseCase(a.assembler(), ncout.NewWriter(a.log), a.log)
			res, err := uc.Execute(cmd.Context(), usecase.ConvertRequest{
				Input:     args[0],
				Output:    out,
				Workers:   a.cfg.Workers,
				AddLatLon: a.cfg.ProjectLatLon,
				Force:     force,
			})
			if err != nil {
				return err
			}
			for _, d := range res.Dataset.Dropped {
				a.log.WithFields(logrus.Fields{"variable": d.Name, "error": d.Err}).Warn("Variable not converted")
			}
			cmd.Printf("Wrote %d variables to %s\n", len(res.Dataset.Variables), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing output file")
	cmd.Flags().Bool("project-latlon", false, "add latitude/longitude fields for polar stereographic grids")
	cmd.Flags().String("output-dir", ".", "directory for outputs named after their input")
	return cmd
}

func outputPath(dir string, args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	base := filepath.Base(args[0])
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".nc")
}
