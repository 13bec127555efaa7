package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"launchdash/internal/exporter"
	"launchdash/internal/filter"
	"launchdash/pkg/contracts/domain"
)

type exportOptions struct {
	root   *rootOptions
	site   string
	low    float64
	high   float64
	format string
	out    string
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{root: root}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered scatter view to CSV or XLSX",
		Long: `Writes the rows the scatter chart would show for --site and the payload
range [--low, --high]. Missing bounds default to the observed payload range.
With --out the format follows the file extension; otherwise the view is
written to stdout in --format.`,
		Args: cobra.NoArgs,
		RunE: opts.run,
	}

	f := cmd.Flags()
	f.StringVar(&opts.site, "site", domain.SiteAll, "launch site or ALL")
	f.Float64Var(&opts.low, "low", 0, "lower payload bound in kg (inclusive)")
	f.Float64Var(&opts.high, "high", 0, "upper payload bound in kg (inclusive)")
	f.StringVar(&opts.format, "format", string(exporter.FormatCSV), "output format for stdout: csv or xlsx")
	f.StringVarP(&opts.out, "out", "o", "", "output file (.csv or .xlsx)")
	return cmd
}

func (o *exportOptions) run(cmd *cobra.Command, _ []string) error {
	ds, logger, err := o.root.loadDataset(cmd)
	if err != nil {
		return err
	}

	payload := filter.FullRange(ds)
	if cmd.Flags().Changed("low") {
		payload.Low = o.low
	}
	if cmd.Flags().Changed("high") {
		payload.High = o.high
	}

	view := filter.View(ds, o.site, payload)
	exp := exporter.NewLaunchExporter(logger)

	if o.out != "" {
		if err := exp.ExportFile(o.out, view); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", view.Len(), o.out)
		return nil
	}

	format, err := exporter.ParseFormat(o.format)
	if err != nil {
		return err
	}
	return exp.Export(cmd.OutOrStdout(), view, format)
}
