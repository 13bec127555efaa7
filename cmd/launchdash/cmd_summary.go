package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"launchdash/internal/exporter"
	"launchdash/internal/filter"
	"launchdash/pkg/contracts/domain"
)

type summaryOptions struct {
	root   *rootOptions
	site   string
	format string
}

func newSummaryCmd(root *rootOptions) *cobra.Command {
	opts := &summaryOptions{root: root}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the success pie aggregation for a site",
		Long: `Prints the slices of the success pie chart. With --site=ALL (default)
there is one slice per site counting successful launches; with a single
site the slices are the failure and success counts of that site.`,
		Args: cobra.NoArgs,
		RunE: opts.run,
	}
	cmd.Flags().StringVar(&opts.site, "site", domain.SiteAll, "launch site or ALL")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table, csv or json")
	return cmd
}

func (o *summaryOptions) run(cmd *cobra.Command, _ []string) error {
	ds, logger, err := o.root.loadDataset(cmd)
	if err != nil {
		return err
	}

	site := o.site
	if site == "" {
		site = domain.SiteAll
	}
	if site != domain.SiteAll && !ds.HasSite(site) {
		return fmt.Errorf("unknown launch site %q (known: %v)", site, ds.DistinctSites())
	}
	pie := filter.Pie(ds, site)

	out := cmd.OutOrStdout()
	switch o.format {
	case "table":
		return writePieTable(out, pie)
	case "csv":
		return exporter.NewCSVWriter(logger).WriteCSV(out, exporter.WriteOptions{
			Headers: []string{"label", "count", "share"},
			Records: pieRecords(pie),
		})
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(pie)
	default:
		return fmt.Errorf("unsupported summary format %q", o.format)
	}
}

func share(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

func pieRecords(pie domain.PieChart) [][]string {
	records := make([][]string, 0, len(pie.Slices))
	for _, s := range pie.Slices {
		records = append(records, []string{
			s.Label,
			strconv.Itoa(s.Count),
			strconv.FormatFloat(share(s.Count, pie.Total), 'f', 4, 64),
		})
	}
	return records
}

func writePieTable(w io.Writer, pie domain.PieChart) error {
	fmt.Fprintln(w, pie.Title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tCOUNT\tSHARE")
	for _, s := range pie.Slices {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", s.Label, s.Count, 100*share(s.Count, pie.Total))
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t\n", pie.Total)
	return tw.Flush()
}
