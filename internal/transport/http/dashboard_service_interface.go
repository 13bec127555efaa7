package http

import (
	"context"
	"io"

	"launchdash/internal/charts"
	"launchdash/internal/exporter"
	"launchdash/internal/layout"
	"launchdash/pkg/contracts/domain"
)

// DashboardService is the part of services.DashboardService the handlers use
type DashboardService interface {
	Layout(ctx context.Context) layout.Layout
	Summary(ctx context.Context) domain.DatasetSummary
	PieChart(ctx context.Context, site string) domain.PieChart
	ScatterChart(ctx context.Context, site string, low, high *float64) domain.ScatterChart
	RenderPie(ctx context.Context, w io.Writer, site string, format charts.Format) error
	RenderScatter(ctx context.Context, w io.Writer, site string, low, high *float64, format charts.Format) error
	Callback(ctx context.Context, changed, site string, payload domain.PayloadRange) ([]domain.OutputUpdate, error)
	Export(ctx context.Context, w io.Writer, site string, low, high *float64, format exporter.Format) error
}
