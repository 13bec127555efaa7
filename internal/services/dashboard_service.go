package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"launchdash/internal/binding"
	"launchdash/internal/charts"
	"launchdash/internal/config"
	"launchdash/internal/dataset"
	"launchdash/internal/exporter"
	"launchdash/internal/filter"
	"launchdash/internal/layout"
	"launchdash/pkg/contracts/domain"
)

// DashboardService answers chart, layout, callback and export requests
// against one loaded dataset.
type DashboardService struct {
	ds         *dataset.Dataset
	dispatcher *binding.Dispatcher
	renderer   *charts.Renderer
	exporter   *exporter.LaunchExporter
	layout     layout.Layout
	logger     *slog.Logger
}

// NewDashboardService builds the service. The layout is computed once since
// the dataset never changes after load.
func NewDashboardService(dispatcher *binding.Dispatcher, cfg config.DashboardConfig, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	ds := dispatcher.Dataset()
	logger = logger.With(slog.String("component", "dashboard_service"))

	logger.Info("DashboardService initialized",
		slog.String("source", ds.Source()),
		slog.Int("rows", ds.Len()),
		slog.Int("sites", len(ds.DistinctSites())))

	return &DashboardService{
		ds:         ds,
		dispatcher: dispatcher,
		renderer:   charts.NewRenderer(cfg.ChartWidth, cfg.ChartHeight),
		exporter:   exporter.NewLaunchExporter(logger),
		layout:     layout.Build(ds, cfg),
		logger:     logger,
	}
}

// Dataset returns the loaded dataset
func (s *DashboardService) Dataset() *dataset.Dataset { return s.ds }

// Layout returns the control definitions and defaults
func (s *DashboardService) Layout(ctx context.Context) layout.Layout {
	return s.layout
}

// Summary describes the loaded dataset
func (s *DashboardService) Summary(ctx context.Context) domain.DatasetSummary {
	return s.ds.Summary()
}

// resolveRange fills missing bounds from the observed payload range
func (s *DashboardService) resolveRange(low, high *float64) domain.PayloadRange {
	r := filter.FullRange(s.ds)
	if low != nil {
		r.Low = *low
	}
	if high != nil {
		r.High = *high
	}
	return r
}

// normalizeSite maps an empty site to every site
func normalizeSite(site string) string {
	return domain.Selection{Site: site}.NormalizedSite()
}

// PieChart aggregates successes for site
func (s *DashboardService) PieChart(ctx context.Context, site string) domain.PieChart {
	return filter.Pie(s.ds, normalizeSite(site))
}

// ScatterChart filters site and payload bounds; nil bounds default to the
// observed range
func (s *DashboardService) ScatterChart(ctx context.Context, site string, low, high *float64) domain.ScatterChart {
	return filter.Scatter(s.ds, normalizeSite(site), s.resolveRange(low, high))
}

// RenderPie writes the pie chart for site as an image
func (s *DashboardService) RenderPie(ctx context.Context, w io.Writer, site string, format charts.Format) error {
	if err := s.renderer.Pie(w, s.PieChart(ctx, site), format); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// RenderScatter writes the scatter chart as an image
func (s *DashboardService) RenderScatter(ctx context.Context, w io.Writer, site string, low, high *float64, format charts.Format) error {
	if err := s.renderer.Scatter(w, s.ScatterChart(ctx, site, low, high), format); err != nil {
		return fmt.Errorf("render scatter chart: %w", err)
	}
	return nil
}

// Callback recomputes the outputs bound to changed for an explicit control
// state. It keeps no state between calls.
func (s *DashboardService) Callback(ctx context.Context, changed, site string, payload domain.PayloadRange) ([]domain.OutputUpdate, error) {
	sel := domain.Selection{Site: site, Payload: payload}
	updates, err := s.dispatcher.Evaluate(ctx, sel, changed)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", changed, err)
	}
	return updates, nil
}

// View returns the rows the scatter chart shows for the given filter
func (s *DashboardService) View(ctx context.Context, site string, low, high *float64) *dataset.Dataset {
	return filter.View(s.ds, normalizeSite(site), s.resolveRange(low, high))
}

// Export writes the filtered scatter view in format
func (s *DashboardService) Export(ctx context.Context, w io.Writer, site string, low, high *float64, format exporter.Format) error {
	view := s.View(ctx, site, low, high)
	s.logger.DebugContext(ctx, "Exporting scatter view",
		slog.String("site", normalizeSite(site)),
		slog.Int("rows", view.Len()),
		slog.String("format", string(format)))

	if err := s.exporter.Export(w, view, format); err != nil {
		return fmt.Errorf("export scatter view: %w", err)
	}
	return nil
}
