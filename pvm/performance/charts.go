package performance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartConfig holds configuration for chart generation
type ChartConfig struct {
	OutputDir string
	Width     string
	Height    string
}

// DefaultChartConfig returns default chart configuration
func DefaultChartConfig() *ChartConfig {
	return &ChartConfig{
		OutputDir: "results",
		Width:     "1200px",
		Height:    "600px",
	}
}

// WriteReport writes backend_performance.json and backend_runtime.html to
// config.OutputDir and returns their paths.
func WriteReport(report *BackendBenchReport, config *ChartConfig) (string, string, error) {
	if config == nil {
		config = DefaultChartConfig()
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory: %w", err)
	}

	jsonPath := filepath.Join(config.OutputDir, "backend_performance.json")
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", "", err
	}
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return "", "", err
	}

	htmlPath := filepath.Join(config.OutputDir, "backend_runtime.html")
	if err := GenerateBackendRuntimeChart(report, config, htmlPath); err != nil {
		return "", "", fmt.Errorf("failed to generate runtime chart: %w", err)
	}
	return jsonPath, htmlPath, nil
}

// GenerateBackendRuntimeChart draws average, min and max run time per backend.
func GenerateBackendRuntimeChart(report *BackendBenchReport, config *ChartConfig, filename string) error {
	if config == nil {
		config = DefaultChartConfig()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: config.Width, Height: config.Height}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Backend Runtime: Interpreter vs Compiler",
			Subtitle: fmt.Sprintf("%s, %d runs, %d steps", report.Program[:10], report.Runs, stepsOf(report)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ms"}),
	)

	labels := make([]string, len(report.Results))
	avg := make([]opts.BarData, len(report.Results))
	lo := make([]opts.BarData, len(report.Results))
	hi := make([]opts.BarData, len(report.Results))
	for i, r := range report.Results {
		labels[i] = r.Backend
		avg[i] = opts.BarData{Value: millis(r.AvgNs)}
		lo[i] = opts.BarData{Value: millis(r.MinNs)}
		hi[i] = opts.BarData{Value: millis(r.MaxNs)}
	}
	bar.SetXAxis(labels).
		AddSeries("avg", avg).
		AddSeries("min", lo).
		AddSeries("max", hi)

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := bar.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func millis(ns int64) float64 {
	return float64(ns) / float64(time.Millisecond)
}

func stepsOf(report *BackendBenchReport) uint64 {
	if len(report.Results) == 0 {
		return 0
	}
	return report.Results[0].Steps
}
