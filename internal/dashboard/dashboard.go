package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/torosent/sweepfire/internal/metrics"
	"github.com/torosent/sweepfire/internal/sweep"
)

// SweepConfig holds sweep parameters for display.
type SweepConfig struct {
	RunID        string
	Method       string
	TargetURL    string
	RequestCount int
	RepeatCount  int
	Rate         int           // Requests per second (0 = unlimited)
	Timeout      time.Duration // Request timeout (0 = none)
	ConfigFile   string
}

// Dashboard renders a live terminal UI for a running sweep.
type Dashboard struct {
	collector    *metrics.Collector
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownFunc func()
	wg           sync.WaitGroup
	mu           sync.Mutex

	grid        *ui.Grid
	summaryPara *widgets.Paragraph
	progress    *widgets.Gauge
	rpsChart    *widgets.BarChart
	cpuChart    *widgets.BarChart
	trialList   *widgets.List
	cfg         SweepConfig
}

// New creates a new Dashboard. shutdownFunc is called when the user presses q.
func New(collector *metrics.Collector, cfg SweepConfig, shutdownFunc func()) (*Dashboard, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize termui: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dashboard{
		collector:    collector,
		ctx:          ctx,
		cancel:       cancel,
		shutdownFunc: shutdownFunc,
		cfg:          cfg,
	}
	d.initWidgets()
	d.setupGrid()
	return d, nil
}

func (d *Dashboard) initWidgets() {
	d.summaryPara = widgets.NewParagraph()
	d.summaryPara.Title = "Sweep"
	d.summaryPara.Text = "Initializing..."
	d.summaryPara.BorderStyle.Fg = ui.ColorCyan

	d.progress = widgets.NewGauge()
	d.progress.Title = "Trials"
	d.progress.BarColor = ui.ColorYellow
	d.progress.BorderStyle.Fg = ui.ColorCyan
	d.progress.LabelStyle = ui.NewStyle(ui.ColorWhite)

	d.rpsChart = newLevelChart("Requests/sec by concurrency", ui.ColorGreen)
	d.cpuChart = newLevelChart("CPU % by concurrency", ui.ColorBlue)

	d.trialList = widgets.NewList()
	d.trialList.Title = "Recent trials"
	d.trialList.Rows = []string{"Awaiting data"}
	d.trialList.TextStyle = ui.NewStyle(ui.ColorCyan)
	d.trialList.BorderStyle.Fg = ui.ColorCyan
}

func newLevelChart(title string, color ui.Color) *widgets.BarChart {
	bc := widgets.NewBarChart()
	bc.Title = title
	bc.BarWidth = 5
	bc.BarGap = 1
	bc.BarColors = []ui.Color{color}
	bc.LabelStyles = []ui.Style{ui.NewStyle(ui.ColorWhite)}
	bc.NumStyles = []ui.Style{ui.NewStyle(ui.ColorBlack)}
	bc.NumFormatter = formatBarValue
	bc.BorderStyle.Fg = ui.ColorCyan
	return bc
}

func (d *Dashboard) setupGrid() {
	termWidth, termHeight := ui.TerminalDimensions()

	d.grid = ui.NewGrid()
	d.grid.SetRect(0, 0, termWidth, termHeight)
	d.grid.Set(
		ui.NewRow(0.16,
			ui.NewCol(0.6, d.summaryPara),
			ui.NewCol(0.4, d.progress),
		),
		ui.NewRow(0.32, ui.NewCol(1.0, d.rpsChart)),
		ui.NewRow(0.32, ui.NewCol(1.0, d.cpuChart)),
		ui.NewRow(0.20, ui.NewCol(1.0, d.trialList)),
	)
}

// Start begins the dashboard update loop.
func (d *Dashboard) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop stops the dashboard and restores the terminal.
func (d *Dashboard) Stop() {
	d.cancel()
	d.wg.Wait()
	ui.Close()
	// Give terminal time to restore
	time.Sleep(100 * time.Millisecond)
}

func (d *Dashboard) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	uiEvents := ui.PollEvents()
	d.update()
	d.render()

	for {
		select {
		case <-d.ctx.Done():
			return
		case e := <-uiEvents:
			switch e.ID {
			case "q", "<C-c>":
				if d.shutdownFunc != nil {
					d.shutdownFunc()
				}
				// Wait for Stop() to cancel the context.
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				d.mu.Lock()
				d.grid.SetRect(0, 0, payload.Width, payload.Height)
				d.mu.Unlock()
				ui.Clear()
				d.render()
			}
		case <-ticker.C:
			d.update()
			d.render()
		}
	}
}

func (d *Dashboard) update() {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := d.collector.Snapshot()

	d.summaryPara.Text = formatSummary(d.cfg, snap)
	d.progress.Percent = snap.Percent()
	d.progress.Label = fmt.Sprintf("%d/%d trials", snap.Completed, snap.TotalTrials)

	labels, rps, cpu := chartSeries(snap.Levels)
	if len(labels) > 0 {
		d.rpsChart.Labels, d.rpsChart.Data = labels, rps
		d.cpuChart.Labels, d.cpuChart.Data = labels, cpu
	}

	d.trialList.Rows = formatTrialRows(d.collector.History(), 8)
}

func (d *Dashboard) render() {
	d.mu.Lock()
	defer d.mu.Unlock()
	ui.Render(d.grid)
}

// chartSeries converts running averages into bar chart labels and values.
func chartSeries(levels []sweep.ReportEntry) ([]string, []float64, []float64) {
	labels := make([]string, len(levels))
	rps := make([]float64, len(levels))
	cpu := make([]float64, len(levels))
	for i, e := range levels {
		labels[i] = strconv.Itoa(e.Concurrency)
		rps[i] = e.RequestsPerSecond
		cpu[i] = e.CPUPercentage
	}
	return labels, rps, cpu
}

func formatBarValue(v float64) string {
	switch {
	case v >= 10000:
		return fmt.Sprintf("%.0fk", v/1000)
	case v >= 100:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

func formatSummary(cfg SweepConfig, snap metrics.Snapshot) string {
	lines := []string{fmt.Sprintf("Target: %s %s", cfg.Method, cfg.TargetURL)}
	if params := formatSweepParams(cfg); params != "" {
		lines = append(lines, params)
	}
	status := "idle"
	if snap.Running {
		status = fmt.Sprintf("repeat %d/%d at concurrency %d", snap.Repeat, cfg.RepeatCount, snap.Concurrency)
	}
	lines = append(lines, fmt.Sprintf("Elapsed: %s | Running: %s", snap.Elapsed.Round(time.Second), status))
	return strings.Join(lines, "\n")
}

func formatSweepParams(cfg SweepConfig) string {
	var parts []string
	if cfg.RequestCount > 0 {
		parts = append(parts, fmt.Sprintf("Requests: %d", cfg.RequestCount))
	}
	if cfg.RepeatCount > 0 {
		parts = append(parts, fmt.Sprintf("Repeats: %d", cfg.RepeatCount))
	}
	if cfg.Rate > 0 {
		parts = append(parts, fmt.Sprintf("Rate: %d/s", cfg.Rate))
	} else {
		parts = append(parts, "Rate: unlimited")
	}
	if cfg.Timeout > 0 {
		parts = append(parts, fmt.Sprintf("Timeout: %s", cfg.Timeout))
	}
	if cfg.ConfigFile != "" {
		parts = append(parts, fmt.Sprintf("Config: %s", cfg.ConfigFile))
	}
	if cfg.RunID != "" {
		parts = append(parts, fmt.Sprintf("Run: %s", cfg.RunID))
	}
	return strings.Join(parts, " | ")
}

// formatTrialRows lists the most recent trials first, at most limit rows.
func formatTrialRows(history []metrics.Point, limit int) []string {
	if len(history) == 0 {
		return []string{"[Awaiting data](fg:green)"}
	}
	rows := make([]string, 0, limit)
	for i := len(history) - 1; i >= 0 && len(rows) < limit; i-- {
		p := history[i]
		rows = append(rows, fmt.Sprintf("[#%d c=%d](fg:cyan) | %8.1f req/s | CPU %5.1f%% | %s",
			p.Repeat,
			p.Trial.Concurrency,
			p.Trial.RequestsPerSecond,
			p.Trial.CPUPercentage,
			p.Elapsed.Round(time.Millisecond),
		))
	}
	return rows
}
