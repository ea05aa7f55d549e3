package game

import (
	"context"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/orchard/camera"
	"github.com/pthm-cable/orchard/inspector"
	"github.com/pthm-cable/orchard/renderer"
	"github.com/pthm-cable/orchard/telemetry"
	"github.com/pthm-cable/orchard/ui"
)

// chartYears is how many recent years the stacked charts show.
const chartYears = 200

// Viewer renders a world in a raylib window and steps it in real time.
type Viewer struct {
	world  *World
	logger *slog.Logger

	screenWidth  float32
	screenHeight float32
	targetFPS    int32

	camera       *camera.Camera
	gridRenderer *renderer.GridRenderer
	gridDirty    bool
	applesShown  bool

	hud       *ui.HUD
	controls  *ui.ControlsPanel
	charts    *ui.ChartPanel
	perfPanel *ui.PerfPanel
	overlays  *ui.OverlayRegistry
	inspector *inspector.Inspector

	state    ui.ControlsState
	pacer    pacer
	timings  *renderTimings
	showPerf bool
	finished bool

	// Derived once per year
	deathProbs []telemetry.AgeProbability
	geneBars   []ui.GeneBar
}

// NewViewer prepares a viewer for w. The window opens in Run.
func NewViewer(w *World) *Viewer {
	sc := w.Config().Screen
	size := float32(w.Config().World.GridSize)
	v := &Viewer{
		world:        w,
		logger:       w.logger,
		screenWidth:  float32(sc.Width),
		screenHeight: float32(sc.Height),
		targetFPS:    int32(sc.TargetFPS),
		camera:       camera.New(float32(sc.Width), float32(sc.Height), size, size),
		gridRenderer: renderer.NewGridRenderer(w.Config().World.GridSize),
		gridDirty:    true,
		hud:          ui.NewHUD(),
		controls:     ui.NewControlsPanel(10, 140, 230),
		charts:       ui.NewChartPanel(),
		perfPanel:    ui.NewPerfPanel(10, 0),
		overlays:     ui.NewOverlayRegistry(),
		inspector:    inspector.NewInspector(int32(sc.Width), int32(sc.Height)),
		timings:      newRenderTimings(),
		state:        ui.ControlsState{YearsPerSecond: float32(sc.YearsPerSecond)},
	}
	v.finished = w.Done()
	v.state.Paused = v.finished
	v.refreshDerived()
	return v
}

// Run opens the window and loops until it is closed or ctx is cancelled.
// The world is finished on exit whether or not all years were stepped.
func (v *Viewer) Run(ctx context.Context) (Summary, error) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(v.screenWidth), int32(v.screenHeight), "Orchard")
	defer rl.CloseWindow()
	rl.SetExitKey(0)
	rl.SetTargetFPS(v.targetFPS)

	v.gridRenderer.Init()
	defer v.gridRenderer.Unload()

	v.logger.Info("viewer started", "width", v.screenWidth, "height", v.screenHeight)
	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			break
		}
		v.Update()
		v.Draw()
	}
	return v.world.Finish(context.WithoutCancel(ctx))
}

// Update handles input and steps the years due this frame.
func (v *Viewer) Update() {
	v.handleInput()

	years := 0
	if !v.state.Paused {
		years = v.pacer.due(float64(rl.GetFrameTime()), float64(v.state.YearsPerSecond))
	}
	if v.state.StepRequested {
		years++
	}
	if v.advance(years) > 0 {
		v.refreshDerived()
	}
	v.world.RecordFrame()
}

// advance steps up to n years, stopping once the run is done, and returns
// the number stepped.
func (v *Viewer) advance(n int) int {
	stepped := 0
	for stepped < n && !v.finished {
		if v.world.Done() {
			v.finish()
			break
		}
		v.world.Advance()
		v.gridDirty = true
		stepped++
		if v.world.Done() {
			v.finish()
		}
	}
	return stepped
}

func (v *Viewer) finish() {
	v.finished = true
	v.state.Paused = true
	v.pacer.reset()
	if _, err := v.world.Finish(context.Background()); err != nil {
		v.logger.Error("finishing run", "error", err)
	}
}

// refreshDerived rebuilds the chart inputs that summarise the whole run.
func (v *Viewer) refreshDerived() {
	initial, initialTotal := v.world.InitialGeneDistribution()
	reports := telemetry.CompareGenes(initial, initialTotal, v.world.GeneDistribution(), v.world.PopulationSize())
	v.geneBars = ui.GeneBars(reports)
	v.deathProbs = telemetry.DeathProbability(telemetry.ExtractDeathAges(v.world.Stats()))
}
