package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/poseninja/ecs"
)

// StatsWindow shows frame times, storage totals and per-system timings.
type StatsWindow struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler

	history []float32
	index   int
	last    time.Time
}

func NewStatsWindow(storage *ecs.Storage, scheduler *ecs.Scheduler, historyFrames int) *StatsWindow {
	return &StatsWindow{
		storage:   storage,
		scheduler: scheduler,
		history:   make([]float32, max(historyFrames, 1)),
	}
}

// Sample records the time since the previous call in the frame history.
func (w *StatsWindow) Sample(now time.Time) {
	if !w.last.IsZero() {
		w.history[w.index] = float32(now.Sub(w.last).Seconds() * 1000)
		w.index = (w.index + 1) % len(w.history)
	}
	w.last = now
}

// AverageFrame returns the mean of the recorded frame times in ms.
func (w *StatsWindow) AverageFrame() float32 {
	var sum float32
	for _, ms := range w.history {
		sum += ms
	}
	return sum / float32(len(w.history))
}

func (w *StatsWindow) Render() {
	w.Sample(time.Now())

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 360), imgui.CondOnce)
	if !imgui.BeginV("Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := w.storage.CollectStats()
	avg := w.AverageFrame()
	fps := float32(0)
	if avg > 0 {
		fps = 1000 / avg
	}

	imgui.Text(fmt.Sprintf("Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))
	imgui.Text(fmt.Sprintf("Frame: %.2f ms (%.0f FPS)", avg, fps))
	imgui.PlotLinesFloatPtr("##frametime", &w.history[0], int32(len(w.history)))

	if w.scheduler != nil && imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range w.scheduler.GetStats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(sys.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singletons") {
		for _, name := range stats.SingletonTypes {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}

	imgui.End()
}
