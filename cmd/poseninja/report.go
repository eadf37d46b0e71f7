package main

import (
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/poseninja/ecs"
)

// Report is the result of a bench run.
type Report struct {
	Mode      string
	Simulated time.Duration
	Seed      uint64
	TPS       int

	Ticks      int
	WallTime   time.Duration
	TickTime   Stats
	Games      int
	Score      int
	HighScores []int

	Systems       []ecs.SystemStats
	Storage       *ecs.StorageStats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

// Finalize fills Min, Max, Avg and P99 from Samples.
func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]
	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)
	s.P99 = sorted[(len(sorted)-1)*99/100]
}

// Speedup is simulated time over wall time.
func (r *Report) Speedup() float64 {
	if r.WallTime <= 0 || r.TPS <= 0 {
		return 0
	}
	simulated := time.Duration(r.Ticks) * time.Second / time.Duration(r.TPS)
	return float64(simulated) / float64(r.WallTime)
}

const reportTemplate = `
# poseninja bench

## Run
- Mode: {{.Mode}}
- Simulated: {{.Simulated}} at {{.TPS}} TPS (seed {{.Seed}})
- Ticks: {{.Ticks}}
- Wall time: {{.WallTime}} ({{printf "%.1f" .Speedup}}x real time)

## Tick time
- Avg: {{.TickTime.Avg}}
- Min: {{.TickTime.Min}}
- Max: {{.TickTime.Max}}
- P99: {{.TickTime.P99}}

## Systems
{{range .Systems}}- {{printf "%-16s" .Name}} avg {{.AvgDuration}}  max {{.MaxDuration}}
{{end}}
## Game
- Games finished: {{.Games}}
- Score of the current game: {{.Score}}
- High scores: {{if .HighScores}}{{range $i, $s := .HighScores}}{{if $i}}, {{end}}{{$s}}{{end}}{{else}}none{{end}}
{{with .Storage}}
## Storage at exit
- Entities: {{.TotalEntityCount}} in {{.ArchetypeCount}} archetypes
- Singletons: {{.SingletonCount}}
{{end}}
## Memory
- Heap alloc: {{.MemStatsStart.HeapAlloc}} -> {{.MemStatsEnd.HeapAlloc}} (delta {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}})
- Total alloc delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- GC cycles: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}, pause {{ns .MemStatsEnd.PauseTotalNs}}
`

var reportFuncs = template.FuncMap{
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
	"ns": func(ns uint64) string {
		return time.Duration(ns).String()
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate))

func (r *Report) Generate(w io.Writer) error {
	return reportTmpl.Execute(w, r)
}
