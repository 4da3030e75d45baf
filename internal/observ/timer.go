package observ

import (
	"fmt"
	"time"
)

// Stage records the duration and metadata of one tool stage.
type Stage struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks how long the stages of a run take: manifest load, engine
// resolution, validation, snapshot write.
type Timer struct {
	stages []Stage
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{stages: make([]Stage, 0, 8)} }

// Start opens a stage and returns the closer that seals its duration.
// The note lands in summaries next to the time.
func (t *Timer) Start(name string) func(note string) {
	t.stages = append(t.stages, Stage{Name: name, Start: time.Now()})
	idx := len(t.stages) - 1
	return func(note string) {
		s := &t.stages[idx]
		s.Dur = time.Since(s.Start)
		s.Note = note
	}
}

// Summary returns a human-readable block summarizing all tracked stages.
func (t *Timer) Summary() string {
	return t.Report().Summary()
}

// StageReport представляет сжатую информацию об одной стадии для сериализации.
type StageReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Stages  []StageReport `json:"stages"`
}

// Summary отображает отчёт в человекочитаемый блок.
func (r Report) Summary() string {
	out := "timings:\n"
	for _, s := range r.Stages {
		out += fmt.Sprintf("  %-20s %7.2f ms", s.Name, s.DurationMS)
		if s.Note != "" {
			out += "  // " + s.Note
		}
		out += "\n"
	}
	out += fmt.Sprintf("  %-20s %7.2f ms\n", "total", r.TotalMS)
	return out
}

// Report формирует срез стадий и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	if len(t.stages) == 0 {
		return Report{}
	}
	report := Report{
		Stages: make([]StageReport, len(t.stages)),
	}
	var total time.Duration
	for i, stage := range t.stages {
		total += stage.Dur
		report.Stages[i] = StageReport{
			Name:       stage.Name,
			DurationMS: durationToMillis(stage.Dur),
			Note:       stage.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
