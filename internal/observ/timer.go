package observ

import "time"

// StageReport is the serializable record of one timed load stage.
type StageReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates the stage durations of one module load.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Stages  []StageReport `json:"stages"`
}

// Timer measures the stages of a module load. Stages do not overlap, so a
// stage is just the span between Begin and its stop function.
type Timer struct {
	stages []StageReport
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{} }

// Begin starts timing a stage. Calling the returned function records the
// stage with the elapsed time and an optional note; a stage whose stop
// function never runs (an abandoned load) is not reported.
func (t *Timer) Begin(name string) func(note string) {
	start := time.Now()
	return func(note string) {
		t.stages = append(t.stages, StageReport{
			Name:       name,
			DurationMS: durationToMillis(time.Since(start)),
			Note:       note,
		})
	}
}

// Report returns the recorded stages and their total duration.
func (t *Timer) Report() Report {
	if len(t.stages) == 0 {
		return Report{}
	}
	report := Report{Stages: make([]StageReport, len(t.stages))}
	copy(report.Stages, t.stages)
	for _, s := range t.stages {
		report.TotalMS += s.DurationMS
	}
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
