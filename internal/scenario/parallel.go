package scenario

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"keel/internal/mono"
	"keel/internal/observ"
)

// Stage describes a high-level phase of one manifest run.
type Stage string

const (
	// StageLoad covers reading and decoding the manifest.
	StageLoad Stage = "load"
	// StageResolve covers driving the engine through the calls.
	StageResolve Stage = "resolve"
	// StageCheck covers the optional registry sweep.
	StageCheck Stage = "check"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the manifest is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is in flight.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished cleanly.
	StatusDone Status = "done"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Event reports progress for one manifest in a batch.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

// BatchOptions configures RunFiles.
type BatchOptions struct {
	// Jobs caps concurrent manifest runs. Values below 1 mean sequential.
	Jobs int
	// Check runs against each successfully resolved registry, typically
	// the testkit sweep. Nil skips the stage.
	Check func(*mono.Context) error
	// EnableTimings attaches a stage report to every result.
	EnableTimings bool
	// Progress receives stage transitions. May be nil.
	Progress ProgressSink
}

// FileResult is the outcome of one manifest in a batch.
type FileResult struct {
	Path   string
	Build  *Build
	Err    error
	Timing *observ.Report
}

// RunFiles loads and runs every manifest, up to Jobs at a time. Per-manifest
// failures land in the results; the error return is reserved for context
// cancellation. Result order follows the input order.
func RunFiles(ctx context.Context, paths []string, opts BatchOptions) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	for i, path := range paths {
		results[i] = FileResult{Path: path}
	}
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	emit := func(ev Event) {
		if opts.Progress != nil {
			opts.Progress.OnEvent(ev)
		}
	}
	for _, path := range paths {
		emit(Event{File: path, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = runOne(path, opts, emit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// runOne walks a single manifest through load, resolve and the optional
// check, reporting each transition.
func runOne(path string, opts BatchOptions, emit func(Event)) FileResult {
	res := FileResult{Path: path}
	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	stage := func(s Stage) func(error) {
		emit(Event{File: path, Stage: s, Status: StatusWorking})
		start := time.Now()
		var stop func(string)
		if timer != nil {
			stop = timer.Start(string(s))
		}
		return func(err error) {
			if stop != nil {
				note := ""
				if err != nil {
					note = "error"
				}
				stop(note)
			}
			status := StatusDone
			if err != nil {
				status = StatusError
			}
			emit(Event{File: path, Stage: s, Status: status, Err: err, Elapsed: time.Since(start)})
		}
	}

	done := stage(StageLoad)
	m, err := Load(path)
	done(err)
	if err != nil {
		res.Err = err
		return sealResult(res, timer)
	}

	done = stage(StageResolve)
	b, err := Run(m)
	done(err)
	if err != nil {
		res.Err = err
		return sealResult(res, timer)
	}
	res.Build = b

	if opts.Check != nil {
		done = stage(StageCheck)
		err = opts.Check(b.Ctx)
		done(err)
		if err != nil {
			res.Err = err
		}
	}
	return sealResult(res, timer)
}

func sealResult(res FileResult, timer *observ.Timer) FileResult {
	if timer != nil {
		report := timer.Report()
		res.Timing = &report
	}
	return res
}
