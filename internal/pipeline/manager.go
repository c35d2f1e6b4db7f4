package pipeline

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/framecloak/framecloak/internal/events"
	"github.com/framecloak/framecloak/internal/logging"
	"github.com/framecloak/framecloak/internal/metrics"
	"github.com/framecloak/framecloak/internal/video"
)

// RunStatus is a point-in-time snapshot of one run.
type RunStatus struct {
	RunID      string     `json:"run_id" example:"run-000001" doc:"Run identifier"`
	Source     string     `json:"source" example:"/videos/input.mp4" doc:"Source video path"`
	Sink       string     `json:"sink" example:"/videos/output.mkv" doc:"Output video path"`
	Mode       Mode       `json:"mode" example:"encrypt" doc:"Requested mode"`
	Seed       int64      `json:"seed" example:"42" doc:"Mask seed"`
	State      State      `json:"state" example:"running" doc:"Lifecycle state"`
	Progress   int        `json:"progress" example:"42" doc:"Completion percentage, 0 when total is unknown"`
	Frames     int        `json:"frames" example:"378" doc:"Frames written so far"`
	Message    string     `json:"message,omitempty" doc:"Terminal outcome message, empty while running"`
	IsError    bool       `json:"is_error" doc:"Whether the terminal outcome is an error"`
	StartedAt  time.Time  `json:"started_at" doc:"Run start time"`
	FinishedAt *time.Time `json:"finished_at,omitempty" doc:"Run finish time, absent while running"`
}

// Run is a managed pipeline execution with identity and timing.
type Run struct {
	ID       string
	cfg      RunConfig
	pipeline *Pipeline

	startedAt time.Time
	done      chan struct{}

	mu         sync.Mutex
	finishedAt *time.Time
}

// Wait blocks until the run reaches a terminal state.
func (r *Run) Wait() Outcome {
	<-r.done
	return *r.pipeline.Outcome()
}

// Done returns a channel closed when the run reaches a terminal state.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Cancel requests a cooperative stop of this run.
func (r *Run) Cancel() {
	r.pipeline.Cancel()
}

// Status returns a snapshot of the run.
func (r *Run) Status() RunStatus {
	r.mu.Lock()
	finishedAt := r.finishedAt
	r.mu.Unlock()

	status := RunStatus{
		RunID:      r.ID,
		Source:     r.cfg.SourcePath,
		Sink:       r.cfg.SinkPath,
		Mode:       r.cfg.Mode,
		Seed:       r.cfg.Seed,
		State:      r.pipeline.State(),
		Progress:   r.pipeline.Progress(),
		Frames:     r.pipeline.Frames(),
		StartedAt:  r.startedAt,
		FinishedAt: finishedAt,
	}
	if out := r.pipeline.Outcome(); out != nil {
		status.Message = out.Message
		status.IsError = out.IsError
	}
	return status
}

// ManagerOptions configures a Manager. Zero-value fields get defaults;
// a nil Bus or Metrics disables that integration.
type ManagerOptions struct {
	Bus        *events.Bus
	Metrics    *metrics.Metrics
	OpenSource video.SourceOpener
	OpenSink   video.SinkOpener
	Logger     *slog.Logger
}

// Manager owns the run registry. Each Start spawns a dedicated worker
// goroutine that drives one Pipeline to its terminal state; finished
// runs stay in the registry so their status remains queryable.
type Manager struct {
	bus        *events.Bus
	metrics    *metrics.Metrics
	openSource video.SourceOpener
	openSink   video.SinkOpener
	logger     *slog.Logger

	seq atomic.Uint64

	mu   sync.RWMutex
	runs map[string]*Run
}

// NewManager creates a run manager.
func NewManager(opts ManagerOptions) *Manager {
	m := &Manager{
		bus:        opts.Bus,
		metrics:    opts.Metrics,
		openSource: opts.OpenSource,
		openSink:   opts.OpenSink,
		logger:     opts.Logger,
		runs:       make(map[string]*Run),
	}
	if m.openSource == nil {
		m.openSource = video.OpenSource
	}
	if m.openSink == nil {
		m.openSink = video.OpenSink
	}
	if m.logger == nil {
		m.logger = logging.GetLogger("pipeline")
	}
	return m
}

// Start validates the config, registers a new run, and launches its
// worker goroutine. The returned Run is already in the registry.
func (m *Manager) Start(cfg RunConfig) (*Run, error) {
	if cfg.SourcePath == "" {
		return nil, NewRunError(ErrCodeInvalidParams, "source path is required", nil)
	}
	if cfg.SinkPath == "" {
		return nil, NewRunError(ErrCodeInvalidParams, "sink path is required", nil)
	}
	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	cfg.Mode = mode

	id := fmt.Sprintf("run-%06d", m.seq.Add(1))

	userProgress := cfg.OnProgress
	cfg.OnProgress = func(percent int) {
		if m.bus != nil {
			m.bus.Publish(events.RunProgressEvent{RunID: id, Percent: percent})
		}
		if userProgress != nil {
			userProgress(percent)
		}
	}

	observer := func(frameBytes int) {
		if m.metrics != nil {
			m.metrics.FrameWritten(frameBytes)
		}
	}

	run := &Run{
		ID:        id,
		cfg:       cfg,
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
	run.pipeline = New(cfg,
		WithOpeners(m.openSource, m.openSink),
		WithObserver(observer),
		WithLogger(m.logger.With("run_id", id)))

	m.mu.Lock()
	m.runs[id] = run
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RunStarted()
	}
	if m.bus != nil {
		m.bus.Publish(events.RunStartedEvent{
			RunID:     id,
			Source:    cfg.SourcePath,
			Sink:      cfg.SinkPath,
			Mode:      string(cfg.Mode),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}

	go m.drive(run)
	return run, nil
}

// drive runs the pipeline to its terminal state and publishes the
// matching event after the outcome callbacks have fired.
func (m *Manager) drive(run *Run) {
	out := run.pipeline.Run()

	now := time.Now()
	run.mu.Lock()
	run.finishedAt = &now
	run.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RunFinished(string(out.State))
	}
	if m.bus != nil {
		ts := now.UTC().Format(time.RFC3339)
		switch out.State {
		case StateCompleted:
			m.bus.Publish(events.RunCompletedEvent{
				RunID:     run.ID,
				Message:   out.Message,
				Frames:    run.pipeline.Frames(),
				Timestamp: ts,
			})
		case StateCanceled:
			m.bus.Publish(events.RunCanceledEvent{
				RunID:     run.ID,
				Message:   out.Message,
				Frames:    run.pipeline.Frames(),
				Timestamp: ts,
			})
		default:
			m.bus.Publish(events.RunFailedEvent{
				RunID:     run.ID,
				Message:   out.Message,
				Timestamp: ts,
			})
		}
	}

	close(run.done)
}

// StartRun starts a run and returns its initial snapshot. This is the
// surface the HTTP API consumes; callers that need the Run handle use
// Start directly.
func (m *Manager) StartRun(cfg RunConfig) (RunStatus, error) {
	run, err := m.Start(cfg)
	if err != nil {
		return RunStatus{}, err
	}
	return run.Status(), nil
}

// Get returns the run with the given ID.
func (m *Manager) Get(id string) (*Run, error) {
	m.mu.RLock()
	run, ok := m.runs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, NewRunError(ErrCodeRunNotFound, "no run with id "+id, nil)
	}
	return run, nil
}

// Status returns a snapshot of the run with the given ID.
func (m *Manager) Status(id string) (RunStatus, error) {
	run, err := m.Get(id)
	if err != nil {
		return RunStatus{}, err
	}
	return run.Status(), nil
}

// List returns snapshots of all known runs, ordered by ID.
func (m *Manager) List() []RunStatus {
	m.mu.RLock()
	runs := make([]*Run, 0, len(m.runs))
	for _, run := range m.runs {
		runs = append(runs, run)
	}
	m.mu.RUnlock()

	sort.Slice(runs, func(i, j int) bool { return runs[i].ID < runs[j].ID })

	statuses := make([]RunStatus, len(runs))
	for i, run := range runs {
		statuses[i] = run.Status()
	}
	return statuses
}

// Cancel requests a cooperative stop of the run with the given ID.
// Canceling an already-terminal run is a no-op, not an error.
func (m *Manager) Cancel(id string) error {
	run, err := m.Get(id)
	if err != nil {
		return err
	}
	run.Cancel()
	return nil
}

// IsRunning reports whether the run exists and has not terminated.
func (m *Manager) IsRunning(id string) bool {
	run, err := m.Get(id)
	if err != nil {
		return false
	}
	return !run.pipeline.State().Terminal()
}

// CancelAll requests cancellation of every in-flight run and waits for
// them to terminate. Used on shutdown.
func (m *Manager) CancelAll() {
	m.mu.RLock()
	runs := make([]*Run, 0, len(m.runs))
	for _, run := range m.runs {
		runs = append(runs, run)
	}
	m.mu.RUnlock()

	for _, run := range runs {
		if !run.pipeline.State().Terminal() {
			run.Cancel()
		}
	}
	// Every registered run has a worker goroutine, so done always closes.
	for _, run := range runs {
		<-run.done
	}
}
