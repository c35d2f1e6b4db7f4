// Package pipeline implements the frame-processing core: read frames in
// order from a source, XOR each with a deterministic seed-driven mask,
// write them to a sink, and report progress with cooperative cancellation.
//
// Because the transform is XOR, running the output through a second run
// with the same seed restores the original video exactly. The encrypt and
// decrypt modes therefore execute identical code; the distinction is kept
// only because callers think in those terms.
package pipeline

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/framecloak/framecloak/internal/logging"
	"github.com/framecloak/framecloak/internal/mask"
	"github.com/framecloak/framecloak/internal/video"
)

// State represents the lifecycle state of a pipeline.
// Completed, Failed, and Canceled are terminal; there are no
// transitions out of them.
type State string

// Pipeline states.
const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCanceled  State = "canceled"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCanceled
}

// Mode labels a run as encryption or decryption. The label is cosmetic:
// XOR is self-inverse, so both modes apply the identical transform.
type Mode string

// Run modes.
const (
	ModeEncrypt Mode = "encrypt"
	ModeDecrypt Mode = "decrypt"
)

// ParseMode validates a mode string. Empty input defaults to encrypt.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeEncrypt, nil
	case ModeEncrypt:
		return ModeEncrypt, nil
	case ModeDecrypt:
		return ModeDecrypt, nil
	default:
		return "", NewRunError(ErrCodeInvalidParams, fmt.Sprintf("unknown mode %q", s), nil)
	}
}

// RunConfig describes one run. It is consumed by a single Pipeline and
// not mutated afterwards.
type RunConfig struct {
	SourcePath string
	SinkPath   string
	Seed       int64
	Mode       Mode

	// OnProgress receives percentages in [0,100], non-decreasing, at
	// most once per frame, from the worker goroutine. Nil to disable.
	// Omitted entirely when the source reports no frame count.
	OnProgress func(percent int)

	// OnOutcome receives the terminal result exactly once, after both
	// source and sink have been released and strictly after the last
	// progress call. Cancellation surfaces here with isError=true.
	OnOutcome func(message string, isError bool)
}

// Outcome is the single terminal result of a run.
type Outcome struct {
	State   State
	Message string
	IsError bool
}

// Pipeline executes one run. Instances are single-use: construct with
// New, call Run once, then discard. Cancel may be called from any
// goroutine while Run is in flight.
type Pipeline struct {
	cfg        RunConfig
	openSource video.SourceOpener
	openSink   video.SinkOpener
	logger     *slog.Logger
	observer   func(frameBytes int)

	canceled atomic.Bool
	frames   atomic.Int64
	progress atomic.Int32

	mu      sync.Mutex
	state   State
	outcome *Outcome
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOpeners replaces the ffmpeg-backed source/sink openers.
// Tests use this to run against in-memory frame stores.
func WithOpeners(src video.SourceOpener, snk video.SinkOpener) Option {
	return func(p *Pipeline) {
		p.openSource = src
		p.openSink = snk
	}
}

// WithLogger overrides the default pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithObserver installs a per-frame hook, called after each frame is
// written with its byte length. Used for metrics.
func WithObserver(fn func(frameBytes int)) Option {
	return func(p *Pipeline) {
		p.observer = fn
	}
}

// New creates a pipeline for one run.
func New(cfg RunConfig, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		openSource: video.OpenSource,
		openSink:   video.OpenSink,
		logger:     logging.GetLogger("pipeline"),
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the frame loop to completion, failure, or cancellation,
// blocking the calling goroutine. The caller owns where this runs; the
// manager puts it on a dedicated goroutine per run.
func (p *Pipeline) Run() Outcome {
	p.mu.Lock()
	if p.state != StateIdle {
		state := p.state
		p.mu.Unlock()
		p.logger.Warn("Run called on a used pipeline", "state", state)
		return Outcome{State: StateFailed, Message: "pipeline is single-use", IsError: true}
	}
	p.state = StateRunning
	p.mu.Unlock()

	out := p.run()

	p.mu.Lock()
	p.state = out.State
	p.outcome = &out
	p.mu.Unlock()

	if p.cfg.OnOutcome != nil {
		p.cfg.OnOutcome(out.Message, out.IsError)
	}
	return out
}

// run opens both ends, drives the frame loop, and guarantees both
// handles are released exactly once before the outcome is produced.
func (p *Pipeline) run() Outcome {
	src, err := p.openSource(p.cfg.SourcePath)
	if err != nil {
		runErr := NewRunError(ErrCodeSourceOpen, "opening "+p.cfg.SourcePath, err)
		p.logger.Error("Failed to open source", "path", p.cfg.SourcePath, "error", err)
		return Outcome{State: StateFailed, Message: runErr.Error(), IsError: true}
	}

	meta := src.Metadata()
	snk, err := p.openSink(p.cfg.SinkPath, meta)
	if err != nil {
		src.Close()
		runErr := NewRunError(ErrCodeSinkOpen, "opening "+p.cfg.SinkPath, err)
		p.logger.Error("Failed to open sink", "path", p.cfg.SinkPath, "error", err)
		return Outcome{State: StateFailed, Message: runErr.Error(), IsError: true}
	}

	p.logger.Info("Run started",
		"source", p.cfg.SourcePath,
		"sink", p.cfg.SinkPath,
		"mode", string(p.cfg.Mode),
		"resolution", fmt.Sprintf("%dx%d", meta.Width, meta.Height),
		"total_frames", meta.TotalFrames)

	gen := mask.NewGenerator(p.cfg.Seed)
	frame := make([]byte, meta.FrameBytes())
	total := meta.TotalFrames

	var runErr *RunError
	canceled := false

	for {
		// Cancellation is observed only here, at the iteration
		// boundary, never inside a blocking read or write.
		if p.canceled.Load() {
			canceled = true
			break
		}

		ok, readErr := src.ReadFrame(frame)
		if readErr != nil {
			runErr = NewRunError(ErrCodeFrameIO, "reading frame", readErr)
			break
		}
		if !ok {
			break
		}

		key, maskErr := gen.Next(meta.Width, meta.Height, video.Channels)
		if maskErr != nil {
			runErr = NewRunError(ErrCodeShapeMismatch, "sizing mask", maskErr)
			break
		}
		if applyErr := mask.Apply(frame, frame, key); applyErr != nil {
			runErr = NewRunError(ErrCodeShapeMismatch, "applying mask", applyErr)
			break
		}

		if writeErr := snk.WriteFrame(frame); writeErr != nil {
			runErr = NewRunError(ErrCodeFrameIO, "writing frame", writeErr)
			break
		}

		n := p.frames.Add(1)
		if p.observer != nil {
			p.observer(len(frame))
		}
		p.emitProgress(int(n), total)
	}

	frames := int(p.frames.Load())

	// Release both handles exactly once; closers are idempotent but the
	// pipeline only passes here once per run.
	src.Close()
	closeErr := snk.Close()

	switch {
	case runErr != nil:
		p.logger.Error("Run failed", "frames", frames, "error", runErr)
		return Outcome{State: StateFailed, Message: runErr.Error(), IsError: true}
	case canceled:
		p.logger.Info("Run canceled", "frames", frames)
		msg := fmt.Sprintf("run canceled after %d frames; output is truncated", frames)
		return Outcome{State: StateCanceled, Message: msg, IsError: true}
	case closeErr != nil:
		runErr = NewRunError(ErrCodeFrameIO, "finalizing sink", closeErr)
		p.logger.Error("Run failed", "frames", frames, "error", runErr)
		return Outcome{State: StateFailed, Message: runErr.Error(), IsError: true}
	default:
		p.logger.Info("Run completed", "frames", frames)
		msg := fmt.Sprintf("run completed: %d frames written to %s", frames, p.cfg.SinkPath)
		return Outcome{State: StateCompleted, Message: msg, IsError: false}
	}
}

// emitProgress computes and publishes the completion percentage. With an
// unknown total the source cannot support percentages, so nothing is
// emitted and the caller sees progress only through the frame count.
func (p *Pipeline) emitProgress(processed, total int) {
	if total <= 0 {
		return
	}
	pct := processed * 100 / total
	if pct > 100 {
		// Container metadata undercounted; clamp rather than overflow.
		pct = 100
	}
	p.progress.Store(int32(pct))
	if p.cfg.OnProgress != nil {
		p.cfg.OnProgress(pct)
	}
}

// Cancel requests a cooperative stop. The frame loop observes the flag at
// its next iteration boundary; an in-flight read or write is never
// interrupted. Calling Cancel after a terminal state is a no-op.
func (p *Pipeline) Cancel() {
	p.canceled.Store(true)
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Progress returns the last emitted percentage, 0 when the total frame
// count is unknown.
func (p *Pipeline) Progress() int {
	return int(p.progress.Load())
}

// Frames returns the number of frames written so far.
func (p *Pipeline) Frames() int {
	return int(p.frames.Load())
}

// Outcome returns the terminal outcome, or nil while the run is still
// idle or in flight.
func (p *Pipeline) Outcome() *Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.outcome == nil {
		return nil
	}
	out := *p.outcome
	return &out
}
