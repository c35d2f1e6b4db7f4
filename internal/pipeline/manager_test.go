package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/framecloak/framecloak/internal/events"
	"github.com/framecloak/framecloak/internal/video"
)

func testManager(src video.FrameSource, snk video.FrameSink, bus *events.Bus) *Manager {
	srcOpen, snkOpen := memOpeners(src, snk)
	return NewManager(ManagerOptions{
		Bus:        bus,
		OpenSource: srcOpen,
		OpenSink:   snkOpen,
	})
}

func TestManager_StartAndWait(t *testing.T) {
	snk := &memSink{}
	m := testManager(newMemSource(4, 4, 5, makeFrames(5, 48)), snk, nil)

	run, err := m.Start(RunConfig{SourcePath: "in.mp4", SinkPath: "out.mkv", Seed: 42})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if run.ID != "run-000001" {
		t.Errorf("run ID = %q, want run-000001", run.ID)
	}

	out := run.Wait()
	if out.State != StateCompleted {
		t.Fatalf("state = %s, want completed", out.State)
	}
	if got := len(snk.written()); got != 5 {
		t.Errorf("sink holds %d frames, want 5", got)
	}

	status := run.Status()
	if status.State != StateCompleted || status.Frames != 5 {
		t.Errorf("status = %+v", status)
	}
	if status.FinishedAt == nil {
		t.Error("finished run has no finish time")
	}
}

func TestManager_StartValidation(t *testing.T) {
	m := NewManager(ManagerOptions{})

	tests := []struct {
		name string
		cfg  RunConfig
	}{
		{"missing source", RunConfig{SinkPath: "out"}},
		{"missing sink", RunConfig{SourcePath: "in"}},
		{"bad mode", RunConfig{SourcePath: "in", SinkPath: "out", Mode: "rot13"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Start(tt.cfg)
			var runErr *RunError
			if !errors.As(err, &runErr) || runErr.Code != ErrCodeInvalidParams {
				t.Errorf("Start error = %v, want %s", err, ErrCodeInvalidParams)
			}
		})
	}
}

func TestManager_CancelRunning(t *testing.T) {
	src := newGatedSource(4, 4)
	m := testManager(src, &memSink{}, nil)

	run, err := m.Start(RunConfig{SourcePath: "in", SinkPath: "out", Seed: 1})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	src.tokens <- struct{}{}
	waitForFrames(t, run, 1)

	if !m.IsRunning(run.ID) {
		t.Fatal("run not reported as running")
	}
	if err := m.Cancel(run.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	// The loop is blocked reading the next frame; feed it one so the
	// iteration boundary comes around and observes the flag.
	src.tokens <- struct{}{}

	out := run.Wait()
	if out.State != StateCanceled {
		t.Fatalf("state = %s, want canceled", out.State)
	}
	if m.IsRunning(run.ID) {
		t.Error("terminal run reported as running")
	}

	// Late cancel of a terminal run is a no-op, not an error.
	if err := m.Cancel(run.ID); err != nil {
		t.Errorf("Cancel after terminal: %v", err)
	}
}

func TestManager_NotFound(t *testing.T) {
	m := NewManager(ManagerOptions{})

	_, err := m.Status("run-999999")
	var runErr *RunError
	if !errors.As(err, &runErr) || runErr.Code != ErrCodeRunNotFound {
		t.Errorf("Status error = %v, want %s", err, ErrCodeRunNotFound)
	}
	if err := m.Cancel("run-999999"); err == nil {
		t.Error("Cancel of unknown run succeeded")
	}
	if m.IsRunning("run-999999") {
		t.Error("unknown run reported as running")
	}
}

func TestManager_ListOrdersByID(t *testing.T) {
	m := NewManager(ManagerOptions{
		OpenSource: func(string) (video.FrameSource, error) {
			return newMemSource(4, 4, 2, makeFrames(2, 48)), nil
		},
		OpenSink: func(string, video.Metadata) (video.FrameSink, error) {
			return &memSink{}, nil
		},
	})

	var runs []*Run
	for i := 0; i < 3; i++ {
		run, err := m.Start(RunConfig{SourcePath: "in", SinkPath: "out", Seed: int64(i)})
		if err != nil {
			t.Fatalf("Start %d: %v", i, err)
		}
		runs = append(runs, run)
	}
	for _, run := range runs {
		run.Wait()
	}

	statuses := m.List()
	if len(statuses) != 3 {
		t.Fatalf("List returned %d runs, want 3", len(statuses))
	}
	for i, status := range statuses {
		if want := runs[i].ID; status.RunID != want {
			t.Errorf("List[%d] = %s, want %s", i, status.RunID, want)
		}
	}
}

func TestManager_PublishesLifecycleEvents(t *testing.T) {
	bus := events.New()
	started := make(chan events.RunStartedEvent, 1)
	completed := make(chan events.RunCompletedEvent, 1)
	progressed := make(chan events.RunProgressEvent, 16)
	defer bus.Subscribe(func(e events.RunStartedEvent) { started <- e })()
	defer bus.Subscribe(func(e events.RunCompletedEvent) { completed <- e })()
	defer bus.Subscribe(func(e events.RunProgressEvent) { progressed <- e })()

	m := testManager(newMemSource(4, 4, 4, makeFrames(4, 48)), &memSink{}, bus)
	run, err := m.Start(RunConfig{SourcePath: "in", SinkPath: "out", Seed: 9})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	run.Wait()

	select {
	case e := <-started:
		if e.RunID != run.ID {
			t.Errorf("started event run ID = %s, want %s", e.RunID, run.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no RunStartedEvent")
	}
	select {
	case e := <-completed:
		if e.Frames != 4 {
			t.Errorf("completed event frames = %d, want 4", e.Frames)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no RunCompletedEvent")
	}
	select {
	case <-progressed:
	case <-time.After(2 * time.Second):
		t.Fatal("no RunProgressEvent")
	}
}

func TestManager_CancelAll(t *testing.T) {
	src := newGatedSource(4, 4)
	m := testManager(src, &memSink{}, nil)

	run, err := m.Start(RunConfig{SourcePath: "in", SinkPath: "out", Seed: 1})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	src.tokens <- struct{}{}
	waitForFrames(t, run, 1)

	done := make(chan struct{})
	go func() {
		m.CancelAll()
		close(done)
	}()

	src.tokens <- struct{}{}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("CancelAll did not return")
	}
	if run.Status().State != StateCanceled {
		t.Errorf("state = %s, want canceled", run.Status().State)
	}
}

func waitForFrames(t *testing.T, run *Run, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if run.Status().Frames >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("run never reached %d frames", n)
}
