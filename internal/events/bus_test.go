package events

import (
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan RunProgressEvent, 1)

	unsub := bus.Subscribe(func(e RunProgressEvent) {
		received <- e
	})
	defer unsub()

	ev := RunProgressEvent{RunID: "run-000001", Percent: 50}
	bus.Publish(ev)

	got := <-received
	if got.RunID != ev.RunID || got.Percent != ev.Percent {
		t.Errorf("got %+v, want %+v", got, ev)
	}
}

func TestBus_MultipleSubscribers(_ *testing.T) {
	bus := New()
	received1 := make(chan RunCompletedEvent, 1)
	received2 := make(chan RunCompletedEvent, 1)

	unsub1 := bus.Subscribe(func(e RunCompletedEvent) {
		received1 <- e
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(e RunCompletedEvent) {
		received2 <- e
	})
	defer unsub2()

	bus.Publish(RunCompletedEvent{RunID: "run-000001", Frames: 10})

	<-received1
	<-received2
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan RunFailedEvent, 1)

	unsub := bus.Subscribe(func(e RunFailedEvent) {
		received <- e
	})

	bus.Publish(RunFailedEvent{RunID: "run-000001"})
	<-received

	unsub()

	bus.Publish(RunFailedEvent{RunID: "run-000002"})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
		// Expected - no event
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()

	progressReceived := make(chan bool, 1)
	canceledReceived := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(_ RunProgressEvent) {
		progressReceived <- true
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(_ RunCanceledEvent) {
		canceledReceived <- true
	})
	defer unsub2()

	bus.Publish(RunProgressEvent{RunID: "run-000001", Percent: 10})
	<-progressReceived

	select {
	case <-canceledReceived:
		t.Fatal("cancel subscriber should NOT have received RunProgressEvent")
	case <-time.After(10 * time.Millisecond):
		// Expected
	}

	bus.Publish(RunCanceledEvent{RunID: "run-000001"})
	<-canceledReceived
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 2)

	unsub := SubscribeToChannel[RunProgressEvent](bus, ch)
	defer unsub()

	bus.Publish(RunProgressEvent{RunID: "run-000001", Percent: 25})

	select {
	case got := <-ch:
		ev, ok := got.(RunProgressEvent)
		if !ok {
			t.Fatalf("unexpected event type %T", got)
		}
		if ev.Percent != 25 {
			t.Errorf("Percent = %d, want 25", ev.Percent)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}
