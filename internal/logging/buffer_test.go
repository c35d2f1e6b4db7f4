package logging

import (
	"fmt"
	"testing"
	"time"
)

func TestRingBuffer_WrapAround(t *testing.T) {
	rb := NewRingBuffer(3)

	for i := 0; i < 5; i++ {
		rb.Write(LogEntry{
			Timestamp: time.Now(),
			Level:     "info",
			Module:    "test",
			Message:   fmt.Sprintf("msg-%d", i),
		})
	}

	if rb.Count() != 3 {
		t.Fatalf("expected count 3, got %d", rb.Count())
	}

	entries := rb.ReadAll()
	want := []string{"msg-2", "msg-3", "msg-4"}
	for i, entry := range entries {
		if entry.Message != want[i] {
			t.Errorf("entry %d: got %q, want %q", i, entry.Message, want[i])
		}
	}
}

func TestRingBuffer_Empty(t *testing.T) {
	rb := NewRingBuffer(10)
	if entries := rb.ReadAll(); entries != nil {
		t.Errorf("expected nil for empty buffer, got %v", entries)
	}
	if rb.Count() != 0 {
		t.Errorf("expected count 0, got %d", rb.Count())
	}
}

func TestRingBuffer_Partial(t *testing.T) {
	rb := NewRingBuffer(10)
	rb.Write(LogEntry{Message: "first"})
	rb.Write(LogEntry{Message: "second"})

	entries := rb.ReadAll()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "first" || entries[1].Message != "second" {
		t.Errorf("entries out of order: %v", entries)
	}
}
