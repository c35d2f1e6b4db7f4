package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/framecloak/framecloak/internal/events"
)

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time event stream for run lifecycle, progress, and preset reloads",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"run-started":      events.RunStartedEvent{},
		"run-progress":     events.RunProgressEvent{},
		"run-completed":    events.RunCompletedEvent{},
		"run-failed":       events.RunFailedEvent{},
		"run-canceled":     events.RunCanceledEvent{},
		"presets-reloaded": events.PresetsReloadedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.RunStartedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.RunProgressEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.RunCompletedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.RunFailedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.RunCanceledEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.PresetsReloadedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					// Connection failed, clean up and exit
					return
				}
			}
		}
	})
}
