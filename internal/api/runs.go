package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/framecloak/framecloak/internal/api/models"
	"github.com/framecloak/framecloak/internal/pipeline"
)

// registerRunRoutes registers all run lifecycle endpoints
func (s *Server) registerRunRoutes() {
	// List runs
	huma.Register(s.api, huma.Operation{
		OperationID: "list-runs",
		Method:      http.MethodGet,
		Path:        "/api/runs",
		Summary:     "List Runs",
		Description: "Get all known runs, including finished ones",
		Tags:        []string{"runs"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.RunListResponse, error) {
		statuses := s.runs.List()

		apiRuns := make([]models.RunData, len(statuses))
		for i, status := range statuses {
			apiRuns[i] = statusToAPIRun(status)
		}

		return &models.RunListResponse{
			Body: models.RunListData{
				Runs:  apiRuns,
				Count: len(apiRuns),
			},
		}, nil
	})

	// Start a run
	huma.Register(s.api, huma.Operation{
		OperationID: "create-run",
		Method:      http.MethodPost,
		Path:        "/api/runs",
		Summary:     "Start Run",
		Description: "Start an obfuscation run. The run executes asynchronously; poll its status or follow /api/events.",
		Tags:        []string{"runs"},
		Errors:      []int{400, 401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.RunRequest) (*models.RunResponse, error) {
		status, err := s.runs.StartRun(pipeline.RunConfig{
			SourcePath: input.Body.Source,
			SinkPath:   input.Body.Sink,
			Seed:       input.Body.Seed,
			Mode:       pipeline.Mode(input.Body.Mode),
		})
		if err != nil {
			return nil, s.mapRunError(err)
		}

		return &models.RunResponse{Body: statusToAPIRun(status)}, nil
	})

	// Get run status
	huma.Register(s.api, huma.Operation{
		OperationID: "get-run",
		Method:      http.MethodGet,
		Path:        "/api/runs/{run_id}",
		Summary:     "Get Run",
		Description: "Get the current status of a run",
		Tags:        []string{"runs"},
		Errors:      []int{401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		RunID string `path:"run_id" example:"run-000001" doc:"Run identifier"`
	}) (*models.RunResponse, error) {
		status, err := s.runs.Status(input.RunID)
		if err != nil {
			return nil, s.mapRunError(err)
		}

		return &models.RunResponse{Body: statusToAPIRun(status)}, nil
	})

	// Cancel a run
	huma.Register(s.api, huma.Operation{
		OperationID: "cancel-run",
		Method:      http.MethodDelete,
		Path:        "/api/runs/{run_id}",
		Summary:     "Cancel Run",
		Description: "Request cooperative cancellation. The run stops at the next frame boundary, leaving a truncated output, and remains queryable.",
		Tags:        []string{"runs"},
		Errors:      []int{401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		RunID string `path:"run_id" example:"run-000001" doc:"Run identifier"`
	}) (*struct{}, error) {
		if err := s.runs.Cancel(input.RunID); err != nil {
			return nil, s.mapRunError(err)
		}

		return &struct{}{}, nil
	})
}

// statusToAPIRun converts a domain run snapshot to API run data
func statusToAPIRun(status pipeline.RunStatus) models.RunData {
	return models.RunData{
		RunID:      status.RunID,
		Source:     status.Source,
		Sink:       status.Sink,
		Mode:       string(status.Mode),
		Seed:       status.Seed,
		State:      string(status.State),
		Progress:   status.Progress,
		Frames:     status.Frames,
		Message:    status.Message,
		IsError:    status.IsError,
		StartedAt:  status.StartedAt,
		FinishedAt: status.FinishedAt,
	}
}

// mapRunError maps domain errors to HTTP errors
func (s *Server) mapRunError(err error) error {
	var runErr *pipeline.RunError
	if errors.As(err, &runErr) {
		switch runErr.Code {
		case pipeline.ErrCodeRunNotFound:
			return huma.Error404NotFound(runErr.Message, err)
		case pipeline.ErrCodeInvalidParams:
			return huma.Error400BadRequest(runErr.Message, err)
		default:
			return huma.Error500InternalServerError(runErr.Message, err)
		}
	}
	return huma.Error500InternalServerError("internal server error", err)
}
