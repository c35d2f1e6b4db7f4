package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/framecloak/framecloak/internal/api/models"
	"github.com/framecloak/framecloak/internal/pipeline"
)

// registerPresetRoutes registers preset listing and preset-driven runs
func (s *Server) registerPresetRoutes() {
	// List presets
	huma.Register(s.api, huma.Operation{
		OperationID: "list-presets",
		Method:      http.MethodGet,
		Path:        "/api/presets",
		Summary:     "List Presets",
		Description: "Get all configured presets. The set reflects the preset file and updates on hot reload.",
		Tags:        []string{"presets"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.PresetListResponse, error) {
		names := s.presets.Names()

		apiPresets := make([]models.PresetData, 0, len(names))
		for _, name := range names {
			preset, ok := s.presets.Get(name)
			if !ok {
				continue
			}
			apiPresets = append(apiPresets, models.PresetData{
				Name:   name,
				Source: preset.Source,
				Sink:   preset.Sink,
				Seed:   preset.Seed,
				Mode:   preset.Mode,
			})
		}

		return &models.PresetListResponse{
			Body: models.PresetListData{
				Presets: apiPresets,
				Count:   len(apiPresets),
			},
		}, nil
	})

	// Start a run from a preset
	huma.Register(s.api, huma.Operation{
		OperationID: "start-preset",
		Method:      http.MethodPost,
		Path:        "/api/presets/{name}/start",
		Summary:     "Start Preset",
		Description: "Start a run from a named preset",
		Tags:        []string{"presets"},
		Errors:      []int{400, 401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Name string `path:"name" example:"nightly" doc:"Preset name"`
	}) (*models.RunResponse, error) {
		preset, ok := s.presets.Get(input.Name)
		if !ok {
			return nil, huma.Error404NotFound("no preset named " + input.Name)
		}

		status, err := s.runs.StartRun(pipeline.RunConfig{
			SourcePath: preset.Source,
			SinkPath:   preset.Sink,
			Seed:       preset.Seed,
			Mode:       pipeline.Mode(preset.Mode),
		})
		if err != nil {
			return nil, s.mapRunError(err)
		}

		return &models.RunResponse{Body: statusToAPIRun(status)}, nil
	})
}
