package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/scenetuneapp/scenetune-server/internal/player"
)

func (s *Server) registerPlayerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "reportPlayerError",
		Method:        http.MethodPost,
		Path:          "/api/v1/player-errors",
		Summary:       "Report player error",
		Description:   "Accepts a playback error report from the embedded player and logs it",
		Tags:          []string{"Player"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleReportPlayerError)
}

// PlayerErrorInput wraps the report payload for Huma.
type PlayerErrorInput struct {
	Body player.ErrorReport
}

// PlayerErrorOutput carries the assigned report id in a header; the body is
// empty.
type PlayerErrorOutput struct {
	ReportID string `header:"X-Report-Id" doc:"Assigned report id"`
}

func (s *Server) handleReportPlayerError(_ context.Context, input *PlayerErrorInput) (*PlayerErrorOutput, error) {
	reportID := s.player.Log(input.Body)
	return &PlayerErrorOutput{ReportID: reportID}, nil
}
