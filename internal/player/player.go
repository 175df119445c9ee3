// Package player receives playback error reports from the embedded YouTube
// player and forwards them to the logging pipeline. Records are emitted as
// structured log entries so a log forwarder (Loki, Beats) can build alerting
// on top of the stream.
package player

import (
	"log/slog"
	"time"

	"github.com/scenetuneapp/scenetune-server/internal/id"
)

// ErrorReport is the payload emitted by the frontend's player error handler.
// Every field except the error code is optional; the frontend sends whatever
// state it had when playback broke.
type ErrorReport struct {
	ErrorCode                 int            `json:"errorCode" doc:"YouTube player error code"`
	VideoID                   string         `json:"videoId,omitempty" doc:"Identifier of the affected video"`
	Request                   map[string]any `json:"request,omitempty" doc:"Last playlist request issued by the UI"`
	LastQuery                 string         `json:"lastQuery,omitempty" doc:"Most recent search query"`
	PlaylistIndex             *int           `json:"playlistIndex,omitempty" doc:"Index of the failing track in the playlist"`
	PlaylistLength            *int           `json:"playlistLength,omitempty" doc:"Number of items in the active playlist"`
	ConsecutiveErrors         *int           `json:"consecutivePlaybackErrors,omitempty" doc:"Playback errors without recovery"`
	ReportedAt                *time.Time     `json:"reportedAt,omitempty" doc:"Client-side timestamp of the error"`
	ManualListActive          *bool          `json:"manualListActive,omitempty" doc:"Whether a manual override playlist was in use"`
	ManualListInitialLength   *int           `json:"manualListInitialLength,omitempty" doc:"Manual playlist size before error handling"`
	ManualListRemainingLength *int           `json:"manualListRemainingLength,omitempty" doc:"Manual playlist size after removing failing entries"`
	ManualListWasTrimmed      *bool          `json:"manualListWasTrimmed,omitempty" doc:"Whether an entry was removed from the manual list"`
	RemovedManualVideoID      string         `json:"removedManualVideoId,omitempty" doc:"Manual override entry that was dropped"`
}

// ReportService turns incoming reports into structured log records.
type ReportService struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewReportService creates a report service logging through the given logger.
func NewReportService(logger *slog.Logger) *ReportService {
	return &ReportService{
		logger: logger,
		now:    time.Now,
	}
}

// Log assigns the report an id and emits one structured record. It returns
// the assigned report id so the API can echo it back for support requests.
func (s *ReportService) Log(report ErrorReport) string {
	reportID := id.MustGenerate("perr")

	attrs := []any{
		"report_id", reportID,
		"logged_at", s.now().UTC().Format(time.RFC3339Nano),
		"error_code", report.ErrorCode,
	}
	if report.VideoID != "" {
		attrs = append(attrs, "video_id", report.VideoID)
	}
	if report.LastQuery != "" {
		attrs = append(attrs, "last_query", report.LastQuery)
	}
	if report.PlaylistIndex != nil {
		attrs = append(attrs, "playlist_index", *report.PlaylistIndex)
	}
	if report.PlaylistLength != nil {
		attrs = append(attrs, "playlist_length", *report.PlaylistLength)
	}
	if report.ConsecutiveErrors != nil {
		attrs = append(attrs, "consecutive_errors", *report.ConsecutiveErrors)
	}
	if report.ReportedAt != nil {
		attrs = append(attrs, "reported_at", report.ReportedAt.UTC().Format(time.RFC3339Nano))
	}
	if report.ManualListActive != nil {
		attrs = append(attrs, "manual_list_active", *report.ManualListActive)
	}
	if report.ManualListInitialLength != nil {
		attrs = append(attrs, "manual_list_initial_length", *report.ManualListInitialLength)
	}
	if report.ManualListRemainingLength != nil {
		attrs = append(attrs, "manual_list_remaining_length", *report.ManualListRemainingLength)
	}
	if report.ManualListWasTrimmed != nil {
		attrs = append(attrs, "manual_list_was_trimmed", *report.ManualListWasTrimmed)
	}
	if report.RemovedManualVideoID != "" {
		attrs = append(attrs, "removed_manual_video_id", report.RemovedManualVideoID)
	}
	if len(report.Request) > 0 {
		attrs = append(attrs, "request", report.Request)
	}

	s.logger.Warn("player error reported", attrs...)
	return reportID
}
