// ABOUTME: MCP tool implementations for the lift training log.
// ABOUTME: Provides set and session CRUD plus recommendations and progress.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/lift/internal/autoreg"
	"github.com/harperreed/lift/internal/coach"
	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// log_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Record a completed set (exercise, weight in kg, reps, RPE 1-10), optionally inside a session",
	}, s.handleLogSet)

	// list_sets
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sets",
		Description: "List recent sets, optionally filtered by exercise or session",
	}, s.handleListSets)

	// delete_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_set",
		Description: "Delete a set by ID or ID prefix",
	}, s.handleDeleteSet)

	// start_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_session",
		Description: "Start a new training session",
	}, s.handleStartSession)

	// finish_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_session",
		Description: "Complete an active session and compute its total volume and average RPE",
	}, s.handleFinishSession)

	// cancel_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "cancel_session",
		Description: "Cancel an active session, keeping its sets",
	}, s.handleCancelSession)

	// list_sessions
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List recent sessions, optionally filtered by status",
	}, s.handleListSessions)

	// get_session
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_session",
		Description: "Get a session with all its sets",
	}, s.handleGetSession)

	// recommend
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "recommend",
		Description: "Recommend next-session weight, reps and rest for an exercise from its recent RPE history",
	}, s.handleRecommend)

	// volume_progression
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "volume_progression",
		Description: "Compare the volume of the two most recent sets of an exercise",
	}, s.handleVolumeProgression)

	// progress_report
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "progress_report",
		Description: "Recommendation, volume trend and personal records for each exercise",
	}, s.handleProgressReport)

	// personal_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "personal_records",
		Description: "Heaviest set (1RM), best single-set volume and most reps for an exercise",
	}, s.handlePersonalRecords)

	// list_programs
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_programs",
		Description: "List the built-in training programs with their prescribed sets, reps, rest and RPE",
	}, s.handleListPrograms)
}

// Tool input/output types

type logSetInput struct {
	Exercise    string  `json:"exercise" jsonschema:"Exercise name, e.g. bench press"`
	Weight      float64 `json:"weight" jsonschema:"Weight lifted in kg (0 for bodyweight)"`
	Reps        int     `json:"reps" jsonschema:"Repetitions completed"`
	RPE         int     `json:"rpe" jsonschema:"Rate of perceived exertion, 1-10"`
	RestSeconds int     `json:"rest_seconds,omitempty" jsonschema:"Rest taken after the set, in seconds"`
	SessionID   string  `json:"session_id,omitempty" jsonschema:"Session ID or prefix to attach the set to"`
	CompletedAt string  `json:"completed_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
	Notes       string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type setOutput struct {
	ID        string  `json:"id"`
	Exercise  string  `json:"exercise"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	RPE       int     `json:"rpe"`
	SetNumber int     `json:"set_number,omitempty"`
	Message   string  `json:"message"`
}

type listSetsInput struct {
	Exercise  string `json:"exercise,omitempty" jsonschema:"Filter by exercise"`
	SessionID string `json:"session_id,omitempty" jsonschema:"Filter by session ID or prefix"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"ID or unique ID prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type startSessionInput struct {
	Program string `json:"program,omitempty" jsonschema:"Program ID or name from list_programs (e.g. upper-a), or a free-form label"`
	Notes   string `json:"notes,omitempty" jsonschema:"Session notes"`
}

type sessionOutput struct {
	ID          string  `json:"id"`
	Program     string  `json:"program,omitempty"`
	Status      string  `json:"status"`
	Sets        int     `json:"sets"`
	TotalVolume float64 `json:"total_volume"`
	AverageRPE  int     `json:"average_rpe,omitempty"`
	Message     string  `json:"message"`
}

type listSessionsInput struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by status: active, completed or cancelled"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type recommendInput struct {
	Exercise    string  `json:"exercise" jsonschema:"Exercise name"`
	TargetRPE   float64 `json:"target_rpe,omitempty" jsonschema:"Target RPE, defaults to the configured target"`
	RestSeconds int     `json:"rest_seconds,omitempty" jsonschema:"Rest taken after the last set, when not recorded"`
	Program     string  `json:"program,omitempty" jsonschema:"Program ID whose prescription supplies the default target and rest"`
}

type recommendOutput struct {
	Exercise          string             `json:"exercise"`
	RecommendedWeight float64            `json:"recommended_weight"`
	RecommendedReps   int                `json:"recommended_reps"`
	RecommendedRest   int                `json:"recommended_rest"`
	Explanation       string             `json:"explanation"`
	SessionsAnalysed  int                `json:"sessions_analysed"`
	AverageRPE        float64            `json:"average_rpe"`
	Trend             string             `json:"trend"`
	Band              string             `json:"band"`
	TargetRPE         float64            `json:"target_rpe"`
	Program           string             `json:"program,omitempty"`
	Adjustment        autoreg.Adjustment `json:"adjustment"`
}

type exerciseInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name"`
}

type progressReportInput struct {
	Exercises []string `json:"exercises,omitempty" jsonschema:"Exercises to include, defaults to every logged exercise"`
}

// Tool handlers

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, setOutput, error) {
	set := models.NewSet(input.Exercise, input.Weight, input.Reps, input.RPE)

	if input.RestSeconds > 0 {
		set.WithRest(input.RestSeconds)
	}
	if input.CompletedAt != "" {
		t, err := parseTimestamp(input.CompletedAt)
		if err != nil {
			return nil, setOutput{}, err
		}
		set.WithCompletedAt(t)
	}
	if input.Notes != "" {
		set.WithNotes(input.Notes)
	}
	if input.SessionID != "" {
		session, err := s.repo.GetSession(input.SessionID)
		if err != nil {
			return nil, setOutput{}, fmt.Errorf("failed to find session: %w", err)
		}
		set.WithSession(session.ID)
	}

	if err := s.coach.LogSet(ctx, set); err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to log set: %w", err)
	}
	logger := logging.FromContext(ctx)
	logger.Info().Str("set", set.ID.String()).Str("exercise", set.Exercise).Msg("set logged")

	return nil, setOutput{
		ID:        set.ID.String()[:8],
		Exercise:  set.Exercise,
		Weight:    set.Weight,
		Reps:      set.Reps,
		RPE:       set.RPE,
		SetNumber: set.SetNumber,
		Message:   fmt.Sprintf("Logged %s: %s (ID: %s)", set.Exercise, set, set.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListSets(ctx context.Context, req *mcp.CallToolRequest, input listSetsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	filter := storage.SetFilter{Exercise: input.Exercise, Limit: input.Limit}
	if input.SessionID != "" {
		session, err := s.repo.GetSession(input.SessionID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to find session: %w", err)
		}
		filter.SessionID = &session.ID
	}

	sets, err := s.repo.ListSets(filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sets: %w", err)
	}

	if len(sets) == 0 {
		return nil, map[string]interface{}{"message": "No sets found."}, nil
	}

	return nil, map[string]interface{}{"sets": sets, "count": len(sets)}, nil
}

func (s *Server) handleDeleteSet(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteSet(input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete set: %w", err)
	}
	logger := logging.FromContext(ctx)
	logger.Info().Str("set", input.ID).Msg("set deleted")

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted set: %s", input.ID),
	}, nil
}

func (s *Server) handleStartSession(ctx context.Context, req *mcp.CallToolRequest, input startSessionInput) (*mcp.CallToolResult, sessionOutput, error) {
	session := models.NewSession(s.coach.ProgramLabel(input.Program))
	if input.Notes != "" {
		session.WithNotes(input.Notes)
	}

	if err := s.repo.CreateSession(session); err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to start session: %w", err)
	}
	logger := logging.FromContext(ctx)
	logger.Info().Str("session", session.ID.String()).Str("program", session.Program).Msg("session started")

	out := toSessionOutput(session)
	out.Message = fmt.Sprintf("Started session %s", session.ID.String()[:8])
	return nil, out, nil
}

func (s *Server) handleFinishSession(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, sessionOutput, error) {
	session, err := s.coach.FinishSession(ctx, input.ID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to finish session: %w", err)
	}

	out := toSessionOutput(session)
	out.Message = fmt.Sprintf("Finished session %s: %d sets, %g kg total volume",
		session.ID.String()[:8], len(session.Sets), session.TotalVolume)
	return nil, out, nil
}

func (s *Server) handleCancelSession(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, sessionOutput, error) {
	session, err := s.coach.CancelSession(ctx, input.ID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to cancel session: %w", err)
	}

	out := toSessionOutput(session)
	out.Message = fmt.Sprintf("Cancelled session %s", session.ID.String()[:8])
	return nil, out, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listSessionsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	var status *models.SessionStatus
	if input.Status != "" {
		if !models.IsValidSessionStatus(input.Status) {
			return nil, nil, fmt.Errorf("unknown session status: %s", input.Status)
		}
		st := models.SessionStatus(input.Status)
		status = &st
	}

	sessions, err := s.repo.ListSessions(status, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		return nil, map[string]interface{}{"message": "No sessions found."}, nil
	}

	return nil, map[string]interface{}{"sessions": sessions, "count": len(sessions)}, nil
}

func (s *Server) handleGetSession(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	session, err := s.repo.GetSessionWithSets(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}

	return nil, session, nil
}

func (s *Server) handleRecommend(ctx context.Context, req *mcp.CallToolRequest, input recommendInput) (*mcp.CallToolResult, recommendOutput, error) {
	if input.Exercise == "" {
		return nil, recommendOutput{}, fmt.Errorf("exercise is required")
	}
	if input.TargetRPE != 0 && (input.TargetRPE < models.MinRPE || input.TargetRPE > models.MaxRPE) {
		return nil, recommendOutput{}, fmt.Errorf("target_rpe must be between 1 and 10")
	}

	advice, err := s.coach.Recommend(ctx, input.Exercise, coach.RecommendOptions{
		TargetRPE:   input.TargetRPE,
		RestSeconds: input.RestSeconds,
		Program:     input.Program,
	})
	if err != nil {
		return nil, recommendOutput{}, fmt.Errorf("failed to compute recommendation: %w", err)
	}

	return nil, recommendOutput{
		Exercise:          advice.Exercise,
		RecommendedWeight: advice.Recommendation.RecommendedWeight,
		RecommendedReps:   advice.Recommendation.RecommendedReps,
		RecommendedRest:   advice.Recommendation.RecommendedRest,
		Explanation:       advice.Recommendation.Explanation,
		SessionsAnalysed:  advice.Assessment.Sessions,
		AverageRPE:        advice.Assessment.AverageRPE,
		Trend:             string(advice.Assessment.Trend),
		Band:              advice.Assessment.Band,
		TargetRPE:         advice.TargetRPE,
		Program:           advice.Program,
		Adjustment:        advice.Adjustment,
	}, nil
}

func (s *Server) handleVolumeProgression(ctx context.Context, req *mcp.CallToolRequest, input exerciseInput) (*mcp.CallToolResult, autoreg.VolumeProgression, error) {
	if input.Exercise == "" {
		return nil, autoreg.VolumeProgression{}, fmt.Errorf("exercise is required")
	}

	vp, err := s.coach.VolumeProgression(ctx, input.Exercise)
	if err != nil {
		return nil, autoreg.VolumeProgression{}, fmt.Errorf("failed to compute volume progression: %w", err)
	}
	return nil, vp, nil
}

func (s *Server) handleProgressReport(ctx context.Context, req *mcp.CallToolRequest, input progressReportInput) (*mcp.CallToolResult, any, error) {
	report, err := s.coach.ProgressReport(ctx, input.Exercises...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build progress report: %w", err)
	}

	if len(report) == 0 {
		return nil, map[string]interface{}{"message": "No exercises logged yet."}, nil
	}

	return nil, map[string]interface{}{"exercises": report}, nil
}

func (s *Server) handlePersonalRecords(ctx context.Context, req *mcp.CallToolRequest, input exerciseInput) (*mcp.CallToolResult, any, error) {
	if input.Exercise == "" {
		return nil, nil, fmt.Errorf("exercise is required")
	}

	records, err := s.coach.PersonalRecords(ctx, input.Exercise)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute personal records: %w", err)
	}

	list := records.List()
	if len(list) == 0 {
		return nil, map[string]interface{}{"message": "No records yet."}, nil
	}
	return nil, map[string]interface{}{
		"exercise": models.NormalizeExercise(input.Exercise),
		"records":  list,
	}, nil
}

func (s *Server) handleListPrograms(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	programs := s.coach.Programs().Programs()
	return nil, map[string]interface{}{"programs": programs, "count": len(programs)}, nil
}

func toSessionOutput(session *models.Session) sessionOutput {
	out := sessionOutput{
		ID:          session.ID.String(),
		Program:     session.Program,
		Status:      string(session.Status),
		Sets:        len(session.Sets),
		TotalVolume: session.TotalVolume,
	}
	if session.AverageRPE != nil {
		out.AverageRPE = *session.AverageRPE
	}
	return out
}

// parseTimestamp accepts RFC3339 or "2006-01-02 15:04" in local time.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q (use RFC3339 or YYYY-MM-DD HH:MM)", s)
}
