// ABOUTME: MCP resource implementations for the lift training log.
// ABOUTME: Provides lift://recent and lift://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	recentURI  = "lift://recent"
	summaryURI = "lift://summary"
)

func (s *Server) registerResources() {
	// lift://recent - Last 20 sets and 5 sessions
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentURI,
		Name:        "Recent Training",
		Description: "Last 20 logged sets and 5 sessions",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	// lift://summary - Dashboard stats plus per-exercise progress
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Training Summary Dashboard",
		Description: "Weekly stats plus the latest recommendation, volume trend and personal records for every exercise",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sets, err := s.repo.ListSets(storage.SetFilter{Limit: 20})
	if err != nil {
		return nil, fmt.Errorf("failed to list sets: %w", err)
	}

	sessions, err := s.repo.ListSessions(nil, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return jsonResource(recentURI, map[string]interface{}{
		"sets":     nonNil(sets),
		"sessions": nonNil(sessions),
	})
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()
	stats, err := s.coach.Stats(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	report, err := s.coach.ProgressReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build progress report: %w", err)
	}

	exercises := make(map[string]interface{}, len(report))
	for _, p := range report {
		entry := map[string]interface{}{
			"total_sets":         p.TotalSets,
			"volume_change":      p.Volume.VolumeChange,
			"progression":        p.Volume.ProgressionLabel,
			"trend":              p.Advice.Assessment.Trend,
			"average_rpe":        p.Advice.Assessment.AverageRPE,
			"recommended_weight": p.Advice.Recommendation.RecommendedWeight,
			"recommended_reps":   p.Advice.Recommendation.RecommendedReps,
			"suggestion":         p.Advice.Adjustment.Suggestion,
		}
		if p.Advice.Program != "" {
			entry["program"] = p.Advice.Program
		}
		records := make(map[string]string)
		for _, rec := range p.Records.List() {
			records[string(rec.Type)] = rec.Set.String()
		}
		entry["records"] = records
		exercises[p.Exercise] = entry
	}

	active := models.SessionActive
	activeSessions, err := s.repo.ListSessions(&active, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}

	return jsonResource(summaryURI, map[string]interface{}{
		"generated_at":    now.Format(time.RFC3339),
		"stats":           stats,
		"exercises":       exercises,
		"active_sessions": nonNil(activeSessions),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// nonNil keeps empty lists as [] rather than null in JSON.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
