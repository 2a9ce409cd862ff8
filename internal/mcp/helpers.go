package mcp

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"tempwave/internal/wave"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// textResult renders data as indented JSON text content. Non-empty extras,
// such as charts, follow as separate text blocks.
func textResult(data any, extras ...string) (*sdk.CallToolResult, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	content := []sdk.Content{&sdk.TextContent{Text: string(out)}}
	for _, extra := range extras {
		if extra != "" {
			content = append(content, &sdk.TextContent{Text: extra})
		}
	}
	return &sdk.CallToolResult{Content: content}, nil
}

func (s *Server) direction(mode string) (wave.Direction, error) {
	if mode == "" {
		return s.cfg.Analysis.Direction, nil
	}
	return wave.ParseDirection(mode)
}

// threshold returns the explicit value or the configured one for dir.
func (s *Server) threshold(dir wave.Direction, explicit *float64) float64 {
	if explicit != nil {
		return *explicit
	}
	if dir == wave.Cold {
		return s.cfg.Analysis.ColdThreshold
	}
	return s.cfg.Analysis.HeatThreshold
}

func (s *Server) minDuration(n int) int {
	if n > 0 {
		return n
	}
	return s.cfg.Analysis.MinDuration
}

// resolvePath anchors relative paths at the data directory.
func (s *Server) resolvePath(p string) string {
	if filepath.IsAbs(p) || s.cfg.DataPath == "" {
		return p
	}
	return filepath.Join(s.cfg.DataPath, p)
}
