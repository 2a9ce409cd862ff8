package mcp

import (
	"context"
	"sort"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func connect(t *testing.T, s *Server) *sdk.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientT, serverT := sdk.NewInMemoryTransports()
	if _, err := s.srv.Connect(ctx, serverT, nil); err != nil {
		t.Fatalf("server connect failed: %v", err)
	}

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func TestIntegration_ListTools(t *testing.T) {
	cs := connect(t, newTestServer(t, false))

	res, err := cs.ListTools(context.Background(), &sdk.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		if tool.InputSchema == nil {
			t.Errorf("Tool %s has no input schema", tool.Name)
		}
	}
	sort.Strings(names)
	want := []string{"analyze_dataset", "detect_episodes", "list_runs"}
	if len(names) != len(want) {
		t.Fatalf("Expected tools %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected tools %v, got %v", want, names)
			break
		}
	}
}

func TestIntegration_CallDetect(t *testing.T) {
	cs := connect(t, newTestServer(t, false))

	res, err := cs.CallTool(context.Background(), &sdk.CallToolParams{
		Name: "detect_episodes",
		Arguments: map[string]any{
			"values":    []float64{-20, -20, -20, 0},
			"mode":      "cold",
			"threshold": -15,
		},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("Tool reported error: %+v", res.Content)
	}

	var out detectOutput
	decode(t, res, &out)
	if out.Summary.Waves != 1 || out.Summary.MaxDuration != 3 {
		t.Errorf("Expected one 3-day coldwave, got %+v", out.Summary)
	}
}

func TestIntegration_ToolError(t *testing.T) {
	cs := connect(t, newTestServer(t, false))

	res, err := cs.CallTool(context.Background(), &sdk.CallToolParams{
		Name:      "list_runs",
		Arguments: map[string]any{},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !res.IsError {
		t.Errorf("Expected a tool error when storage is not configured")
	}
}
