package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nick-dorsch/todoboard/internal/seed"
	"github.com/nick-dorsch/todoboard/internal/store"
	"github.com/nick-dorsch/todoboard/internal/todo"
	"github.com/nick-dorsch/todoboard/pkg/models"
)

var fixedNow = time.Date(2024, 1, 19, 12, 0, 0, 0, time.UTC)

func newTestService() *todo.Service {
	return todo.NewService(store.New(seed.Defaults()...), log.New(io.Discard), todo.WithClock(func() time.Time {
		return fixedNow
	}))
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	tool := s.GetTool(name)
	if tool == nil {
		t.Fatalf("Tool %s not found", name)
	}

	result, err := tool.Handler(context.Background(), req)
	if err != nil {
		t.Fatalf("Handler failed: %v", err)
	}
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("Expected content in tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestServerInitialization(t *testing.T) {
	s := NewServer(newTestService())
	stdio := server.NewStdioServer(s)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go func() {
		_ = stdio.Listen(ctx, inR, outW)
	}()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}

	rawReq := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params":  initReq.Params,
	}

	data, err := json.Marshal(rawReq)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	go func() {
		inW.Write(append(data, '\n'))
	}()

	lines := make(chan []byte, 1)
	go func() {
		reader := bufio.NewReader(outR)
		line, _ := reader.ReadBytes('\n')
		lines <- line
	}()

	var line []byte
	select {
	case line = <-lines:
	case <-ctx.Done():
		t.Fatal("Expected response from server, got none")
	}

	var resp struct {
		JSONRPC string `json:"jsonrpc"`
		ID      int    `json:"id"`
		Result  struct {
			ProtocolVersion string `json:"protocolVersion"`
			ServerInfo      struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}

	if err := json.Unmarshal(line, &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v\nOutput: %s", err, line)
	}

	if resp.ID != 1 {
		t.Errorf("Expected id 1, got %v", resp.ID)
	}
	if resp.Result.ServerInfo.Name != serverName {
		t.Errorf("Expected server name %s, got %v", serverName, resp.Result.ServerInfo.Name)
	}
}

func TestToolHandlers(t *testing.T) {
	todos := newTestService()
	s := NewServer(todos)

	t.Run("list_todos", func(t *testing.T) {
		result := callTool(t, s, "list_todos", map[string]interface{}{})
		if result.IsError {
			t.Fatalf("Tool returned error: %v", result.Content[0])
		}

		var resp struct {
			Todos []models.Todo `json:"todos"`
		}
		if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if len(resp.Todos) != 8 {
			t.Errorf("Expected 8 todos, got %d", len(resp.Todos))
		}
	})

	t.Run("list_todos by status", func(t *testing.T) {
		result := callTool(t, s, "list_todos", map[string]interface{}{"status": "completed"})
		if result.IsError {
			t.Fatalf("Tool returned error: %v", result.Content[0])
		}

		var resp struct {
			Todos []models.Todo `json:"todos"`
		}
		if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if len(resp.Todos) != 3 {
			t.Errorf("Expected 3 completed todos, got %d", len(resp.Todos))
		}

		result = callTool(t, s, "list_todos", map[string]interface{}{"status": "blocked"})
		if !result.IsError {
			t.Error("Expected error for unknown status")
		}
	})

	t.Run("get_todo", func(t *testing.T) {
		result := callTool(t, s, "get_todo", map[string]interface{}{"id": 5.0})
		if result.IsError {
			t.Fatalf("Tool returned error: %v", result.Content[0])
		}

		var got models.Todo
		if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if got.Title != "Implement dashboard charts" {
			t.Errorf("Unexpected title %q", got.Title)
		}

		result = callTool(t, s, "get_todo", map[string]interface{}{"id": 42.0})
		if !result.IsError {
			t.Error("Expected error for missing todo")
		}
	})

	t.Run("add_todo", func(t *testing.T) {
		result := callTool(t, s, "add_todo", map[string]interface{}{
			"title":    "Prepare release notes",
			"due_date": "2024-01-31",
		})
		if result.IsError {
			t.Fatalf("Tool returned error: %v", result.Content[0])
		}

		got, ok := todos.Get(9)
		if !ok {
			t.Fatal("Expected todo 9 to exist")
		}
		if got.Status != models.TodoStatusPending {
			t.Errorf("Expected pending, got %s", got.Status)
		}
		if got.DueDate == nil || got.DueDate.Format(time.DateOnly) != "2024-01-31" {
			t.Errorf("Unexpected due date %v", got.DueDate)
		}

		result = callTool(t, s, "add_todo", map[string]interface{}{"title": ""})
		if !result.IsError {
			t.Error("Expected error for empty title")
		}
		result = callTool(t, s, "add_todo", map[string]interface{}{"title": "x", "due_date": "soon"})
		if !result.IsError {
			t.Error("Expected error for bad due date")
		}
	})

	t.Run("set_todo_status", func(t *testing.T) {
		result := callTool(t, s, "set_todo_status", map[string]interface{}{"id": 7.0, "status": "completed"})
		if result.IsError {
			t.Fatalf("Tool returned error: %v", result.Content[0])
		}

		got, _ := todos.Get(7)
		if got.Status != models.TodoStatusCompleted {
			t.Errorf("Expected completed, got %s", got.Status)
		}
		if got.CompletedAt == nil || !got.CompletedAt.Equal(fixedNow) {
			t.Errorf("Expected completion at %v, got %v", fixedNow, got.CompletedAt)
		}

		result = callTool(t, s, "set_todo_status", map[string]interface{}{"id": 42.0, "status": "pending"})
		if !result.IsError {
			t.Error("Expected error for missing todo")
		}
	})

	t.Run("update_todo", func(t *testing.T) {
		result := callTool(t, s, "update_todo", map[string]interface{}{
			"id":       1.0,
			"title":    "Complete API documentation",
			"due_date": "",
		})
		if result.IsError {
			t.Fatalf("Tool returned error: %v", result.Content[0])
		}

		got, _ := todos.Get(1)
		if got.Title != "Complete API documentation" {
			t.Errorf("Unexpected title %q", got.Title)
		}
		if got.DueDate != nil {
			t.Errorf("Expected due date to be cleared, got %v", got.DueDate)
		}
	})

	t.Run("get_stats", func(t *testing.T) {
		result := callTool(t, s, "get_stats", map[string]interface{}{})
		if result.IsError {
			t.Fatalf("Tool returned error: %v", result.Content[0])
		}

		var resp struct {
			Total          int `json:"total"`
			Completed      int `json:"completed"`
			CompletionRate int `json:"completionRate"`
		}
		if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		// 9 todos after add_todo, 4 completed after set_todo_status.
		if resp.Total != 9 || resp.Completed != 4 {
			t.Errorf("Expected 4/9 completed, got %d/%d", resp.Completed, resp.Total)
		}
		if resp.CompletionRate != 44 {
			t.Errorf("Expected completion rate 44, got %d", resp.CompletionRate)
		}
	})

	t.Run("list_overdue", func(t *testing.T) {
		result := callTool(t, s, "list_overdue", map[string]interface{}{})
		if result.IsError {
			t.Fatalf("Tool returned error: %v", result.Content[0])
		}

		var resp struct {
			Todos []models.Todo `json:"todos"`
		}
		if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if len(resp.Todos) != 1 || resp.Todos[0].ID != 2 {
			t.Errorf("Expected only todo 2 overdue, got %+v", resp.Todos)
		}
	})

	t.Run("delete_todo", func(t *testing.T) {
		result := callTool(t, s, "delete_todo", map[string]interface{}{"id": 2.0})
		if result.IsError {
			t.Fatalf("Tool returned error: %v", result.Content[0])
		}
		if _, ok := todos.Get(2); ok {
			t.Error("Expected todo 2 to be deleted")
		}

		result = callTool(t, s, "delete_todo", map[string]interface{}{"id": 2.0})
		if !result.IsError {
			t.Error("Expected error deleting a missing todo")
		}
	})
}
