package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nick-dorsch/todoboard/internal/store"
	"github.com/nick-dorsch/todoboard/internal/todo"
	"github.com/nick-dorsch/todoboard/pkg/models"
)

const (
	serverName    = "Todoboard"
	serverVersion = "0.1.0"
)

const statusHelp = "Status (pending|in_progress|completed)"

// NewServer creates a new MCP server exposing the todo service as tools.
func NewServer(todos *todo.Service) *server.MCPServer {
	s := server.NewMCPServer(serverName, serverVersion)

	s.AddTool(mcp.NewTool("list_todos",
		mcp.WithDescription("List todos in display order, optionally filtered by status."),
		mcp.WithString("status", mcp.Description("Filter by status")),
	), listTodosHandler(todos))

	s.AddTool(mcp.NewTool("get_todo",
		mcp.WithDescription("Get a single todo by id."),
		mcp.WithNumber("id", mcp.Description("Todo id"), mcp.Required()),
	), getTodoHandler(todos))

	s.AddTool(mcp.NewTool("add_todo",
		mcp.WithDescription("Add a todo. The id is assigned automatically."),
		mcp.WithString("title", mcp.Description("Todo title"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Todo description")),
		mcp.WithString("status", mcp.Description(statusHelp+", defaults to pending")),
		mcp.WithString("due_date", mcp.Description("Due date (YYYY-MM-DD or RFC 3339)")),
	), addTodoHandler(todos))

	s.AddTool(mcp.NewTool("set_todo_status",
		mcp.WithDescription("Change the status of a todo. Completing a todo records the completion time."),
		mcp.WithNumber("id", mcp.Description("Todo id"), mcp.Required()),
		mcp.WithString("status", mcp.Description(statusHelp), mcp.Required()),
	), setTodoStatusHandler(todos))

	s.AddTool(mcp.NewTool("update_todo",
		mcp.WithDescription("Update the title, description or due date of a todo."),
		mcp.WithNumber("id", mcp.Description("Todo id"), mcp.Required()),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("due_date", mcp.Description("New due date (YYYY-MM-DD or RFC 3339), empty string clears it")),
	), updateTodoHandler(todos))

	s.AddTool(mcp.NewTool("delete_todo",
		mcp.WithDescription("Delete a todo."),
		mcp.WithNumber("id", mcp.Description("Todo id"), mcp.Required()),
	), deleteTodoHandler(todos))

	s.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Get todo counts per status and the completion rate."),
	), getStatsHandler(todos))

	s.AddTool(mcp.NewTool("list_overdue",
		mcp.WithDescription("List todos that are past their due date and not completed."),
	), listOverdueHandler(todos))

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func listTodosHandler(todos *todo.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := mcp.ParseString(request, "status", "")

		list := todos.List()
		if raw != "" {
			status, err := models.ParseTodoStatus(raw)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			list = todos.FilterByStatus(status)
		}

		return jsonResult(map[string]interface{}{"todos": list})
	}
}

func getTodoHandler(todos *todo.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(mcp.ParseInt(request, "id", 0))

		t, ok := todos.Get(id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Todo with id %d not found", id)), nil
		}

		return jsonResult(t)
	}
}

func addTodoHandler(todos *todo.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		draft := models.Draft{
			Title:       mcp.ParseString(request, "title", ""),
			Description: mcp.ParseString(request, "description", ""),
		}
		if draft.Title == "" {
			return mcp.NewToolResultError("title is required"), nil
		}

		if raw := mcp.ParseString(request, "status", ""); raw != "" {
			status, err := models.ParseTodoStatus(raw)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			draft.Status = status
		}
		if raw := mcp.ParseString(request, "due_date", ""); raw != "" {
			due, err := parseDate(raw)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			draft.DueDate = &due
		}

		t := todos.AddTask(draft)
		return jsonResult(t)
	}
}

func setTodoStatusHandler(todos *todo.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(mcp.ParseInt(request, "id", 0))

		status, err := models.ParseTodoStatus(mcp.ParseString(request, "status", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := todos.SetStatus(id, status); err != nil {
			return notFoundOr(id, err), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Todo %d is now %s", id, status.Label())), nil
	}
}

func updateTodoHandler(todos *todo.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(mcp.ParseInt(request, "id", 0))

		var u store.DetailsUpdate
		args, _ := request.Params.Arguments.(map[string]any)
		if title, ok := args["title"].(string); ok {
			u.Title = &title
		}
		if description, ok := args["description"].(string); ok {
			u.Description = &description
		}
		if raw, ok := args["due_date"].(string); ok {
			if raw == "" {
				u.ClearDueDate = true
			} else {
				due, err := parseDate(raw)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				u.DueDate = &due
			}
		}

		if err := todos.UpdateDetails(id, u); err != nil {
			return notFoundOr(id, err), nil
		}

		return mcp.NewToolResultText("Todo updated successfully"), nil
	}
}

func deleteTodoHandler(todos *todo.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(mcp.ParseInt(request, "id", 0))

		if err := todos.RemoveTask(id); err != nil {
			return notFoundOr(id, err), nil
		}

		return mcp.NewToolResultText("Todo deleted successfully"), nil
	}
}

func getStatsHandler(todos *todo.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats := todos.Stats()
		return jsonResult(map[string]interface{}{
			"total":          stats.Total,
			"completed":      stats.Completed,
			"inProgress":     stats.InProgress,
			"pending":        stats.Pending,
			"completionRate": todo.CompletionRate(stats),
		})
	}
}

func listOverdueHandler(todos *todo.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(map[string]interface{}{"todos": todos.Overdue()})
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func notFoundOr(id int64, err error) *mcp.CallToolResult {
	if errors.Is(err, todo.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Todo with id %d not found", id))
	}
	return mcp.NewToolResultError(err.Error())
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}
