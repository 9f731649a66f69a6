package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nick-dorsch/todoboard/internal/store"
	"github.com/nick-dorsch/todoboard/internal/todo"
	"github.com/nick-dorsch/todoboard/pkg/models"
)

type todoResponse struct {
	models.Todo
	Overdue bool `json:"overdue"`
}

func (s *Server) newTodoResponse(t models.Todo) todoResponse {
	return todoResponse{Todo: t, Overdue: s.todos.IsOverdue(t)}
}

func (s *Server) newTodoListResponse(todos []models.Todo) []todoResponse {
	response := make([]todoResponse, len(todos))
	for i, t := range todos {
		response[i] = s.newTodoResponse(t)
	}
	return response
}

type statsResponse struct {
	models.Stats
	CompletionRate int `json:"completionRate"`
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, statsResponse{
		Stats:          s.todos.Stats(),
		CompletionRate: s.todos.CompletionRate(),
	})
}

func (s *Server) handleOverdue(c *gin.Context) {
	c.JSON(http.StatusOK, s.newTodoListResponse(s.todos.Overdue()))
}

func (s *Server) handleListTodos(c *gin.Context) {
	raw := c.Query("status")
	if raw == "" {
		c.JSON(http.StatusOK, s.newTodoListResponse(s.todos.List()))
		return
	}

	status, err := models.ParseTodoStatus(raw)
	if err != nil {
		abort(c, newBadRequestError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, s.newTodoListResponse(s.todos.FilterByStatus(status)))
}

func (s *Server) handleGetTodo(c *gin.Context) {
	id, ok := s.todoID(c)
	if !ok {
		return
	}

	t, found := s.todos.Get(id)
	if !found {
		s.abortWithError(c, todo.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, s.newTodoResponse(t))
}

type createTodoRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   *time.Time `json:"createdDate"`
	DueDate     *time.Time `json:"dueDate"`
}

func (s *Server) handleCreateTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("failed to bind json", "err", err)
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	draft := models.Draft{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.CreatedAt != nil {
		draft.CreatedAt = *req.CreatedAt
	}
	if req.Status != "" {
		status, err := models.ParseTodoStatus(req.Status)
		if err != nil {
			abort(c, newBadRequestError(err.Error()))
			return
		}
		draft.Status = status
	}

	created := s.todos.AddTask(draft)
	c.JSON(http.StatusCreated, s.newTodoResponse(created))
}

type updateTodoRequest struct {
	Title        *string    `json:"title" binding:"omitempty,max=255"`
	Description  *string    `json:"description"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
}

func (s *Server) handleUpdateTodo(c *gin.Context) {
	id, ok := s.todoID(c)
	if !ok {
		return
	}

	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("failed to bind json", "err", err)
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	u := store.DetailsUpdate{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	}
	if err := s.todos.UpdateDetails(id, u); err != nil {
		s.abortWithError(c, err)
		return
	}

	t, _ := s.todos.Get(id)
	c.JSON(http.StatusOK, s.newTodoResponse(t))
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) handleSetTodoStatus(c *gin.Context) {
	id, ok := s.todoID(c)
	if !ok {
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}
	status, err := models.ParseTodoStatus(req.Status)
	if err != nil {
		abort(c, newBadRequestError(err.Error()))
		return
	}

	if err := s.todos.SetStatus(id, status); err != nil {
		s.abortWithError(c, err)
		return
	}

	t, _ := s.todos.Get(id)
	c.JSON(http.StatusOK, s.newTodoResponse(t))
}

func (s *Server) handleDeleteTodo(c *gin.Context) {
	id, ok := s.todoID(c)
	if !ok {
		return
	}

	if err := s.todos.RemoveTask(id); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abort(c, newBadRequestError(errInvalidTodoID.Error()))
		return 0, false
	}
	return id, true
}
