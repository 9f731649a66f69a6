package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/nick-dorsch/todoboard/internal/todo"
)

const readHeaderTimeout = 10 * time.Second

type Server struct {
	todos  *todo.Service
	logger *log.Logger
	engine *gin.Engine
	server *http.Server
}

func NewServer(todos *todo.Service, logger *log.Logger) *Server {
	s := &Server{todos: todos, logger: logger}
	s.engine = s.routes()
	s.server = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger)

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := router.Group("/api")
	api.GET("/stats", s.handleStats)
	api.GET("/overdue", s.handleOverdue)

	todos := api.Group("/todos")
	todos.GET("", s.handleListTodos)
	todos.POST("", s.handleCreateTodo)
	todos.GET("/:id", s.handleGetTodo)
	todos.PATCH("/:id", s.handleUpdateTodo)
	todos.PUT("/:id/status", s.handleSetTodoStatus)
	todos.DELETE("/:id", s.handleDeleteTodo)

	return router
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Shutdown is called. It returns http.ErrServerClosed
// after a graceful shutdown, including one that happened before Start.
func (s *Server) Start(addr string) error {
	s.server.Addr = addr
	s.logger.Info("setting up http server", "addr", addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLogger(c *gin.Context) {
	c.Next()
	s.logger.Debug("handled request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
	)
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	var apiErr apiError
	switch {
	case errors.As(err, &apiErr):
	case errors.Is(err, todo.ErrNotFound):
		apiErr = newNotFoundError(err.Error())
	default:
		s.logger.Error("request failed", "err", err)
		apiErr = newStatusTextError(http.StatusInternalServerError)
	}
	abort(c, apiErr)
}
