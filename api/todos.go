package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amonks/tasktree/todo"
)

type createTodoRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	StartDate   todo.Date `json:"startDate"`
	DueDate     todo.Date `json:"dueDate"`
	CategoryID  string    `json:"categoryId"`
	Tags        []string  `json:"tags"`
	ParentID    string    `json:"parentId"`
	Completed   bool      `json:"completed"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Todo API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListTodos(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	sortMode := c.Query("sort")
	if sortMode != "" && sortMode != "display" {
		badRequest(c, fmt.Errorf("invalid sort %q (valid: display)", sortMode))
		return
	}

	tasks, err := s.store.ListTasks(filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if sortMode == "display" {
		tasks = todo.SortForDisplay(tasks)
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleGetTodo(c *gin.Context) {
	task, err := s.store.GetTask(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleCreateTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	priority, err := todo.ParsePriority(req.Priority)
	if err != nil {
		badRequest(c, err)
		return
	}

	task, err := s.store.CreateTask(todo.CreateOptions{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		ParentID:    req.ParentID,
		Completed:   req.Completed,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleUpdateTodo(c *gin.Context) {
	var fields map[string]json.RawMessage
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c, err)
		return
	}
	opts, err := updateOptionsFromPatch(fields)
	if err != nil {
		badRequest(c, err)
		return
	}

	task, err := s.store.UpdateTask(c.Param("id"), opts)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleToggleTodo(c *gin.Context) {
	task, err := s.store.ToggleTask(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTodo(c *gin.Context) {
	if _, err := s.store.DeleteTask(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleTree(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	forest, err := s.store.Tree(filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, forest)
}

func (s *Server) handleTimeline(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	padding, err := paddingFromQuery(c, s.paddingDays)
	if err != nil {
		badRequest(c, err)
		return
	}

	timeline, ok, err := s.store.Timeline(filter, todo.TimelineOptions{PaddingDays: padding})
	if err != nil {
		s.writeError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"empty": true})
		return
	}
	c.JSON(http.StatusOK, timeline)
}
