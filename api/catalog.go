package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amonks/tasktree/todo"
)

type createCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type createTagRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListCategories(c *gin.Context) {
	categories, err := s.store.ListCategories()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) handleGetCategory(c *gin.Context) {
	category, err := s.store.GetCategory(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := s.store.CreateCategory(req.Name, req.Color)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (s *Server) handleUpdateCategory(c *gin.Context) {
	var req categoryPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := s.store.UpdateCategory(c.Param("id"), todo.CategoryUpdate{Name: req.Name, Color: req.Color})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	if _, _, err := s.store.DeleteCategory(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListTags(c *gin.Context) {
	tags, err := s.store.ListTags()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (s *Server) handleGetTag(c *gin.Context) {
	tag, err := s.store.GetTag(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (s *Server) handleCreateTag(c *gin.Context) {
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tag, err := s.store.CreateTag(req.Name)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (s *Server) handleUpdateTag(c *gin.Context) {
	var req tagPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Name == nil {
		tag, err := s.store.GetTag(c.Param("id"))
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, tag)
		return
	}
	tag, err := s.store.RenameTag(c.Param("id"), *req.Name)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (s *Server) handleDeleteTag(c *gin.Context) {
	if _, _, err := s.store.DeleteTag(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
