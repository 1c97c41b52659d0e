package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amonks/tasktree/todo"
)

func TestSeededCatalog(t *testing.T) {
	server, _ := newTestServer(t, ServerOptions{})

	w := doRequest(t, server.Handler(), http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	categories := decode[[]todo.Category](t, w)
	require.Len(t, categories, 3)
	assert.Equal(t, "Work", categories[0].Name)
	assert.Equal(t, "#3B82F6", categories[0].Color)

	w = doRequest(t, server.Handler(), http.MethodGet, "/api/tags", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]todo.Tag](t, w), 2)
}

func TestCategoryCRUD(t *testing.T) {
	server, _ := newTestServer(t, ServerOptions{})

	w := doRequest(t, server.Handler(), http.MethodPost, "/api/categories", map[string]any{"name": "Home", "color": "#000000"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	home := decode[todo.Category](t, w)

	w = doRequest(t, server.Handler(), http.MethodPost, "/api/categories", map[string]any{"name": "Home", "color": "#ffffff"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, server.Handler(), http.MethodPost, "/api/categories", map[string]any{"name": "NoColor"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, server.Handler(), http.MethodPatch, "/api/categories/"+home.ID, map[string]any{"color": "#111111"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[todo.Category](t, w)
	assert.Equal(t, "Home", updated.Name)
	assert.Equal(t, "#111111", updated.Color)

	w = doRequest(t, server.Handler(), http.MethodPatch, "/api/categories/"+home.ID, map[string]any{"name": "Work"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, server.Handler(), http.MethodGet, "/api/categories/"+home.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, server.Handler(), http.MethodDelete, "/api/categories/"+home.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, server.Handler(), http.MethodGet, "/api/categories/"+home.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCategoryCascadesOverAPI(t *testing.T) {
	server, _ := newTestServer(t, ServerOptions{})
	task := createTodo(t, server, map[string]any{"title": "x", "categoryId": "cat-1"})

	w := doRequest(t, server.Handler(), http.MethodDelete, "/api/categories/cat-1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, server.Handler(), http.MethodGet, "/api/todos/"+task.ID, nil)
	assert.Empty(t, decode[todo.Task](t, w).CategoryID)
}

func TestTagCRUD(t *testing.T) {
	server, _ := newTestServer(t, ServerOptions{})
	task := createTodo(t, server, map[string]any{"title": "x", "tags": []string{"tag-1", "tag-2"}})

	w := doRequest(t, server.Handler(), http.MethodPost, "/api/tags", map[string]any{"name": "Errand"})
	require.Equal(t, http.StatusCreated, w.Code)
	errand := decode[todo.Tag](t, w)

	w = doRequest(t, server.Handler(), http.MethodPost, "/api/tags", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, server.Handler(), http.MethodPatch, "/api/tags/"+errand.ID, map[string]any{"name": "Meeting"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, server.Handler(), http.MethodPatch, "/api/tags/"+errand.ID, map[string]any{"name": "Chore"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Chore", decode[todo.Tag](t, w).Name)

	w = doRequest(t, server.Handler(), http.MethodPatch, "/api/tags/"+errand.ID, map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Chore", decode[todo.Tag](t, w).Name)

	w = doRequest(t, server.Handler(), http.MethodDelete, "/api/tags/tag-1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, server.Handler(), http.MethodGet, "/api/todos/"+task.ID, nil)
	assert.Equal(t, []string{"tag-2"}, decode[todo.Task](t, w).Tags)

	w = doRequest(t, server.Handler(), http.MethodGet, "/api/tags/tag-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
