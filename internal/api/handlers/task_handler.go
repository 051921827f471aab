package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/socialsync-api/internal/models"
	"github.com/isdelr/socialsync-api/internal/services"
)

const taskNotFound = "Task not found or not authorized"

// TaskHandler handles HTTP requests for the caller's tasks.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// GetAll lists the caller's tasks.
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListTasks(r.Context(), mustIdentity(r))
	if err != nil {
		respondServiceError(w, r, err, taskNotFound)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// Get returns one of the caller's tasks.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.GetTask(r.Context(), mustIdentity(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, taskNotFound)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// Create adds a task owned by the caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.TaskInput
	if !decodeJSON(w, r, &in) {
		return
	}

	task, err := h.service.CreateTask(r.Context(), mustIdentity(r), in)
	if err != nil {
		respondServiceError(w, r, err, taskNotFound)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Task created successfully",
		"task":    task,
	})
}

// Update applies a partial update to one of the caller's tasks.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.TaskInput
	if !decodeJSON(w, r, &in) {
		return
	}

	task, err := h.service.UpdateTask(r.Context(), mustIdentity(r), chi.URLParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, r, err, taskNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task updated successfully",
		"task":    task,
	})
}

// Delete removes one of the caller's tasks.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.DeleteTask(r.Context(), mustIdentity(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, taskNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task deleted successfully",
		"task":    task,
	})
}
