package main

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// taskIDFromRequest parses the {id} path segment. A non-numeric id can never
// name a task, so it reports the same not-found as a missing record.
func taskIDFromRequest(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (app *application) getTasksHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	tasks, err := app.storage.getTasks(u.ID)
	if err != nil {
		app.logger.Error().Err(err).Msg("unable to list tasks")
		writeError(w, errInternalServer, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"count": len(tasks),
	})
}

func (app *application) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkTitle(input.Title)
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusBadRequest)
		return
	}

	t := &task{
		UserID:      u.ID,
		Title:       input.Title,
		Description: input.Description,
	}
	err = app.storage.insertTask(t)
	if err != nil {
		app.logger.Error().Err(err).Msg("unable to insert task")
		writeError(w, errInternalServer, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Task created successfully",
		"task":    t,
	})
}

func (app *application) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	id, ok := taskIDFromRequest(r)
	if !ok {
		writeError(w, errTaskNotFound, http.StatusNotFound)
		return
	}
	t, err := app.storage.getTask(u.ID, id)
	if err != nil {
		app.logger.Error().Err(err).Msg("unable to get task")
		writeError(w, errInternalServer, http.StatusInternalServerError)
		return
	}
	if t == nil {
		writeError(w, errTaskNotFound, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (app *application) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	id, ok := taskIDFromRequest(r)
	if !ok {
		writeError(w, errTaskNotFound, http.StatusNotFound)
		return
	}
	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if input.Title != nil {
		v := newValidator()
		v.checkTitle(*input.Title)
		if v.hasErrors() {
			writeError(w, v.toError(), http.StatusBadRequest)
			return
		}
	}

	t, err := app.storage.updateTask(u.ID, id, input.Title, input.Description, input.Completed)
	if err != nil {
		app.logger.Error().Err(err).Msg("unable to update task")
		writeError(w, errInternalServer, http.StatusInternalServerError)
		return
	}
	if t == nil {
		writeError(w, errTaskNotFound, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task updated successfully",
		"task":    t,
	})
}

func (app *application) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	id, ok := taskIDFromRequest(r)
	if !ok {
		writeError(w, errTaskNotFound, http.StatusNotFound)
		return
	}
	deleted, err := app.storage.deleteTask(u.ID, id)
	if err != nil {
		app.logger.Error().Err(err).Msg("unable to delete task")
		writeError(w, errInternalServer, http.StatusInternalServerError)
		return
	}
	if !deleted {
		writeError(w, errTaskNotFound, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Task deleted successfully",
	})
}
