package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"catastro/commands"
	"catastro/sections"
)

// control exposes the local HTTP surface: health, run status, run start and a
// manual mirror of the executeSection command for operators without the
// companion control surface.
type control struct {
	app *App
}

func newRouter(app *App) *mux.Router {
	c := &control{app: app}
	r := mux.NewRouter()
	r.HandleFunc("/health", c.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/status", c.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/run", c.handleRun).Methods(http.MethodPost)
	r.HandleFunc("/section/{name}", c.handleSection).Methods(http.MethodPost)
	return r
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (c *control) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "formfiller",
	})
}

func (c *control) handleStatus(w http.ResponseWriter, r *http.Request) {
	idx, state, running := c.app.orch.Status()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":  c.app.runID,
		"section": idx,
		"state":   state.String(),
		"running": running,
	})
}

func (c *control) handleRun(w http.ResponseWriter, r *http.Request) {
	if err := c.app.StartRun(); err != nil {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"run_id":  c.app.runID,
	})
}

// handleSection mirrors the NATS executeSection command over HTTP.
func (c *control) handleSection(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var rows []sections.Row
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		writeJSON(w, http.StatusBadRequest, commands.Response{
			Success: false,
			Error:   fmt.Sprintf("filas ilegibles: %v", err),
		})
		return
	}
	resp := c.app.bus.Dispatch(r.Context(), commands.Command{
		Action:  commands.ActionExecuteSection,
		Section: name,
		Data:    rows,
	})
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}
