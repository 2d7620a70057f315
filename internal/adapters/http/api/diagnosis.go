package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/fitscore/internal/domain/model"
)

// DiagnosisHandler handles diagnosis requests.
type DiagnosisHandler struct {
	deps DiagnosisDependencies
}

// NewDiagnosisHandler creates a new diagnosis handler.
func NewDiagnosisHandler(deps DiagnosisDependencies) *DiagnosisHandler {
	return &DiagnosisHandler{deps: deps}
}

// HandlePostDiagnosis handles POST /diagnosis requests. The body is a raw
// measurement record; it is stored and diagnosed in one step.
func (h *DiagnosisHandler) HandlePostDiagnosis(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_diagnosis"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var rec model.Record
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Diagnose(r.Context(), rec)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleGetDiagnosis handles GET /diagnosis/{record_id} requests.
func (h *DiagnosisHandler) HandleGetDiagnosis(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_diagnosis"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/diagnosis/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.DiagnoseStored(r.Context(), id)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
