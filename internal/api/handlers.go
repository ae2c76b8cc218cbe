package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/yourusername/predictsports-engine/internal/models"
	"github.com/yourusername/predictsports-engine/internal/repository"
	"github.com/yourusername/predictsports-engine/internal/service"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("malformed request body")

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// RootResponse describes the running service
type RootResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// RecentResponse lists stored predictions
type RecentResponse struct {
	Success     bool                       `json:"success"`
	Count       int                        `json:"count"`
	Predictions []*models.PredictionRecord `json:"predictions"`
}

// RecordResponse wraps one stored prediction
type RecordResponse struct {
	Success    bool                     `json:"success"`
	Prediction *models.PredictionRecord `json:"prediction"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Service: s.cfg.ServiceName,
		Version: s.cfg.Version,
		Status:  "running",
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	input, err := decodeMatch(w, r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp, err := s.svc.Predict(r.Context(), input)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	input, err := decodeMatch(w, r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp, err := s.svc.Analyze(r.Context(), input)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	input, err := decodeMatch(w, r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp, err := s.svc.Features(r.Context(), input)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	records, err := s.svc.Recent(r.Context(), limit)
	s.writeRecords(w, r, records, err)
}

func (s *Server) handleByMatch(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	records, err := s.svc.ByMatch(r.Context(), mux.Vars(r)["match_id"], limit)
	s.writeRecords(w, r, records, err)
}

func (s *Server) writeRecords(w http.ResponseWriter, r *http.Request, records []*models.PredictionRecord, err error) {
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if records == nil {
		records = []*models.PredictionRecord{}
	}
	writeJSON(w, http.StatusOK, RecentResponse{Success: true, Count: len(records), Predictions: records})
}

// parseLimit reads ?limit=, defaulting to 20. It writes a 400 and returns false when invalid.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 20, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > repository.MaxRecentLimit {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be an integer between 1 and %d", repository.MaxRecentLimit))
		return 0, false
	}
	return limit, true
}

func (s *Server) handleGetPrediction(w http.ResponseWriter, r *http.Request) {
	record, err := s.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RecordResponse{Success: true, Prediction: record})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeMatch(w http.ResponseWriter, r *http.Request) (models.MatchInput, error) {
	var input models.MatchInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return input, fmt.Errorf("%w: empty body", errBadRequest)
		}
		return input, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return input, nil
}

// writeServiceError maps domain errors onto HTTP statuses
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, models.ErrInvalidID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInvalidMatch):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPersistenceDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.WithError(err).WithField("request_id", RequestID(r.Context())).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "prediction failed")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
