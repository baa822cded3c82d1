package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/brogergvhs/moviebox/internal/catalog"
	"github.com/brogergvhs/moviebox/internal/ui"
)

const healthMessage = "MovieBox API is running!"

type healthResponse struct {
	Success   bool             `json:"success"`
	Status    string           `json:"status"`
	Message   string           `json:"message"`
	Timestamp string           `json:"timestamp"`
	Stats     ui.StatsSnapshot `json:"stats"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Success:   true,
		Status:    "OK",
		Message:   healthMessage,
		Timestamp: s.opts.Now().UTC().Format(time.RFC3339Nano),
		Stats:     s.catalog.Stats(),
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeData(w, s.catalog.Home(r.Context()))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	res, err := s.catalog.Search(r.Context(), q.Get("q"), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, res)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	rec, err := s.catalog.Detail(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, rec)
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	b, err := s.catalog.Watch(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, b)
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeFailure(w, http.StatusNotFound, "Endpoint not found")
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeFailure(w, status, err.Error())
}

func statusFor(err error) int {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrFetchFailed), errors.Is(err, catalog.ErrEmptyExtraction):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
