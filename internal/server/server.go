// Package server exposes the rebrander over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yuanying/docx-rebrand/internal/rebrand"
)

// GenerateRequest is the body for POST /api/generate-document.
// FileContent and Logo are base64, optionally with a data URI header.
type GenerateRequest struct {
	FileContent         string `json:"fileContent"`
	FileName            string `json:"fileName"`
	CompanyName         string `json:"companyName"`
	Logo                string `json:"logo"`
	HeaderText          string `json:"headerText"`
	FooterCenterText    string `json:"footerCenterText"`
	FooterRightText     string `json:"footerRightText"`
	OriginalCompanyName string `json:"originalCompanyName"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Service serves rebranding requests.
type Service struct {
	rebrander *rebrand.Rebrander
	maxBody   int64
	logger    *slog.Logger
}

// New creates a Service. maxBody limits request bodies in bytes.
func New(r *rebrand.Rebrander, maxBody int64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{rebrander: r, maxBody: maxBody, logger: logger}
}

// Router returns a chi router with all routes mounted.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	s.RegisterHTTP(r)
	return r
}

// RegisterHTTP mounts the service routes on r.
func (s *Service) RegisterHTTP(r chi.Router) {
	r.Post("/api/generate-document", s.handleGenerate)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

// handleGenerate rebrands an uploaded document.
// POST /api/generate-document
func (s *Service) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large.", "")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body.", err.Error())
		return
	}

	if req.FileContent == "" {
		writeError(w, http.StatusBadRequest, "No file content provided. Please re-upload the policy document.", "")
		return
	}
	if req.CompanyName == "" {
		writeError(w, http.StatusBadRequest, "Company name is required.", "")
		return
	}

	document, err := rebrand.DecodePayload(req.FileContent)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file content. Please re-upload.", err.Error())
		return
	}

	var logo []byte
	if req.Logo != "" {
		logo, err = rebrand.DecodePayload(req.Logo)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid logo content.", err.Error())
			return
		}
	}

	res, err := s.rebrander.Rebrand(rebrand.Request{
		Document:         document,
		FileName:         req.FileName,
		TargetBrand:      req.CompanyName,
		OriginalBrand:    req.OriginalCompanyName,
		Logo:             logo,
		HeaderText:       req.HeaderText,
		FooterCenterText: req.FooterCenterText,
		FooterRightText:  req.FooterRightText,
	})
	if err != nil {
		s.writeRebrandError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	if len(res.Warnings) > 0 {
		w.Header().Set("X-Rebrand-Warnings", strconv.Itoa(len(res.Warnings)))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

func (s *Service) writeRebrandError(w http.ResponseWriter, r *http.Request, err error) {
	switch rebrand.KindOf(err) {
	case rebrand.MissingInput:
		writeError(w, http.StatusBadRequest, err.Error(), "")
	case rebrand.InvalidFormat:
		writeError(w, http.StatusBadRequest,
			"Invalid file format. The file does not appear to be a valid DOCX document. Please re-upload.", err.Error())
	default:
		s.logger.Error("Failed to generate document",
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate document", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg, Details: details})
}
