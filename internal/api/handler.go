package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/wgomg/oratoria/internal/analysis"
	"github.com/wgomg/oratoria/internal/config"
	"github.com/wgomg/oratoria/internal/utils"
	"github.com/wgomg/oratoria/internal/utils/httputils"
)

const (
	maxRevisionBytes = 1 << 20
	maxAudioBytes    = 25 << 20
)

type Handler struct {
	logger      *utils.Logger
	analyzer    Analyzer
	transcriber Transcriber
	cfg         *config.Config
}

func NewHandler(
	logger *utils.Logger,
	analyzer Analyzer,
	transcriber Transcriber,
	cfg *config.Config,
) *Handler {
	return &Handler{
		logger:      logger,
		analyzer:    analyzer,
		transcriber: transcriber,
		cfg:         cfg,
	}
}

func (h *Handler) HandleRevision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := httputils.RequestID(ctx)

	if err := httputils.ValidateMethod(r, http.MethodPost); err != nil {
		h.logger.Error(&reqID, "Method validation error: %v", err)
		httputils.HandleError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRevisionBytes)
	bodyBytes, err := httputils.LogRequestBody(r, h.logger, reqID)
	if err != nil {
		h.logger.Error(&reqID, "Failed to read request body: %v", err)
		httputils.HandleError(w, err)
		return
	}

	text, err := decodeTranscript(bodyBytes)
	if err != nil {
		h.logger.Error(&reqID, "Invalid revision payload: %v", err)
		httputils.HandleError(w, err)
		return
	}

	h.logger.Info(&reqID, "Received transcript: words=%d, preview=%q",
		utils.CountWords(text), utils.Preview(text, 60))

	if h.cfg.App.ResponseMode == config.ResponseEcho {
		if err := httputils.JSONResponse(w, http.StatusOK, TextResponse{Text: text}); err != nil {
			h.logger.Error(&reqID, "Error sending response: %v", err)
		}
		return
	}

	result, err := h.analyzer.Analyze(ctx, text, reqID)
	if err != nil {
		h.logger.Error(&reqID, "Analysis failed: %v", err)
		if errors.Is(err, analysis.ErrEmptyTranscript) {
			err = httputils.BadRequest("Transcript text is required")
		}
		httputils.HandleError(w, err)
		return
	}

	if len(result.StageErrors) > 0 {
		h.logger.Info(&reqID, "Returning partial analysis, failed stages: %v", result.StageErrors)
	}

	if err := httputils.JSONResponse(w, http.StatusOK, result); err != nil {
		h.logger.Error(&reqID, "Error sending response: %v", err)
	}
}

func (h *Handler) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := httputils.RequestID(ctx)

	if err := httputils.ValidateMethod(r, http.MethodPost); err != nil {
		h.logger.Error(&reqID, "Method validation error: %v", err)
		httputils.HandleError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	file, header, err := r.FormFile("audio")
	if err != nil {
		h.logger.Error(&reqID, "Missing audio file: %v", err)
		httputils.HandleError(w, httputils.BadRequest("No audio file provided"))
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil || len(audio) == 0 {
		h.logger.Error(&reqID, "Unreadable audio file %q: %v", header.Filename, err)
		httputils.HandleError(w, httputils.BadRequest("No audio file provided"))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.logger.Info(&reqID, "Transcribing %q: %d bytes, %s", header.Filename, len(audio), contentType)

	text, err := h.transcriber.Transcribe(ctx, audio, contentType)
	if err != nil {
		h.logger.Error(&reqID, "Transcription failed: %v", err)
		httputils.JSONError(w, http.StatusInternalServerError, "Transcription failed")
		return
	}

	if err := httputils.JSONResponse(w, http.StatusOK, TextResponse{Text: text}); err != nil {
		h.logger.Error(&reqID, "Error sending response: %v", err)
	}
}

// decodeTranscript accepts a bare JSON string or {"text": "..."}. Any other
// shape, or blank text, is a 400.
func decodeTranscript(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", httputils.BadRequest("Request body is empty")
	}

	var text string
	switch trimmed[0] {
	case '"':
		if err := httputils.DecodeJSON(trimmed, &text); err != nil {
			return "", err
		}
	case '{':
		var payload RevisionPayload
		if err := httputils.DecodeJSON(trimmed, &payload); err != nil {
			return "", err
		}
		if payload.Text == nil {
			return "", httputils.BadRequest("Missing text field")
		}
		text = *payload.Text
	default:
		return "", httputils.BadRequest("Request body must be a JSON string or an object with a text field")
	}

	if strings.TrimSpace(text) == "" {
		return "", httputils.BadRequest("Transcript text is required")
	}

	return text, nil
}
