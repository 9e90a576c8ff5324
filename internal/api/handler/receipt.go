package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tabsplit/tabsplit/internal/api/apierr"
	"github.com/tabsplit/tabsplit/internal/api/request"
	"github.com/tabsplit/tabsplit/internal/api/response"
	"github.com/tabsplit/tabsplit/internal/dependencies/clock"
	"github.com/tabsplit/tabsplit/internal/files"
	"github.com/tabsplit/tabsplit/internal/model"
	"github.com/tabsplit/tabsplit/internal/ocr"
	"github.com/tabsplit/tabsplit/internal/services/session"
)

// Receipt uploads are capped well above typical phone-camera sizes
const maxUploadBytes = 10 << 20

const defaultCleanupAge = 24 * time.Hour

var extensionForMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// ReceiptHandler handles receipt image upload, retrieval, deletion and
// cleanup. Upload chains the external collaborators: file store, OCR
// provider, then item extraction onto the session.
type ReceiptHandler struct {
	sessions   *session.Controller
	fileStore  files.Store
	recognizer ocr.Recognizer
	clock      clock.Clock
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(
	sessions *session.Controller,
	fileStore files.Store,
	recognizer ocr.Recognizer,
	clk clock.Clock,
) *ReceiptHandler {
	return &ReceiptHandler{
		sessions:   sessions,
		fileStore:  fileStore,
		recognizer: recognizer,
		clock:      clk,
	}
}

// Upload handles POST /api/v1/sessions/{id}/receipt
func (h *ReceiptHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	// Reject sessions that cannot accept items before touching the file
	if _, err := h.sessions.GetSession(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, apierr.NewInvalidRequestError("Expected multipart form with a receipt file"))
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		WriteError(w, apierr.NewInvalidRequestError("Missing receipt file field"))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, apierr.NewInvalidRequestError("Could not read receipt file"))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	ext, ok := extensionForMIME[mimeType]
	if !ok {
		WriteError(w, apierr.NewInvalidRequestError(fmt.Sprintf("Unsupported receipt image type %q", mimeType)))
		return
	}

	filename, err := h.fileStore.Save(string(id)+ext, data)
	if err != nil {
		WriteError(w, err)
		return
	}

	if _, err := h.sessions.SetReceiptFile(r.Context(), id, filename); err != nil {
		WriteError(w, err)
		return
	}

	rawText, err := h.recognizer.Recognize(r.Context(), data, mimeType)
	if err != nil {
		// The image is stored; only recognition failed
		WriteError(w, fmt.Errorf("recognizing receipt: %w", err))
		return
	}

	s, err := h.sessions.ExtractItems(r.Context(), id, rawText)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// Get handles GET /api/v1/sessions/{id}/receipt
func (h *ReceiptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	s, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if s.ReceiptFile == "" {
		WriteError(w, model.ErrReceiptNotFound)
		return
	}

	data, err := h.fileStore.Get(s.ReceiptFile)
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Delete handles DELETE /api/v1/sessions/{id}/receipt
func (h *ReceiptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	s, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if s.ReceiptFile == "" {
		WriteError(w, model.ErrReceiptNotFound)
		return
	}

	if err := h.fileStore.Delete(s.ReceiptFile); err != nil {
		WriteError(w, err)
		return
	}
	if _, err := h.sessions.SetReceiptFile(r.Context(), id, ""); err != nil {
		WriteError(w, err)
		return
	}
	response.Message(w, http.StatusOK, "Receipt deleted")
}

// Cleanup handles POST /api/v1/admin/cleanup
func (h *ReceiptHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req request.CleanupRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, err)
			return
		}
	}

	age := defaultCleanupAge
	if req.MaxAgeHours > 0 {
		age = time.Duration(req.MaxAgeHours) * time.Hour
	}

	removed, err := h.fileStore.CleanupOlderThan(h.clock.Now().Add(-age))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.CleanupResult{Removed: removed})
}
