package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/khaleegram/earena/middleware"
	"github.com/khaleegram/earena/storage"
	"github.com/khaleegram/earena/utils"
)

// maxEvidenceBytes caps a single screenshot upload.
const maxEvidenceBytes = 10 << 20 // 10MB

type EvidenceHandler struct {
	uploader storage.FileUploader
}

func NewEvidenceHandler(uploader storage.FileUploader) *EvidenceHandler {
	return &EvidenceHandler{uploader: uploader}
}

// UploadHandler handles POST /matches/{matchID}/evidence. It accepts one
// multipart file field named "screenshot", stores it, and returns the key
// and fingerprint the captain then references in their report.
func (h *EvidenceHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.GetUserIDFromContext(r.Context()); err != nil {
		unauthorizedResponse(w, r, "authentication required to upload evidence")
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxEvidenceBytes)
	if err := r.ParseMultipartForm(maxEvidenceBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("screenshot")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing screenshot file field"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		badRequestResponse(w, r, fmt.Errorf("evidence must be an image, got %q", contentType))
		return
	}

	// The fingerprint pass and the upload both need the bytes; buffer once.
	var buf bytes.Buffer
	fingerprint, size, err := utils.EvidenceFingerprint(io.TeeReader(file, &buf))
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if size == 0 {
		badRequestResponse(w, r, errors.New("screenshot file is empty"))
		return
	}

	key := utils.EvidenceKey(matchID, filepath.Ext(header.Filename))
	result, err := h.uploader.Upload(r.Context(), key, contentType, &buf)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{
		"key":         result.Key,
		"url":         result.Location,
		"fingerprint": fingerprint,
		"size":        size,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
