package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/mohitmdms-dev/ai-interviewer/internal/extract"
)

// maxResumeUpload bounds the accepted document size.
const maxResumeUpload = 10 << 20 // 10 MiB

type UploadResumeResponse struct {
	ResumeID string `json:"resume_id,omitempty"`
	HasText  bool   `json:"has_text"`
}

// uploadResume godoc
// @Summary  Upload a resume document
// @Tags     resume
// @Accept   multipart/form-data
// @Produce  json
// @Param    resume formData file true "Resume file (.docx or plain text)"
// @Success  200 {object} UploadResumeResponse
// @Router   /resume [post]
//
// POST /resume
//
// A document that yields no usable text is not an error: the response
// simply reports has_text=false so the client can ask for another file,
// mirroring how the extraction gate works at session start.
func (h *Handler) uploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxResumeUpload)
	if err := r.ParseMultipartForm(maxResumeUpload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	text, err := extract.Extract(header.Filename, data)
	if err != nil {
		if errors.Is(err, extract.ErrNoText) {
			respondJSON(w, http.StatusOK, UploadResumeResponse{HasText: false})
			return
		}
		h.logger.Error("resume extraction failed", "filename", header.Filename, "error", err)
		respondError(w, http.StatusInternalServerError, "extraction failed")
		return
	}

	id := h.interviews.RegisterResume(text)
	respondJSON(w, http.StatusOK, UploadResumeResponse{ResumeID: id, HasText: true})
}
