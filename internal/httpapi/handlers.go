package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ideamap/ideamap/pkg/document"
	"github.com/ideamap/ideamap/pkg/errors"
	"github.com/ideamap/ideamap/pkg/expand"
)

// Request body limits.
const (
	maxDocumentBytes = 8 << 20
	maxAssetBytes    = 16 << 20
)

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	sort.Strings(names)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"documents": names})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	doc, err := s.store.Load(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateMapName(name); err != nil {
		writeError(w, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	doc, err := document.Unmarshal(body)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse document"))
		return
	}
	// Reject documents the editor could never open.
	if _, _, err := document.ToScene(doc); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "validate document"))
		return
	}
	if err := s.store.Save(r.Context(), name, doc); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type expandRequest struct {
	Topic string `json:"topic"`
}

type expandResponse struct {
	Ideas []expand.Idea `json:"ideas"`
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	if s.expander == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no expansion backend configured"))
		return
	}
	var req expandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse request"))
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "topic must not be empty"))
		return
	}

	if !s.expanding.CompareAndSwap(false, true) {
		writeError(w, errors.New(errors.ErrCodeExpansionBusy, "an expansion is already running"))
		return
	}
	defer s.expanding.Store(false)

	ideas, err := s.expander.Expand(r.Context(), req.Topic)
	if err != nil {
		writeError(w, err)
		return
	}
	if ideas == nil {
		ideas = []expand.Idea{}
	}
	writeJSON(w, http.StatusOK, expandResponse{Ideas: ideas})
}

// assetExtensions maps upload content types to stored file extensions.
var assetExtensions = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/gif":     "gif",
	"image/svg+xml": "svg",
	"image/webp":    "webp",
}

func (s *Server) handleUploadAsset(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	ext, ok := assetExtensions[ct]
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", ct))
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAssetBytes))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	ref, err := s.assets.Save(data, ext)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	data, err := s.assets.Open(ref)
	if err != nil {
		writeError(w, err)
		return
	}
	ct := "application/octet-stream"
	if i := strings.LastIndex(ref, "."); i >= 0 {
		for typ, ext := range assetExtensions {
			if ext == ref[i+1:] {
				ct = typ
				break
			}
		}
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
