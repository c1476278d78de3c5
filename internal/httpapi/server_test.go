package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ideamap/ideamap/pkg/assets"
	"github.com/ideamap/ideamap/pkg/document"
	"github.com/ideamap/ideamap/pkg/expand"
	"github.com/ideamap/ideamap/pkg/store"
)

type fakeExpander struct {
	ideas   []expand.Idea
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeExpander) Expand(ctx context.Context, topic string) ([]expand.Idea, error) {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	return f.ideas, f.err
}

func newTestServer(t *testing.T, ex Expander) *Server {
	t.Helper()
	as, err := assets.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("assets.NewStore: %v", err)
	}
	logger := log.New(io.Discard)
	return New(store.NewMemoryStore(), as, ex, logger)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, w.Body.String())
	}
	return body.Error.Code
}

func TestGetDocumentNotFound(t *testing.T) {
	h := newTestServer(t, nil).Router()
	w := doJSON(t, h, http.MethodGet, "/api/documents/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if got := errorCode(t, w); got != "DOCUMENT_NOT_FOUND" {
		t.Errorf("code = %s, want DOCUMENT_NOT_FOUND", got)
	}
}

func TestPutThenGetDocument(t *testing.T) {
	h := newTestServer(t, nil).Router()
	doc := document.Default("roadmap")

	w := doJSON(t, h, http.MethodPut, "/api/documents/roadmap", doc)
	if w.Code != http.StatusNoContent {
		t.Fatalf("put status = %d, want 204: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodGet, "/api/documents/roadmap", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", w.Code)
	}
	var got document.Document
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Nodes) != 1 || got.Nodes[0].Title != "New idea" {
		t.Errorf("unexpected document content: %+v", got)
	}
}

func TestPutDocumentRejectsMalformedJSON(t *testing.T) {
	h := newTestServer(t, nil).Router()
	req := httptest.NewRequest(http.MethodPut, "/api/documents/bad", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := errorCode(t, w); got != "INVALID_DOCUMENT" {
		t.Errorf("code = %s, want INVALID_DOCUMENT", got)
	}
}

func TestPutDocumentRejectsDuplicateNodeIDs(t *testing.T) {
	h := newTestServer(t, nil).Router()
	doc := document.Default("dup")
	doc.Nodes = append(doc.Nodes, doc.Nodes[0])
	w := doJSON(t, h, http.MethodPut, "/api/documents/dup", doc)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestListDocumentsSorted(t *testing.T) {
	h := newTestServer(t, nil).Router()
	for _, name := range []string{"zebra", "alpha"} {
		if w := doJSON(t, h, http.MethodPut, "/api/documents/"+name, document.Default(name)); w.Code != http.StatusNoContent {
			t.Fatalf("put %s: %d", name, w.Code)
		}
	}
	w := doJSON(t, h, http.MethodGet, "/api/documents", nil)
	var body struct {
		Documents []string `json:"documents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Documents) != 2 || body.Documents[0] != "alpha" || body.Documents[1] != "zebra" {
		t.Errorf("documents = %v, want [alpha zebra]", body.Documents)
	}
}

func TestDeleteDocumentIsIdempotent(t *testing.T) {
	h := newTestServer(t, nil).Router()
	if w := doJSON(t, h, http.MethodDelete, "/api/documents/ghost", nil); w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
}

func TestExpandReturnsIdeas(t *testing.T) {
	ex := &fakeExpander{ideas: []expand.Idea{{Title: "A"}, {Title: "B"}}}
	h := newTestServer(t, ex).Router()
	w := doJSON(t, h, http.MethodPost, "/api/expand", expandRequest{Topic: "growth"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp expandResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Ideas) != 2 || resp.Ideas[0].Title != "A" {
		t.Errorf("ideas = %+v", resp.Ideas)
	}
}

func TestExpandEmptyTopicRejected(t *testing.T) {
	h := newTestServer(t, &fakeExpander{}).Router()
	w := doJSON(t, h, http.MethodPost, "/api/expand", expandRequest{Topic: "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestExpandWithoutBackendUnsupported(t *testing.T) {
	h := newTestServer(t, nil).Router()
	w := doJSON(t, h, http.MethodPost, "/api/expand", expandRequest{Topic: "x"})
	if w.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501", w.Code)
	}
}

func TestExpandIsSingleFlight(t *testing.T) {
	ex := &fakeExpander{
		ideas:   []expand.Idea{{Title: "A"}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	h := newTestServer(t, ex).Router()

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		done <- doJSON(t, h, http.MethodPost, "/api/expand", expandRequest{Topic: "slow"})
	}()
	<-ex.started

	// A second request while the first is in flight is rejected before
	// the expander is consulted, so it cannot block on the fake.
	w := doJSON(t, h, http.MethodPost, "/api/expand", expandRequest{Topic: "busy"})
	if w.Code != http.StatusConflict {
		t.Errorf("concurrent status = %d, want 409", w.Code)
	}
	if got := errorCode(t, w); got != "EXPANSION_BUSY" {
		t.Errorf("code = %s, want EXPANSION_BUSY", got)
	}

	close(ex.release)
	if first := <-done; first.Code != http.StatusOK {
		t.Errorf("first request status = %d, want 200", first.Code)
	}

	// The gate releases once the first request finishes.
	ex.started = nil
	if w := doJSON(t, h, http.MethodPost, "/api/expand", expandRequest{Topic: "again"}); w.Code != http.StatusOK {
		t.Errorf("followup status = %d, want 200", w.Code)
	}
}

func TestAssetUploadAndDownload(t *testing.T) {
	h := newTestServer(t, nil).Router()
	payload := []byte("\x89PNG fake image bytes")

	req := httptest.NewRequest(http.MethodPost, "/api/assets", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "image/png")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	ref := resp["ref"]
	if !strings.HasSuffix(ref, ".png") {
		t.Fatalf("ref = %q, want .png suffix", ref)
	}

	w = doJSON(t, h, http.MethodGet, "/api/assets/"+ref, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("download status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("content type = %s, want image/png", got)
	}
	if !bytes.Equal(w.Body.Bytes(), payload) {
		t.Error("downloaded bytes differ from upload")
	}
}

func TestAssetUploadUnsupportedType(t *testing.T) {
	h := newTestServer(t, nil).Router()
	req := httptest.NewRequest(http.MethodPost, "/api/assets", strings.NewReader("#!/bin/sh"))
	req.Header.Set("Content-Type", "application/x-sh")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAssetNotFound(t *testing.T) {
	h := newTestServer(t, nil).Router()
	w := doJSON(t, h, http.MethodGet, "/api/assets/sha256-0000.png", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
