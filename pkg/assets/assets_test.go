package assets

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ideamap/ideamap/pkg/errors"
)

func TestSaveAndOpen(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	data := []byte("fake png bytes")
	ref, err := s.Save(data, "png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(ref, "sha256-") || !strings.HasSuffix(ref, ".png") {
		t.Errorf("ref = %q, want sha256-*.png", ref)
	}

	got, err := s.Open(ref)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("Open returned different bytes than saved")
	}
}

func TestSaveIsContentAddressed(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	data := []byte("same content")
	ref1, err := s.Save(data, "png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	ref2, err := s.Save(data, "png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ref1 != ref2 {
		t.Errorf("refs differ for identical content: %q vs %q", ref1, ref2)
	}

	ref3, err := s.Save([]byte("other content"), "png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ref3 == ref1 {
		t.Error("different content produced the same ref")
	}
}

func TestSaveEmptyRejected(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := s.Save(nil, "png"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestOpenMissingAsset(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := s.Open("sha256-00000000000000000000000000000000.png"); !errors.Is(err, errors.ErrCodeAssetNotFound) {
		t.Errorf("err = %v, want ASSET_NOT_FOUND", err)
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for _, ref := range []string{"../etc/passwd", "a/b.png", ""} {
		if _, err := s.Path(ref); err == nil {
			t.Errorf("Path(%q) = nil error, want rejection", ref)
		}
	}
}

func TestURLPointsAtStoredFile(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ref, err := s.Save([]byte("img"), "jpg")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	u, err := s.URL(ref)
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if !strings.HasPrefix(u, "file://") || !strings.HasSuffix(u, ref) {
		t.Errorf("URL = %q, want file://...%s", u, ref)
	}
}

func TestDeleteAndList(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ref, err := s.Save([]byte("img"), "png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	refs, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(refs) != 1 || refs[0] != ref {
		t.Errorf("List = %v, want [%s]", refs, ref)
	}

	if err := s.Delete(ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ref); err != nil {
		t.Errorf("second Delete = %v, want nil", err)
	}
	refs, err = s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("List after delete = %v, want empty", refs)
	}
}

func TestRename(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ref, err := s.Save([]byte("img"), "png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	newRef, err := s.Rename(ref, "logo.png")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if newRef != "logo.png" {
		t.Errorf("newRef = %q, want logo.png", newRef)
	}
	if _, err := s.Open(ref); !errors.Is(err, errors.ErrCodeAssetNotFound) {
		t.Errorf("old ref should be gone, err = %v", err)
	}
	data, err := s.Open(newRef)
	if err != nil {
		t.Fatalf("Open renamed: %v", err)
	}
	if string(data) != "img" {
		t.Errorf("content = %q, want img", data)
	}
}

func TestRenameMissingAsset(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Rename("sha256-absent.png", "x.png"); !errors.Is(err, errors.ErrCodeAssetNotFound) {
		t.Fatalf("err = %v, want ASSET_NOT_FOUND", err)
	}
}

func TestRenameRejectsTraversal(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ref, err := s.Save([]byte("img"), "png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Rename(ref, "../escape.png"); err == nil {
		t.Fatal("expected traversal name to be rejected")
	}
}
