package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func formFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("imagen", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	mr := multipart.NewReader(&buf, mw.Boundary())
	form, err := mr.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["imagen"][0]
}

func TestSave_NamesFileByUploadTimeAndExtension(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(dir, "http://localhost:3000/uploads/")
	fixed := time.UnixMilli(1712000000000)
	s.now = func() time.Time { return fixed }

	stored, err := s.Save(formFile(t, "photo.PNG", []byte("png bytes")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if stored.Name != "1712000000000.png" {
		t.Fatalf("name=%q want=%q", stored.Name, "1712000000000.png")
	}
	if stored.URL != "http://localhost:3000/uploads/1712000000000.png" {
		t.Fatalf("url=%q", stored.URL)
	}

	raw, err := os.ReadFile(filepath.Join(dir, stored.Name))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "png bytes" {
		t.Fatalf("content=%q", string(raw))
	}
}

func TestSave_SameMillisecondDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(dir, "http://x/uploads")
	fixed := time.UnixMilli(1712000000000)
	s.now = func() time.Time { return fixed }

	first, err := s.Save(formFile(t, "a.png", []byte("first")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := s.Save(formFile(t, "b.png", []byte("second")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if first.Name == second.Name {
		t.Fatalf("both uploads stored as %q", first.Name)
	}
	raw, err := os.ReadFile(filepath.Join(dir, first.Name))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "first" {
		t.Fatalf("first upload overwritten: %q", string(raw))
	}
}

func TestSave_Rejections(t *testing.T) {
	s := NewSaver(t.TempDir(), "http://x/uploads")

	if _, err := s.Save(nil); !errors.Is(err, ErrNoImage) {
		t.Fatalf("err=%v want ErrNoImage", err)
	}
	if _, err := s.Save(formFile(t, "doc.pdf", []byte("%PDF"))); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err=%v want ErrUnsupportedType", err)
	}
	if _, err := s.Save(formFile(t, "noext", []byte("x"))); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err=%v want ErrUnsupportedType", err)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(dir, "http://x/uploads")

	stored, err := s.Save(formFile(t, "a.png", []byte("x")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	s.Remove(stored.Name)
	if _, err := os.Stat(filepath.Join(dir, stored.Name)); !os.IsNotExist(err) {
		t.Fatalf("file still exists")
	}
}
