package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := s.Set(KeyToken, "tok-123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(KeyGradeLevel, "5eme"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok := reopened.Get(KeyToken); !ok || v != "tok-123" {
		t.Errorf("token = %q, %v; want tok-123, true", v, ok)
	}
	if v, ok := reopened.Get(KeyGradeLevel); !ok || v != "5eme" {
		t.Errorf("grade level = %q, %v; want 5eme, true", v, ok)
	}
}

func TestFileStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	s.Set(KeyToken, "tok")
	if err := s.Delete(KeyToken); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := s.Get(KeyToken); ok {
		t.Error("token still present after delete")
	}

	reopened, _ := NewFileStore(path)
	if _, ok := reopened.Get(KeyToken); ok {
		t.Error("delete not persisted")
	}
}

func TestFileStoreCorruptFileBehavesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, ok := s.Get(KeyToken); ok {
		t.Error("corrupt store returned a value")
	}
	if err := s.Set(KeyToken, "tok"); err != nil {
		t.Fatalf("Set after corrupt load: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	if _, ok := s.Get("missing"); ok {
		t.Error("empty store returned a value")
	}
	s.Set("k", "v")
	if v, ok := s.Get("k"); !ok || v != "v" {
		t.Errorf("Get = %q, %v; want v, true", v, ok)
	}
	s.Delete("k")
	if _, ok := s.Get("k"); ok {
		t.Error("value survived delete")
	}
}
