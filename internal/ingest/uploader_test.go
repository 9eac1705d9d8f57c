package ingest

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"booructl/internal/booru"
	"booructl/internal/logging"
)

func writeMedia(t *testing.T, tags string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	if err := os.WriteFile(path, []byte("pixels"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	if tags != "" {
		if err := os.WriteFile(path+".txt", []byte(tags), 0o644); err != nil {
			t.Fatalf("write sidecar: %v", err)
		}
	}
	return path
}

func TestProcessCreatesNewPostWhenNoExactMatch(t *testing.T) {
	api := newFakeAPI()
	api.search = &booru.ReverseSearchResult{
		SimilarPosts: []booru.SimilarPost{
			{Distance: 0.8, Post: booru.Post{ID: 10}},
		},
	}
	uploader := NewUploader(api, logging.NewNop(), false)

	path := writeMedia(t, "tag one\n")
	postID, _, err := uploader.Process(context.Background(), path)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if postID != 100 {
		t.Fatalf("post id = %d, want created post", postID)
	}
	if len(api.created) != 1 {
		t.Fatalf("create calls = %d, want 1", len(api.created))
	}
	if len(api.updated) != 0 {
		t.Fatalf("update calls = %d, want 0", len(api.updated))
	}

	draft := api.created[0]
	if draft.ContentToken != "tok-1" {
		t.Fatalf("content token = %q, want tok-1", draft.ContentToken)
	}
	if !reflect.DeepEqual(draft.Tags, []string{"tag_one"}) {
		t.Fatalf("tags = %v", draft.Tags)
	}
	if !reflect.DeepEqual(draft.Relations, []booru.PostID{10}) {
		t.Fatalf("relations = %v, want similar match linked", draft.Relations)
	}
	if draft.Safety != booru.SafetyUnsafe {
		t.Fatalf("safety = %q, want unsafe default", draft.Safety)
	}
}

func TestProcessExactMatchUpdatesNeverCreates(t *testing.T) {
	version := int64(7)
	api := newFakeAPI()
	api.search = &booru.ReverseSearchResult{
		ExactPost: &booru.Post{
			ID:      42,
			Version: &version,
			Tags:    []booru.TagResource{{Names: []string{"a"}, Category: "default"}},
		},
	}
	uploader := NewUploader(api, logging.NewNop(), false)

	path := writeMedia(t, "b\n")
	postID, _, err := uploader.Process(context.Background(), path)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if postID != 42 {
		t.Fatalf("post id = %d, want 42", postID)
	}
	if len(api.created) != 0 {
		t.Fatal("create must not be called when an exact match exists")
	}
	payload, ok := api.updated[42]
	if !ok {
		t.Fatal("expected update call against post 42")
	}
	if !reflect.DeepEqual(payload.Tags, []string{"a", "b"}) {
		t.Fatalf("merged tags = %v, want union", payload.Tags)
	}
	if payload.Version == nil || *payload.Version != 7 {
		t.Fatalf("version = %v, want server version 7", payload.Version)
	}
}

func TestProcessReturnsCreatorAsArtist(t *testing.T) {
	api := newFakeAPI()
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	if err := os.WriteFile(path, []byte("pixels"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	descriptor := `{"category": "danbooru", "tags": ["art"], "username": "painter"}`
	if err := os.WriteFile(path+".json", []byte(descriptor), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}

	uploader := NewUploader(api, logging.NewNop(), false)
	_, artist, err := uploader.Process(context.Background(), path)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if artist != "painter" {
		t.Fatalf("artist = %q, want painter", artist)
	}
}

func TestProcessDeletesFileAndSidecarsOnSuccess(t *testing.T) {
	api := newFakeAPI()
	path := writeMedia(t, "tag\n")

	uploader := NewUploader(api, logging.NewNop(), true)
	if _, _, err := uploader.Process(context.Background(), path); err != nil {
		t.Fatalf("process: %v", err)
	}
	for _, p := range []string{path, path + ".txt"} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("expected %s deleted after success", p)
		}
	}
}

func TestProcessKeepsFileOnFailure(t *testing.T) {
	api := newFakeAPI()
	api.createErr = context.DeadlineExceeded
	path := writeMedia(t, "")

	uploader := NewUploader(api, logging.NewNop(), true)
	if _, _, err := uploader.Process(context.Background(), path); err == nil {
		t.Fatal("expected create failure")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file must survive a failed upload: %v", err)
	}
}

func TestProcessUploadsNamedFile(t *testing.T) {
	api := newFakeAPI()
	path := writeMedia(t, "")

	uploader := NewUploader(api, logging.NewNop(), false)
	if _, _, err := uploader.Process(context.Background(), path); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(api.uploads) != 1 || api.uploads[0] != "img.png" {
		t.Fatalf("uploads = %v, want single named upload", api.uploads)
	}
}
