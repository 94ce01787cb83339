package persona

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestFileStoreLoadPrompt(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "baby_shark.prompt", "  너는 아기상어야.\n")

	p, err := NewFileStore(dir).Load("baby_shark")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if p.Prompt != "너는 아기상어야." {
		t.Fatalf("unexpected prompt %q", p.Prompt)
	}
	if p.Name != "baby_shark" || p.ID != "baby_shark" {
		t.Fatalf("unexpected identity %+v", p)
	}
}

func TestFileStoreLoadTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mingginyu.toml", `
name = "밍기뉴"
title = "너만의 친구"
opening_line = "안녕!"
prompt = """
너는 밍기뉴야. {중괄호}도 그대로 유지돼.
"""
`)

	p, err := NewFileStore(dir).Load("mingginyu")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if p.Name != "밍기뉴" || p.Title != "너만의 친구" || p.OpeningLine != "안녕!" {
		t.Fatalf("unexpected persona %+v", p)
	}
	if p.Prompt != "너는 밍기뉴야. {중괄호}도 그대로 유지돼." {
		t.Fatalf("unexpected prompt %q", p.Prompt)
	}
}

func TestFileStoreLoadIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prompt.prompt", "같은 페르소나")
	store := NewFileStore(dir)

	first, err := store.Load("prompt")
	if err != nil {
		t.Fatalf("first Load err: %v", err)
	}
	second, err := store.Load("prompt")
	if err != nil {
		t.Fatalf("second Load err: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical personas, got %+v and %+v", first, second)
	}
}

func TestFileStoreLoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.prompt", "   \n")
	writeFile(t, dir, "broken.toml", "name = ")
	store := NewFileStore(dir)

	for _, id := range []string{"missing", "empty", "broken", "../etc", ""} {
		if _, err := store.Load(id); !errors.Is(err, chat.ErrConfiguration) {
			t.Fatalf("Load(%q): expected configuration error, got %v", id, err)
		}
	}
}

func TestFileStoreList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one_zero.prompt", "원영")
	writeFile(t, dir, "baby_shark.prompt", "상어")
	writeFile(t, dir, "empty.prompt", "")
	writeFile(t, dir, "notes.txt", "ignored")

	items := NewFileStore(dir).List()
	if len(items) != 2 {
		t.Fatalf("expected 2 personas, got %d", len(items))
	}
	if items[0].ID != "baby_shark" || items[1].ID != "one_zero" {
		t.Fatalf("unexpected order: %s, %s", items[0].ID, items[1].ID)
	}
}
