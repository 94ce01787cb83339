package persona

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/zhouzirui/mingginyu/backend/internal/model/chat"
)

// Store exposes persona retrieval for sessions and HTTP handlers.
type Store interface {
	List() []Persona
	Load(id string) (Persona, error)
}

const (
	promptExt = ".prompt"
	tomlExt   = ".toml"
)

// FileStore reads personas from a directory. "<id>.prompt" holds plain persona text,
// "<id>.toml" holds name/title/opening_line/prompt. Files are re-read on every Load.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// List returns the personas found in the directory, sorted by ID.
// Unreadable entries are logged and skipped.
func (s *FileStore) List() []Persona {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Printf("[persona] failed to read %s: %v", s.dir, err)
		return nil
	}

	seen := make(map[string]bool)
	items := make([]Persona, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != promptExt && ext != tomlExt {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)
		if seen[id] {
			continue
		}
		p, err := s.Load(id)
		if err != nil {
			log.Printf("[persona] skipping %s: %v", entry.Name(), err)
			continue
		}
		seen[id] = true
		items = append(items, p)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// Load reads the persona with the given id. A missing, unreadable or empty persona
// is a configuration error. When both files exist the .toml one wins.
func (s *FileStore) Load(id string) (Persona, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return Persona{}, fmt.Errorf("%w: invalid persona id %q", chat.ErrConfiguration, id)
	}

	p, err := s.loadTOML(id)
	if errors.Is(err, fs.ErrNotExist) {
		p, err = s.loadPrompt(id)
	}
	if err != nil {
		return Persona{}, err
	}

	p.Prompt = strings.TrimSpace(p.Prompt)
	if p.Prompt == "" {
		return Persona{}, fmt.Errorf("%w: persona %q has empty prompt", chat.ErrConfiguration, id)
	}
	if p.Name == "" {
		p.Name = id
	}
	p.ID = id
	return p, nil
}

func (s *FileStore) loadTOML(id string) (Persona, error) {
	path := filepath.Join(s.dir, id+tomlExt)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Persona{}, err
		}
		return Persona{}, fmt.Errorf("%w: read persona %s: %v", chat.ErrConfiguration, path, err)
	}

	var p Persona
	if _, err := toml.Decode(string(data), &p); err != nil {
		return Persona{}, fmt.Errorf("%w: parse persona %s: %v", chat.ErrConfiguration, path, err)
	}
	return p, nil
}

func (s *FileStore) loadPrompt(id string) (Persona, error) {
	path := filepath.Join(s.dir, id+promptExt)
	data, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, fmt.Errorf("%w: read persona %s: %v", chat.ErrConfiguration, path, err)
	}
	return Persona{Prompt: string(data)}, nil
}
