package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/werklab/wv/internal/schema"
)

// GenerateID returns a fresh 8-hex-character composition id that does
// not collide with an existing file.
func (s *Store) GenerateID() (string, error) {
	for attempt := 0; attempt < 100; attempt++ {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		id := hex.EncodeToString(buf)
		if !s.Exists(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a free composition id")
}

// Scaffold builds a new composition skeleton for interactive editing.
func Scaffold(id, composer, scheme, number string) *schema.Composition {
	entry := schema.AttributionEntry{
		Composer: composer,
		Status:   schema.StatusCertain,
	}
	if scheme != "" && number != "" {
		entry.Catalog = []schema.CatalogEntry{{Scheme: scheme, Number: number}}
	}
	return &schema.Composition{
		ID:          id,
		Title:       map[string]string{"en": ""},
		Form:        "",
		Attribution: []schema.AttributionEntry{entry},
	}
}

// Exists reports whether a composition file already exists for id.
func (s *Store) Exists(id string) bool {
	path, err := s.PathForID(id)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(path)
	return statErr == nil
}
