// Package pages keeps the wiki's page index. The reference server only needs
// to answer existence queries and accept writes from import jobs.
package pages

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

type Store struct {
	titles mapset.Set[string]
}

// NewStore seeds the index with the given titles. Matching is
// case-insensitive, titles keep their original spelling elsewhere.
func NewStore(seed ...string) *Store {
	s := &Store{titles: mapset.NewSet[string]()}
	for _, title := range seed {
		s.Add(title)
	}
	return s
}

func normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func (s *Store) Exists(title string) bool {
	return s.titles.Contains(normalize(title))
}

func (s *Store) Add(title string) {
	if t := normalize(title); t != "" {
		s.titles.Add(t)
	}
}

func (s *Store) Len() int {
	return s.titles.Cardinality()
}
