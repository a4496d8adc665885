// Package memory is an in-memory coursework.DocumentStore, for tests and demos.
package memory

import (
	"context"
	"sync"

	"github.com/trezcool/classdrop/core/coursework"
)

type Store struct {
	sync.RWMutex
	doc   *coursework.Document
	saves int
}

var _ coursework.DocumentStore = (*Store)(nil) // interface compliance check

// NewStore returns a store holding doc, or nothing (as a missing file would) when doc is not given.
func NewStore(doc ...coursework.Document) *Store {
	s := new(Store)
	if len(doc) > 0 {
		d := doc[0].Clone()
		s.doc = &d
	}
	return s
}

func (s *Store) Load(ctx context.Context) (coursework.Document, error) {
	if err := ctx.Err(); err != nil {
		return coursework.Document{}, err
	}

	s.Lock()
	defer s.Unlock()

	if s.doc == nil {
		d := coursework.NewDocument()
		s.doc = &d
		s.saves++
	}
	return s.doc.Clone(), nil
}

func (s *Store) Save(ctx context.Context, doc coursework.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	d := doc.Clone()
	s.doc = &d
	s.saves++
	return nil
}

// Saves returns how many times the document was written.
func (s *Store) Saves() int {
	s.RLock()
	defer s.RUnlock()
	return s.saves
}
