// Package jsonfile persists the coursework Document as a single JSON file.
//
// The file is rewritten in full on every save, with no temp file or rename: a crash
// mid-write can leave it truncated. Load resets any empty or unparsable content to the
// empty template.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/classdrop/core"
	"github.com/trezcool/classdrop/core/coursework"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

var errNullDocument = errors.New("document is null")

type Store struct {
	path   string
	logger core.Logger
}

var _ coursework.DocumentStore = (*Store)(nil) // interface compliance check

func NewStore(path string, logger core.Logger) *Store {
	return &Store{path: path, logger: logger}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Load(ctx context.Context) (coursework.Document, error) {
	if err := ctx.Err(); err != nil {
		return coursework.Document{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.reset(ctx)
		}
		return coursework.Document{}, core.NewStorageError("reading document", s.path, err)
	}

	doc, err := Decode(data)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("document %s is unreadable, resetting it", s.path), err)
		return s.reset(ctx)
	}
	return doc, nil
}

func (s *Store) Save(ctx context.Context, doc coursework.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(doc)
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}
	if err = os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return core.NewStorageError("creating document dir", filepath.Dir(s.path), err)
	}
	if err = os.WriteFile(s.path, data, filePerm); err != nil {
		return core.NewStorageError("writing document", s.path, err)
	}
	return nil
}

// reset overwrites the stored document with the empty template.
func (s *Store) reset(ctx context.Context) (coursework.Document, error) {
	doc := coursework.NewDocument()
	if err := s.Save(ctx, doc); err != nil {
		return coursework.Document{}, err
	}
	return doc, nil
}

// Decode parses a stored document. Empty, null or malformed content is an error.
func Decode(data []byte) (coursework.Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return coursework.Document{}, errors.New("document is empty")
	}
	if bytes.Equal(data, []byte("null")) {
		return coursework.Document{}, errNullDocument
	}

	var doc coursework.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return coursework.Document{}, errors.Wrap(err, "decoding document")
	}
	doc.Normalize()
	return doc, nil
}

// Encode returns the canonical, human-readable serialization of doc.
func Encode(doc coursework.Document) ([]byte, error) {
	doc.Normalize()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
