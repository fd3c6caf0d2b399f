// Package dataset reads the dashboard dataset file from disk.
//
// The dataset is an opaque JSON document maintained out-of-band by whatever
// process writes the file. The reader treats it as a blob to decode and hand
// back; it never caches, so callers always observe the file as it is on disk.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Document is the parsed dataset: an arbitrary JSON object/array/scalar tree.
type Document = any

// Info describes the dataset file without parsing it.
type Info struct {
	SizeBytes int64
	ModTime   time.Time
}

// Reader reads and decodes the dataset file on every call.
type Reader struct {
	path string
}

// New constructs a Reader with default configuration.
func New(opts ...Option) *Reader {
	r := &Reader{
		path: "data/ros_dashboard_data.json",
	}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Path returns the configured dataset file path.
func (r *Reader) Path() string {
	return r.path
}

// Read opens the dataset file, decodes it as JSON, and returns the document.
// The file handle is released on every exit path. Numbers are decoded as
// json.Number so re-encoding reproduces the original literals.
func (r *Reader) Read(_ context.Context) (Document, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, r.path)
		}
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer func() { _ = f.Close() }()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	// A valid dataset holds exactly one top-level value; trailing
	// non-whitespace content is a malformed file.
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing content after JSON document", ErrMalformed)
	}

	return doc, nil
}

// Stat reports the dataset file size and modification time without parsing.
func (r *Reader) Stat(_ context.Context) (Info, error) {
	fi, err := os.Stat(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Info{}, fmt.Errorf("%w: %s", ErrNotFound, r.path)
		}
		return Info{}, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return Info{SizeBytes: fi.Size(), ModTime: fi.ModTime()}, nil
}
