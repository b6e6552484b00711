// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

// Package snapshot stores the camera frames attached to ingested events.
//
// A snapshot arrives as standard base64. Store decodes it, sniffs the image
// type from the decoded bytes with gabriel-vasile/mimetype, and writes it to
// <static_root>/<dir>/<type>_<YYYYMMDDHHMMSS><ext>. The returned path is
// relative to the static root and slash separated, ready to be served under
// /static/.
//
// Files are written to a temporary name and renamed into place, so a path
// returned by Save always names a complete file. Two snapshots for the same
// event type in the same second share a name; the later one wins.
package snapshot

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/tomtom215/insight/internal/config"
	"github.com/tomtom215/insight/internal/models"
)

const (
	fileTimeLayout   = "20060102150405"
	defaultExtension = ".jpg"
)

// ErrNoSnapshot is returned by Save for an empty payload.
var ErrNoSnapshot = errors.New("no snapshot payload")

// DecodeError reports a payload that is not valid standard base64.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("snapshot is not valid base64: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Store writes decoded snapshots below a static root.
type Store struct {
	root string // static root on disk
	dir  string // slash separated, relative to root
}

// NewStore creates the snapshot directory if needed.
func NewStore(cfg config.SnapshotConfig) (*Store, error) {
	s := &Store{
		root: cfg.StaticRoot,
		dir:  path.Clean(filepath.ToSlash(cfg.Dir)),
	}
	if err := os.MkdirAll(s.absDir(), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return s, nil
}

// Root returns the static root directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) absDir() string {
	return filepath.Join(s.root, filepath.FromSlash(s.dir))
}

// Save decodes payload and writes it as the snapshot for an event of the
// given type received at at. It returns the stored path relative to the
// static root.
//
// Errors: ErrNoSnapshot for an empty payload, *DecodeError for bad base64,
// or a wrapped filesystem error. Nothing is written on error.
func (s *Store) Save(payload string, eventType models.EventType, at time.Time) (string, error) {
	if payload == "" {
		return "", ErrNoSnapshot
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", &DecodeError{Err: err}
	}

	name := FileName(eventType, at, extensionFor(data))
	if err := s.writeAtomic(name, data); err != nil {
		return "", err
	}
	return path.Join(s.dir, name), nil
}

// FileName builds the on-disk name for a snapshot.
func FileName(eventType models.EventType, at time.Time, ext string) string {
	return eventType.Code() + "_" + at.Format(fileTimeLayout) + ext
}

// extensionFor picks a file extension from the image bytes. Anything that is
// not recognisably an image keeps the historical .jpg extension.
func extensionFor(data []byte) string {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") || mt.Extension() == "" {
		return defaultExtension
	}
	return mt.Extension()
}

func (s *Store) writeAtomic(name string, data []byte) error {
	dir := s.absDir()
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close snapshot file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // snapshots are served publicly
		cleanup()
		return fmt.Errorf("chmod snapshot file: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		cleanup()
		return fmt.Errorf("rename snapshot file: %w", err)
	}
	return nil
}
