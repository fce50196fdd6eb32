// SPDX-License-Identifier: MIT

// Package project persists an edited channel list in the .iptvpj container
// format: a two-line text file whose first line is a magic token and whose
// second line is base64 of zlib-compressed JSON. The magic guards against
// silently misreading foreign files.
package project

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/zlib"

	"github.com/YuQing-Ding/IPTV-Editor/internal/playlist"
)

const (
	// Magic is the first line of every container file.
	Magic = "IPTVPJ1"
	// Ext is the conventional file extension.
	Ext = ".iptvpj"
	// CurrentVersion is the format version stamped on newly saved documents.
	CurrentVersion = 1
)

// Container load failures, distinguishable via errors.Is.
var (
	ErrBadMagic       = errors.New("not an IPTV project file")
	ErrMissingPayload = errors.New("project payload missing")
	ErrCorrupt        = errors.New("project payload corrupt")
)

// Document is the persisted project state. UI is opaque auxiliary data
// (column widths and the like) that is round-tripped but never interpreted
// here.
type Document struct {
	Ver     int                `json:"ver"`
	Created int64              `json:"created"`
	Rows    []playlist.Channel `json:"rows"`
	UI      json.RawMessage    `json:"ui,omitempty"`
}

// Encode serialises doc into container bytes. Created is regenerated at
// every encode; Ver is preserved, defaulting to CurrentVersion when unset.
func Encode(doc Document) ([]byte, error) {
	if doc.Ver == 0 {
		doc.Ver = CurrentVersion
	}
	doc.Created = time.Now().Unix()

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal project payload: %w", err)
	}

	var packed bytes.Buffer
	zw, err := zlib.NewWriterLevel(&packed, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("init compressor: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("compress project payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress project payload: %w", err)
	}

	var out bytes.Buffer
	out.WriteString(Magic)
	out.WriteByte('\n')
	out.WriteString(base64.StdEncoding.EncodeToString(packed.Bytes()))
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Decode parses container bytes into a Document. Failures carry one of
// ErrBadMagic, ErrMissingPayload or ErrCorrupt.
func Decode(data []byte) (Document, error) {
	lines := strings.Split(string(data), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != Magic {
		return Document{}, fmt.Errorf("%w: bad first line", ErrBadMagic)
	}
	if len(lines) < 2 || strings.TrimSpace(lines[1]) == "" {
		return Document{}, ErrMissingPayload
	}

	packed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(lines[1]))
	if err != nil {
		return Document{}, fmt.Errorf("%w: base64: %v", ErrCorrupt, err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(packed))
	if err != nil {
		return Document{}, fmt.Errorf("%w: zlib: %v", ErrCorrupt, err)
	}
	defer func() { _ = zr.Close() }()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return Document{}, fmt.Errorf("%w: zlib: %v", ErrCorrupt, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: json: %v", ErrCorrupt, err)
	}
	return doc, nil
}
