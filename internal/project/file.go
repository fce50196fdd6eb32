// SPDX-License-Identifier: MIT

package project

import (
	"fmt"
	"os"

	"github.com/google/renameio/v2"
)

// Save encodes doc and writes it to path atomically: the temp file is
// fsynced and renamed into place so a crash never leaves a torn project.
func Save(path string, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending project file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write project data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace project file: %w", err)
	}
	return nil
}

// Load reads and decodes the container at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read project file: %w", err)
	}
	return Decode(data)
}
