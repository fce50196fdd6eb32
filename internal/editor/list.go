// SPDX-License-Identifier: MIT

// Package editor holds the ordered channel list an orchestrator edits. It
// replaces direct table-cell manipulation with a thread-safe data model:
// rows carry stable identifiers so asynchronous probe completions can be
// correlated back to a row even after it has been reordered or edited.
package editor

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/YuQing-Ding/IPTV-Editor/internal/playlist"
	"github.com/YuQing-Ding/IPTV-Editor/internal/probe"
	"github.com/YuQing-Ding/IPTV-Editor/internal/project"
)

// Row is one channel entry plus its latest probe statuses.
type Row struct {
	ID      string            `json:"id"`
	Channel playlist.Channel  `json:"channel"`
	Stream  *probe.Result     `json:"stream,omitempty"`
	Logo    *probe.LogoResult `json:"logo,omitempty"`
}

// List is the ordered, mutable channel list. All methods are safe for
// concurrent use.
type List struct {
	mu    sync.RWMutex
	rows  []*Row
	dirty bool
}

func NewList() *List {
	return &List{}
}

// Rows returns a snapshot copy of all rows in display order.
func (l *List) Rows() []Row {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Row, len(l.rows))
	for i, r := range l.rows {
		out[i] = *r
	}
	return out
}

// Len returns the number of rows.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.rows)
}

// Get returns the row with the given ID.
func (l *List) Get(id string) (Row, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.indexOf(id); i >= 0 {
		return *l.rows[i], true
	}
	return Row{}, false
}

// Append adds one channel at the end and returns its row.
func (l *List) Append(ch playlist.Channel) Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	r := &Row{ID: uuid.NewString(), Channel: ch}
	l.rows = append(l.rows, r)
	l.dirty = true
	return *r
}

// Insert adds one channel at the given position; out-of-range indexes
// clamp to the list ends.
func (l *List) Insert(idx int, ch playlist.Channel) Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx < 0 {
		idx = 0
	}
	if idx > len(l.rows) {
		idx = len(l.rows)
	}
	r := &Row{ID: uuid.NewString(), Channel: ch}
	l.rows = append(l.rows, nil)
	copy(l.rows[idx+1:], l.rows[idx:])
	l.rows[idx] = r
	l.dirty = true
	return *r
}

// AppendAll adds channels at the end, preserving their order.
func (l *List) AppendAll(chs []playlist.Channel) []Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Row, 0, len(chs))
	for _, ch := range chs {
		r := &Row{ID: uuid.NewString(), Channel: ch}
		l.rows = append(l.rows, r)
		out = append(out, *r)
	}
	if len(chs) > 0 {
		l.dirty = true
	}
	return out
}

// Replace swaps the entire list for the given channels, discarding probe
// statuses and assigning fresh row IDs.
func (l *List) Replace(chs []playlist.Channel) []Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = l.rows[:0]
	out := make([]Row, 0, len(chs))
	for _, ch := range chs {
		r := &Row{ID: uuid.NewString(), Channel: ch}
		l.rows = append(l.rows, r)
		out = append(out, *r)
	}
	l.dirty = true
	return out
}

// Update overwrites the channel fields of the row with the given ID.
func (l *List) Update(id string, ch playlist.Channel) (Row, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return Row{}, false
	}
	l.rows[i].Channel = ch
	l.dirty = true
	return *l.rows[i], true
}

// Delete removes the rows with the given IDs and reports how many were
// removed.
func (l *List) Delete(ids []string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := l.rows[:0]
	removed := 0
	for _, r := range l.rows {
		if _, ok := drop[r.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	l.rows = kept
	if removed > 0 {
		l.dirty = true
	}
	return removed
}

// Move shifts the rows with the given IDs by delta positions (negative is
// up). Rows blocked at an edge stay put without pushing the rest out of
// order.
func (l *List) Move(ids []string, delta int) {
	if delta == 0 || len(ids) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	sel := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		sel[id] = struct{}{}
	}
	var idxs []int
	for i, r := range l.rows {
		if _, ok := sel[r.ID]; ok {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return
	}

	step := 1
	if delta < 0 {
		step = -1
		delta = -delta
	}
	for n := 0; n < delta; n++ {
		if step < 0 {
			limit := 0
			for k, i := range idxs {
				if i <= limit {
					limit = i + 1
					continue
				}
				l.rows[i], l.rows[i-1] = l.rows[i-1], l.rows[i]
				idxs[k] = i - 1
			}
		} else {
			limit := len(l.rows) - 1
			for k := len(idxs) - 1; k >= 0; k-- {
				i := idxs[k]
				if i >= limit {
					limit = i - 1
					continue
				}
				l.rows[i], l.rows[i+1] = l.rows[i+1], l.rows[i]
				idxs[k] = i + 1
			}
		}
	}
	l.dirty = true
}

// MoveToEdge moves the rows with the given IDs to the top or bottom,
// preserving their relative order.
func (l *List) MoveToEdge(ids []string, top bool) {
	if len(ids) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	sel := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		sel[id] = struct{}{}
	}
	var picked, rest []*Row
	for _, r := range l.rows {
		if _, ok := sel[r.ID]; ok {
			picked = append(picked, r)
		} else {
			rest = append(rest, r)
		}
	}
	if len(picked) == 0 {
		return
	}
	if top {
		l.rows = append(picked, rest...)
	} else {
		l.rows = append(rest, picked...)
	}
	l.dirty = true
}

// AutoName fills empty names from the URL with a 1-based positional
// ordinal and reports how many rows changed.
func (l *List) AutoName() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	changed := 0
	for i, r := range l.rows {
		if r.Channel.URL != "" && r.Channel.Name == "" {
			r.Channel.Name = playlist.GuessName(r.Channel.URL, i+1)
			changed++
		}
	}
	if changed > 0 {
		l.dirty = true
	}
	return changed
}

// Channels returns a snapshot of the channel values in display order.
func (l *List) Channels() []playlist.Channel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]playlist.Channel, len(l.rows))
	for i, r := range l.rows {
		out[i] = r.Channel
	}
	return out
}

// Document captures the list as a project document, carrying ui through
// untouched.
func (l *List) Document(ui json.RawMessage) project.Document {
	return project.Document{
		Ver:  project.CurrentVersion,
		Rows: l.Channels(),
		UI:   ui,
	}
}

// LoadDocument replaces the list with the rows of a loaded project and
// clears the dirty flag.
func (l *List) LoadDocument(doc project.Document) []Row {
	rows := l.Replace(doc.Rows)
	l.mu.Lock()
	l.dirty = false
	l.mu.Unlock()
	return rows
}

// ApplyStream records a stream probe completion on the row with the given
// ID. Completions for rows that no longer exist are dropped.
func (l *List) ApplyStream(id string, res probe.Result) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(id); i >= 0 {
		l.rows[i].Stream = &res
		return true
	}
	return false
}

// ApplyLogo records a logo probe completion on the row with the given ID.
func (l *List) ApplyLogo(id string, res probe.LogoResult) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(id); i >= 0 {
		l.rows[i].Logo = &res
		return true
	}
	return false
}

// Dirty reports whether the list changed since the last save/load.
func (l *List) Dirty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dirty
}

// MarkSaved clears the dirty flag.
func (l *List) MarkSaved() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dirty = false
}

func (l *List) indexOf(id string) int {
	for i, r := range l.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
