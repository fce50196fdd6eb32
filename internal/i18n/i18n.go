// SPDX-License-Identifier: MIT

// Package i18n localizes user-facing messages. Language packs are plain
// JSON files embedded at build time; unknown keys fall back to the key
// itself so a missing translation never breaks a response.
package i18n

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLang is used until a preference is loaded or set.
const DefaultLang = "zh_CN"

// preferredOrder pins the well-known languages to the front of LangList.
var preferredOrder = []string{"zh_CN", "zh_TW", "en", "ja"}

// Pack is one loaded language pack.
type Pack struct {
	Code    string
	Name    string
	Strings map[string]string
}

// Manager resolves translation keys against the loaded packs. It is safe
// for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	packs    map[string]Pack
	current  string
	prefPath string
}

// New loads the embedded packs. prefPath, when non-empty, names a file
// holding the persisted language code; it is read immediately and written
// on every SetLanguage.
func New(prefPath string) (*Manager, error) {
	packs, err := loadPacks()
	if err != nil {
		return nil, err
	}
	m := &Manager{
		packs:    packs,
		current:  DefaultLang,
		prefPath: prefPath,
	}
	m.loadPref()
	return m, nil
}

func loadPacks() (map[string]Pack, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	packs := make(map[string]Pack, len(entries))
	for _, e := range entries {
		code := strings.TrimSuffix(e.Name(), ".json")
		raw, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, err
		}
		var data map[string]json.RawMessage
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		p := Pack{Code: code, Name: code, Strings: make(map[string]string, len(data))}
		for k, v := range data {
			if k == "_meta" {
				var meta struct {
					Name string `json:"name"`
				}
				if json.Unmarshal(v, &meta) == nil && meta.Name != "" {
					p.Name = meta.Name
				}
				continue
			}
			if strings.HasPrefix(k, "_") {
				continue
			}
			var s string
			if json.Unmarshal(v, &s) == nil {
				p.Strings[k] = s
			}
		}
		packs[code] = p
	}
	return packs, nil
}

// Tr translates a key in the current language, falling back to the
// default language and finally to the key itself.
func (m *Manager) Tr(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.packs[m.current]; ok {
		if s, ok := p.Strings[key]; ok {
			return s
		}
	}
	if p, ok := m.packs[DefaultLang]; ok {
		if s, ok := p.Strings[key]; ok {
			return s
		}
	}
	return key
}

// Current returns the active language code.
func (m *Manager) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SetLanguage switches the active language and persists the choice.
// Unknown codes are rejected.
func (m *Manager) SetLanguage(code string) bool {
	m.mu.Lock()
	if _, ok := m.packs[code]; !ok {
		m.mu.Unlock()
		return false
	}
	m.current = code
	prefPath := m.prefPath
	m.mu.Unlock()
	if prefPath != "" {
		// best effort, a read-only volume must not break switching
		_ = os.MkdirAll(filepath.Dir(prefPath), 0o755)
		_ = os.WriteFile(prefPath, []byte(code), 0o644)
	}
	return true
}

// LangList returns available languages as (code, display name) pairs,
// preferred languages first, the rest sorted by code.
func (m *Manager) LangList() [][2]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool, len(m.packs))
	var ordered []string
	for _, code := range preferredOrder {
		if _, ok := m.packs[code]; ok {
			ordered = append(ordered, code)
			seen[code] = true
		}
	}
	var rest []string
	for code := range m.packs {
		if !seen[code] {
			rest = append(rest, code)
		}
	}
	sort.Strings(rest)
	ordered = append(ordered, rest...)

	out := make([][2]string, 0, len(ordered))
	for _, code := range ordered {
		out = append(out, [2]string{code, m.packs[code].Name})
	}
	return out
}

func (m *Manager) loadPref() {
	if m.prefPath == "" {
		return
	}
	raw, err := os.ReadFile(m.prefPath)
	if err != nil {
		return
	}
	code := strings.TrimSpace(string(raw))
	if _, ok := m.packs[code]; ok {
		m.current = code
	}
}
