// internal/directory/directory.go
package directory

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"algolend-workers/internal/models"
)

// Tier classifies the trust level of an employer.
type Tier string

const (
	TierGovernment     Tier = "GOVERNMENT"
	TierListed         Tier = "LISTED"
	TierHighRiskManual Tier = "HIGH_RISK_MANUAL"
	TierNotFound       Tier = "NOT_FOUND"
)

// TrustPercent maps a tier onto its factor percentage.
func (t Tier) TrustPercent() float64 {
	switch t {
	case TierGovernment:
		return 100
	case TierListed:
		return 80
	case TierHighRiskManual:
		return 50
	default:
		return 0
	}
}

// Entry is one employer in the reference table.
type Entry struct {
	DisplayName string `json:"displayName"`
	Normalized  string `json:"normalized"`
	Tel         string `json:"tel,omitempty"`
	Email       string `json:"email,omitempty"`
	Website     string `json:"website,omitempty"`
}

// Match is the outcome of classifying an employer name.
type Match struct {
	Tier  Tier   `json:"tier"`
	Entry *Entry `json:"entry,omitempty"`
}

// Table is an immutable employer reference table. Once built it is only ever
// read; refreshes build a new table and swap the pointer.
type Table struct {
	entries []Entry
	index   map[string]*Entry
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns the loaded entries in file order.
func (t *Table) Entries() []Entry { return t.entries }

// minSubstringQuery is the shortest normalized query eligible for substring
// containment matching.
const minSubstringQuery = 3

// NormalizeName canonicalizes an employer name for lookup: trim, ampersand
// to AND, non-alphanumerics to spaces, collapse whitespace, uppercase.
// "Acme & Co." and "ACME AND CO" produce the same key.
func NormalizeName(value string) string {
	if value == "" {
		return ""
	}
	replaced := strings.ReplaceAll(strings.TrimSpace(value), "&", "AND")

	var b strings.Builder
	b.Grow(len(replaced))
	for _, r := range replaced {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.ToUpper(strings.Join(strings.Fields(b.String()), " "))
}

// ParseTable reads the semicolon-delimited employer table: one header line,
// then rows of name;tel;email;website. Rows with an empty or duplicate
// normalized name are silently skipped.
func ParseTable(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	sawHeader := false
	table := &Table{index: make(map[string]*Entry)}
	seen := make(map[string]struct{})

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !sawHeader {
			sawHeader = true
			continue
		}

		fields := strings.Split(line, ";")
		name := strings.TrimSpace(fields[0])
		normalized := NormalizeName(name)
		if name == "" || normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}

		entry := Entry{DisplayName: name, Normalized: normalized}
		if len(fields) > 1 {
			entry.Tel = strings.TrimSpace(fields[1])
		}
		if len(fields) > 2 {
			entry.Email = strings.TrimSpace(fields[2])
		}
		if len(fields) > 3 {
			entry.Website = strings.TrimSpace(fields[3])
		}

		table.entries = append(table.entries, entry)
		seen[normalized] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read employer table: %w", err)
	}
	if !sawHeader {
		return nil, fmt.Errorf("employer table missing header line")
	}
	if len(table.entries) == 0 {
		return nil, fmt.Errorf("no employer entries detected")
	}

	// Index after the slice settles so pointers stay valid.
	for i := range table.entries {
		table.index[table.entries[i].Normalized] = &table.entries[i]
	}

	return table, nil
}

// LoadTable reads and parses the employer table from disk. Loading is
// idempotent and side-effect-free so a startup failure can simply be
// retried.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open employer table: %w", err)
	}
	defer f.Close()
	return ParseTable(f)
}

// Matcher classifies employer names against the current table. Reads take no
// locks; Reload swaps in a freshly built table atomically so concurrent
// readers never observe a partial update.
type Matcher struct {
	table atomic.Pointer[Table]
}

// NewMatcher wraps an already-loaded table.
func NewMatcher(table *Table) *Matcher {
	m := &Matcher{}
	m.table.Store(table)
	return m
}

// Reload swaps in a new table.
func (m *Matcher) Reload(table *Table) {
	m.table.Store(table)
}

// Size reports the current table size.
func (m *Matcher) Size() int {
	return m.table.Load().Len()
}

// Classify maps a sector and free-text employer name onto a trust tier.
// Government employment with a named employer is trusted outright; private
// employers are matched against the listed-company table, first exactly,
// then by substring containment for queries of three or more characters.
func (m *Matcher) Classify(sector models.EmploymentSector, employerName string) Match {
	name := strings.TrimSpace(employerName)

	if sector == models.SectorGovernment {
		if name == "" {
			return Match{Tier: TierNotFound}
		}
		return Match{Tier: TierGovernment}
	}

	if name == "" {
		return Match{Tier: TierNotFound}
	}

	normalized := NormalizeName(name)
	if normalized == "" {
		return Match{Tier: TierHighRiskManual}
	}

	table := m.table.Load()
	if entry, ok := table.index[normalized]; ok {
		return Match{Tier: TierListed, Entry: entry}
	}

	if len(normalized) >= minSubstringQuery {
		for i := range table.entries {
			if strings.Contains(table.entries[i].Normalized, normalized) {
				return Match{Tier: TierListed, Entry: &table.entries[i]}
			}
		}
	}

	return Match{Tier: TierHighRiskManual}
}
