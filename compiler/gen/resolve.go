package gen

import (
	"strings"

	"github.com/esassoc/SqlCodeGen/schema"
)

// matchRank orders the heuristic patterns. A higher rank wins regardless
// of name length.
type matchRank int

const (
	noMatch     matchRank = iota
	prefixMatch           // candidate starts with the table name and is longer
	aliasMatch            // table name ends with the candidate
	suffixMatch           // candidate ends with the table name
	exactMatch
)

// rank reports how candidate matches table. Both must be lower-cased.
func rank(candidate, table string) matchRank {
	switch {
	case candidate == table:
		return exactMatch
	case strings.HasSuffix(candidate, table):
		return suffixMatch
	case strings.HasSuffix(table, candidate):
		return aliasMatch
	case strings.HasPrefix(candidate, table) && len(candidate) > len(table):
		return prefixMatch
	default:
		return noMatch
	}
}

// Resolution is the lookup table a reference column resolves to.
type Resolution struct {
	// Property is the column name with the reference suffix removed.
	Property string
	// Table is the resolved lookup table as declared.
	Table string
	// Explicit is set when a foreign-key clause named the table.
	Explicit bool
}

// Resolver maps reference columns to lookup tables. It holds read-only
// name sets and is safe for concurrent use once built.
type Resolver struct {
	suffix  string
	lookups []string          // declared names
	lower   []string          // lookups, lower-cased
	known   map[string]string // every table, keyed lower-cased
}

// NewResolver returns a resolver over the given lookup table names and the
// names of all tables, lookup tables included. Both sets must be complete
// before any column is resolved.
func NewResolver(lookups, tables []string, suffix string) *Resolver {
	r := &Resolver{
		suffix: suffix,
		known:  make(map[string]string, len(tables)+len(lookups)),
	}
	for _, t := range tables {
		r.known[strings.ToLower(t)] = t
	}
	for _, l := range lookups {
		key := strings.ToLower(l)
		r.known[key] = l
		r.lookups = append(r.lookups, l)
		r.lower = append(r.lower, key)
	}
	return r
}

// PropertyName strips the reference suffix from column. It reports false
// when column does not end with the suffix or is the suffix alone.
func (r *Resolver) PropertyName(column string) (string, bool) {
	if len(column) <= len(r.suffix) || !strings.EqualFold(column[len(column)-len(r.suffix):], r.suffix) {
		return "", false
	}
	return column[:len(column)-len(r.suffix)], true
}

// Match returns the lookup table a property name refers to. Of all lookup
// tables matching any pattern the best pattern wins, then the longest
// name, then the ordinally smaller name.
func (r *Resolver) Match(property string) (string, bool) {
	candidate := strings.ToLower(property)
	best, bestRank := -1, noMatch
	for i, table := range r.lower {
		rk := rank(candidate, table)
		if rk == noMatch {
			continue
		}
		if best < 0 || better(rk, table, bestRank, r.lower[best]) {
			best, bestRank = i, rk
		}
	}
	if best < 0 {
		return "", false
	}
	return r.lookups[best], true
}

func better(rk matchRank, name string, bestRank matchRank, bestName string) bool {
	if rk != bestRank {
		return rk > bestRank
	}
	if len(name) != len(bestName) {
		return len(name) > len(bestName)
	}
	return name < bestName
}

// Resolve decides which lookup table c references. Primary key columns
// and columns without the reference suffix never resolve.
//
// An explicit foreign-key clause naming a lookup table wins. Otherwise the
// property name is matched heuristically. Either way the result is
// discarded when the property name differs from the resolved table and
// equals the name of another known table.
func (r *Resolver) Resolve(c schema.Column) (Resolution, bool) {
	if c.PrimaryKey {
		return Resolution{}, false
	}
	property, ok := r.PropertyName(c.Name)
	if !ok {
		return Resolution{}, false
	}
	res := Resolution{Property: property}
	if c.References != "" && r.isLookup(c.References) {
		res.Table, res.Explicit = r.known[strings.ToLower(c.References)], true
	} else if res.Table, ok = r.Match(property); !ok {
		return Resolution{}, false
	}
	if !strings.EqualFold(property, res.Table) {
		if _, collides := r.known[strings.ToLower(property)]; collides {
			return Resolution{}, false
		}
	}
	return res, true
}

func (r *Resolver) isLookup(name string) bool {
	name = strings.ToLower(name)
	for _, l := range r.lower {
		if l == name {
			return true
		}
	}
	return false
}
