package gen

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/esassoc/SqlCodeGen/schema"
)

// SortOrderColumn is the seed column holding the display order of a row.
const SortOrderColumn = "SortOrder"

// packageIdents are declared by the shared package file.
var packageIdents = []string{"Tables", "ptr"}

// Graph holds the types of one generation pass. It is built in two
// phases: every table and seed is bound first, then reference columns are
// resolved against the complete set of lookup tables.
type Graph struct {
	*Config
	// Types are sorted by name, ignoring case.
	Types []*Type
	// Diagnostics hold the tables, seeds and rows left out of generation.
	Diagnostics []error
	types       map[string]*Type
	// excluded tables still exist in the database and guard navigation names.
	excluded []string
	resolver *Resolver
	// idents holds the package-level Go identifiers already declared.
	idents map[string]struct{}
}

// NewGraph joins tables and seeds by table name, ignoring case, and
// resolves navigations. Problems with single tables, seeds or rows are
// recorded in Diagnostics; the returned error is only set for an unusable
// configuration.
func NewGraph(c *Config, tables []*schema.Table, seeds []*schema.LookupTableData) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "missing configuration")
	}
	if c.IDSuffix == "" {
		return nil, NewConfigError("IDSuffix", nil, "suffix cannot be empty")
	}
	g := &Graph{
		Config: c,
		types:  make(map[string]*Type, len(tables)),
	}
	for _, t := range tables {
		if t == nil {
			continue
		}
		if c.Excluded(t.Name) {
			g.excluded = append(g.excluded, t.Name)
			continue
		}
		key := strings.ToLower(t.Name)
		if prev, ok := g.types[key]; ok {
			g.diag(NewSchemaError(t.QualifiedName(), "", "duplicate table definition, keeping "+prev.Table.QualifiedName(), nil))
			continue
		}
		typ, err := NewType(c, t)
		if err != nil {
			g.diag(err)
			continue
		}
		g.types[key] = typ
		g.Types = append(g.Types, typ)
	}
	for _, d := range seeds {
		if d == nil || c.Excluded(d.TableName) {
			continue
		}
		typ, ok := g.types[strings.ToLower(d.TableName)]
		switch {
		case !ok:
			g.diag(NewSchemaError(d.Schema+"."+d.TableName, "", "seed data for an unknown table", nil))
		case typ.Seed != nil:
			g.diag(NewSchemaError(d.Schema+"."+d.TableName, "", "duplicate seed data", nil))
		default:
			typ.Seed = d
			g.bind(typ)
		}
	}
	slices.SortStableFunc(g.Types, func(a, b *Type) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	g.resolve()
	g.declare()
	return g, nil
}

func (g *Graph) diag(err error) {
	g.Diagnostics = append(g.Diagnostics, err)
}

// Type returns the type of the named table, ignoring case.
func (g *Graph) Type(table string) (*Type, bool) {
	t, ok := g.types[strings.ToLower(table)]
	return t, ok
}

// Lookups returns the lookup types in name order.
func (g *Graph) Lookups() []*Type {
	var lookups []*Type
	for _, t := range g.Types {
		if t.IsLookup() {
			lookups = append(lookups, t)
		}
	}
	return lookups
}

// Resolver returns the resolver built over the graph tables.
func (g *Graph) Resolver() *Resolver { return g.resolver }

// bind converts the seed rows of t. Misaligned rows and rows without an
// integer key are rejected one by one.
func (g *Graph) bind(t *Type) {
	name := t.Table.QualifiedName()
	if !t.ID.IsInteger() {
		g.diag(NewValidationError(name, 0, t.ID.Type, "lookup primary key "+t.ID.Name+" is not an integer"))
		return
	}
	d := t.Seed
	key := d.ColumnIndex(t.ID.Name)
	if key < 0 {
		g.diag(NewValidationError(name, 0, nil, "seed data omits primary key "+t.ID.Name))
		return
	}
	cols := make([]int, len(t.Fields))
	for i, f := range t.Fields {
		cols[i] = d.ColumnIndex(f.Name)
	}
	nameCol := g.nameColumn(t)
	displayCol := d.ColumnIndex(t.Table.Name + "DisplayName")
	if displayCol < 0 {
		displayCol = nameCol
	}
	sortCol := d.ColumnIndex(SortOrderColumn)

	var (
		symbols = make(map[string]struct{}, len(d.Rows))
		values  = make(map[int]struct{}, len(d.Rows))
	)
	for i, r := range d.Rows {
		n := i + 1
		if r.Len() != len(d.ColumnNames) {
			g.diag(NewValidationError(name, n, r.Len(), fmt.Sprintf("row has %d values for %d columns", r.Len(), len(d.ColumnNames))))
			continue
		}
		value, ok := r.Int(key)
		if !ok {
			g.diag(NewValidationError(name, n, r.Values[key], "primary key is not an integer"))
			continue
		}
		if _, dup := values[value]; dup {
			g.diag(NewValidationError(name, n, value, "duplicate primary key"))
			continue
		}
		values[value] = struct{}{}

		row := &Row{Value: value, SortOrder: n, Cells: make([]Cell, len(t.Fields))}
		if nameCol >= 0 && !r.IsNull(nameCol) {
			row.Name = r.Values[nameCol]
			row.Symbol = SymbolName(row.Name)
		} else {
			row.Symbol = SymbolName("Value" + strconv.Itoa(value))
			row.Name = row.Symbol
		}
		if _, dup := symbols[row.Symbol]; dup {
			row.Symbol = SymbolName(row.Symbol + strconv.Itoa(value))
		}
		row.Symbol = unique(row.Symbol, symbols)
		row.DisplayName = row.Name
		if displayCol >= 0 && !r.IsNull(displayCol) {
			row.DisplayName = r.Values[displayCol]
		}
		if sortCol >= 0 {
			if s, ok := r.Int(sortCol); ok {
				row.SortOrder = s
			}
		}
		for j, c := range cols {
			if c < 0 {
				row.Cells[j] = Cell{Null: true}
				continue
			}
			row.Cells[j] = Cell{Raw: r.Values[c], Null: r.IsNull(c)}
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		g.diag(NewValidationError(name, 0, nil, "no usable seed rows, generating a plain table"))
	}
}

// nameColumn returns the seed column naming the rows: {Table}Name, else
// the first text column other than the key, else -1.
func (g *Graph) nameColumn(t *Type) int {
	d := t.Seed
	if i := d.ColumnIndex(t.Table.Name + "Name"); i >= 0 {
		return i
	}
	for i, c := range d.ColumnNames {
		if f, ok := t.Field(c); ok && f != t.ID && f.IsString() {
			return i
		}
	}
	return -1
}

// resolve runs once every type is bound.
func (g *Graph) resolve() {
	var lookups []string
	tables := slices.Clone(g.excluded)
	for _, t := range g.Types {
		tables = append(tables, t.Table.Name)
		if t.IsLookup() {
			lookups = append(lookups, t.Table.Name)
		}
	}
	g.resolver = NewResolver(lookups, tables, g.IDSuffix)
	for _, t := range g.Types {
		for _, f := range t.Fields {
			if f == t.ID || !f.IsInteger() {
				continue
			}
			res, ok := g.resolver.Resolve(f.Column)
			if !ok {
				continue
			}
			target, ok := g.Type(res.Table)
			if !ok {
				continue
			}
			t.Navigations = append(t.Navigations, &Navigation{
				Field:    f,
				Name:     unique(exported(res.Property), t.names),
				Target:   target,
				Explicit: res.Explicit,
			})
		}
	}
}

// declare assigns the package-level Go identifiers of every type. Type
// names are claimed first, then the names derived from a type, then row
// variables, enum constants and length constants. A taken name gets the
// smallest free numeric suffix and a diagnostic.
func (g *Graph) declare() {
	g.idents = make(map[string]struct{})
	for _, id := range packageIdents {
		g.idents[id] = struct{}{}
	}
	for _, t := range g.Types {
		t.Name = g.claim(t, "", t.Name)
	}
	for _, t := range g.Types {
		t.decl.primaryKey = g.claim(t, "", t.Name+"PrimaryKey")
		t.decl.constructor = g.claim(t, "", "New"+t.Name)
		if !t.IsLookup() {
			continue
		}
		t.decl.enum = g.claim(t, "", t.Name+"Enum")
		t.decl.byKey = g.claim(t, "", t.Name+"ByPrimaryKey")
		t.decl.all = g.claim(t, "", "All"+t.PluralName())
		t.decl.index = g.claim(t, "", unexported(t.Name)+"ByPrimaryKey")
		// The enum type also declares String.
		t.decl.enumAccessor = unique(t.Name, map[string]struct{}{"String": {}})
	}
	for _, t := range g.Types {
		for _, f := range t.Fields {
			if f.HasMaxLengthConst() {
				f.maxLengthConst = g.claim(t, f.Name, t.Name+f.StructField+"MaxLength")
			}
		}
		for _, r := range t.Rows {
			r.Var = g.claim(t, "", t.Name+r.Symbol)
			r.Const = g.claim(t, "", t.decl.enum+r.Symbol)
		}
	}
}

// claim declares want, or its first free numbered variant, at package level.
func (g *Graph) claim(t *Type, column, want string) string {
	got := unique(want, g.idents)
	if got != want {
		g.diag(NewSchemaError(t.Table.QualifiedName(), column, fmt.Sprintf("Go identifier %s is already declared, using %s", want, got), nil))
	}
	return got
}
