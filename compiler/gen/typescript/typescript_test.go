package typescript

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esassoc/SqlCodeGen/compiler/gen"
	"github.com/esassoc/SqlCodeGen/schema"
)

func newTestGenerator(t *testing.T, rows ...schema.LookupRow) (*gen.Generator, *gen.Type) {
	t.Helper()
	table := &schema.Table{
		Schema: "dbo",
		Name:   "ProjectStage",
		Columns: []schema.Column{
			{Name: "ProjectStageID", Type: "int", PrimaryKey: true},
			{Name: "ProjectStageName", Type: "varchar", MaxLength: 100},
			{Name: "ProjectStageDisplayName", Type: "varchar", MaxLength: 100},
			{Name: "SortOrder", Type: "int"},
		},
		PrimaryKeyColumn: "ProjectStageID",
	}
	seed := &schema.LookupTableData{
		Schema:      "dbo",
		TableName:   "ProjectStage",
		ColumnNames: []string{"ProjectStageID", "ProjectStageName", "ProjectStageDisplayName", "SortOrder"},
		Rows:        rows,
	}
	c, err := gen.NewConfig()
	require.NoError(t, err)
	graph, err := gen.NewGraph(c, []*schema.Table{table}, []*schema.LookupTableData{seed})
	require.NoError(t, err)
	typ, ok := graph.Type("ProjectStage")
	require.True(t, ok)
	return gen.NewGenerator(graph), typ
}

var projectStageRows = []schema.LookupRow{
	{Values: []string{"1", "Proposal", "Proposal", "10"}},
	{Values: []string{"2", "PlanningDesign", "Planning/Design", "20"}},
	{Values: []string{"3", "Implementation", "Implementation", "30"}},
}

func TestGenEnum(t *testing.T) {
	g, typ := newTestGenerator(t, projectStageRows...)

	b, err := New(g).GenEnum(typ)
	require.NoError(t, err)

	want := `// Code generated by sqlcodegen. DO NOT EDIT.

import { LookupTableEntry, SelectDropdownOption } from "./lookup-table-entry";

export enum ProjectStageEnum {
  Proposal = 1,
  PlanningDesign = 2,
  Implementation = 3,
}

export const ProjectStages: LookupTableEntry[] = [
  { Name: "Proposal", DisplayName: "Proposal", Value: 1, SortOrder: 10 },
  { Name: "PlanningDesign", DisplayName: "Planning/Design", Value: 2, SortOrder: 20 },
  { Name: "Implementation", DisplayName: "Implementation", Value: 3, SortOrder: 30 },
];

export const ProjectStagesAsSelectDropdownOptions: SelectDropdownOption[] = ProjectStages.map((x) => ({ Value: x.Value, Label: x.DisplayName, SortOrder: x.SortOrder }));
`
	assert.Equal(t, want, string(b))
}

func TestGenEnum_EntryOrder(t *testing.T) {
	g, typ := newTestGenerator(t, projectStageRows...)
	b, err := New(g).GenEnum(typ)
	require.NoError(t, err)

	entry := regexp.MustCompile(`Value: (\d+), SortOrder: (\d+) }`)
	var values, orders []string
	for _, m := range entry.FindAllStringSubmatch(string(b), -1) {
		values = append(values, m[1])
		orders = append(orders, m[2])
	}
	assert.Equal(t, []string{"1", "2", "3"}, values)
	assert.Equal(t, []string{"10", "20", "30"}, orders)
}

func TestGenEnum_Quoting(t *testing.T) {
	g, typ := newTestGenerator(t,
		schema.LookupRow{Values: []string{"1", "O'Brien", `Say "hi" <b>`, "1"}},
	)
	b, err := New(g).GenEnum(typ)
	require.NoError(t, err)

	out := string(b)
	assert.Contains(t, out, "OBrien = 1,")
	assert.Contains(t, out, `{ Name: "O'Brien", DisplayName: "Say \"hi\" <b>", Value: 1, SortOrder: 1 }`)
}

func TestGenShared(t *testing.T) {
	g, _ := newTestGenerator(t, projectStageRows...)
	b, err := New(g).GenShared()
	require.NoError(t, err)

	out := string(b)
	assert.Contains(t, out, "// "+gen.DefaultHeader+"\n")
	assert.Contains(t, out, "export interface LookupTableEntry {")
	assert.Contains(t, out, "export interface SelectDropdownOption {")
}

func TestFileNames(t *testing.T) {
	g, typ := newTestGenerator(t, projectStageRows...)
	s := New(g)
	assert.Equal(t, "project-stage.enum.ts", s.EnumFileName(typ))
	assert.Equal(t, "lookup-table-entry.ts", s.SharedFileName())
}

func TestGenerate(t *testing.T) {
	g, _ := newTestGenerator(t, projectStageRows...)
	g.WithScript(New(g))

	out, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Files, 2)
	assert.Equal(t, "lookup-table-entry.ts", out.Files[0].Name)
	assert.Equal(t, "project-stage.enum.ts", out.Files[1].Name)
	assert.Equal(t, gen.ScriptFile, out.Files[1].Kind)
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "plain", want: `"plain"`},
		{in: `back\slash`, want: `"back\\slash"`},
		{in: "tab\there", want: `"tab\there"`},
		{in: "a & b", want: `"a & b"`},
	}
	for _, tt := range tests {
		got, err := quote(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
