package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esassoc/SqlCodeGen/schema"
)

func newTestConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()
	c, err := NewConfig(opts...)
	require.NoError(t, err)
	return c
}

func projectStageTable() *schema.Table {
	return &schema.Table{
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
}

func projectStageSeed() *schema.LookupTableData {
	return &schema.LookupTableData{
		Schema:      "dbo",
		TableName:   "ProjectStage",
		ColumnNames: []string{"ProjectStageID", "ProjectStageName", "ProjectStageDisplayName", "SortOrder"},
		Rows: []schema.LookupRow{
			{Values: []string{"1", "Proposal", "Proposal", "10"}},
			{Values: []string{"2", "PlanningDesign", "Planning/Design", "20"}},
			{Values: []string{"3", "Implementation", "Implementation", "30"}},
		},
	}
}

func projectTable() *schema.Table {
	return &schema.Table{
		Schema: "dbo",
		Name:   "Project",
		Columns: []schema.Column{
			{Name: "ProjectID", Type: "int", Identity: true, PrimaryKey: true},
			{Name: "ProjectName", Type: "varchar", MaxLength: 100},
			{Name: "ProjectStageID", Type: "int"},
			{Name: "FinalProjectStageID", Type: "int", Nullable: true},
			{Name: "Notes", Type: "varchar", MaxLength: schema.MaxLengthUnbounded, Nullable: true},
		},
		PrimaryKeyColumn: "ProjectID",
	}
}

func TestNewGraph(t *testing.T) {
	t.Run("requires a config", func(t *testing.T) {
		_, err := NewGraph(nil, nil, nil)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("joins seeds and sorts types", func(t *testing.T) {
		seed := projectStageSeed()
		seed.TableName = "projectstage"
		g, err := NewGraph(newTestConfig(t), []*schema.Table{projectStageTable(), projectTable()}, []*schema.LookupTableData{seed})
		require.NoError(t, err)
		require.Empty(t, g.Diagnostics)

		require.Len(t, g.Types, 2)
		assert.Equal(t, "Project", g.Types[0].Name)
		assert.Equal(t, "ProjectStage", g.Types[1].Name)

		stage, ok := g.Type("PROJECTSTAGE")
		require.True(t, ok)
		assert.True(t, stage.IsLookup())
		assert.Equal(t, []*Type{stage}, g.Lookups())
		project, _ := g.Type("Project")
		assert.False(t, project.IsLookup())
	})

	t.Run("binds lookup rows", func(t *testing.T) {
		g, err := NewGraph(newTestConfig(t), []*schema.Table{projectStageTable()}, []*schema.LookupTableData{projectStageSeed()})
		require.NoError(t, err)

		stage := g.Types[0]
		require.Len(t, stage.Rows, 3)
		assert.Equal(t, []int{1, 2, 3}, []int{stage.Rows[0].Value, stage.Rows[1].Value, stage.Rows[2].Value})
		assert.Equal(t, []int{10, 20, 30}, []int{stage.Rows[0].SortOrder, stage.Rows[1].SortOrder, stage.Rows[2].SortOrder})

		second := stage.Rows[1]
		assert.Equal(t, "PlanningDesign", second.Symbol)
		assert.Equal(t, "PlanningDesign", second.Name)
		assert.Equal(t, "Planning/Design", second.DisplayName)
		name, _ := stage.Field("ProjectStageDisplayName")
		assert.Equal(t, Cell{Raw: "Planning/Design"}, second.Cell(name))
	})

	t.Run("excluded tables are dropped everywhere", func(t *testing.T) {
		c := newTestConfig(t, WithExclude("projectstage"))
		g, err := NewGraph(c, []*schema.Table{projectStageTable(), projectTable()}, []*schema.LookupTableData{projectStageSeed()})
		require.NoError(t, err)

		assert.Empty(t, g.Diagnostics)
		require.Len(t, g.Types, 1)
		assert.Empty(t, g.Types[0].Navigations)
	})

	t.Run("reports orphan seeds and duplicate tables", func(t *testing.T) {
		orphan := projectStageSeed()
		orphan.TableName = "Missing"
		g, err := NewGraph(newTestConfig(t), []*schema.Table{projectTable(), projectTable()}, []*schema.LookupTableData{orphan})
		require.NoError(t, err)

		require.Len(t, g.Types, 1)
		require.Len(t, g.Diagnostics, 2)
		for _, d := range g.Diagnostics {
			assert.True(t, IsSchemaError(d), d.Error())
		}
	})
}

func TestNewType_PrimaryKey(t *testing.T) {
	t.Run("declared key", func(t *testing.T) {
		typ, err := NewType(newTestConfig(t), projectTable())
		require.NoError(t, err)
		assert.Equal(t, "ProjectID", typ.ID.Name)
	})

	t.Run("naming convention", func(t *testing.T) {
		typ, err := NewType(newTestConfig(t), &schema.Table{Name: "Commodity", Columns: []schema.Column{
			{Name: "CommodityName", Type: "varchar"},
			{Name: "CommodityID", Type: "int"},
		}})
		require.NoError(t, err)
		assert.Equal(t, "CommodityID", typ.ID.Name)
		assert.True(t, typ.ID.PrimaryKey)
	})

	t.Run("first column fallback", func(t *testing.T) {
		typ, err := NewType(newTestConfig(t), &schema.Table{Name: "Audit", Columns: []schema.Column{
			{Name: "AuditKey", Type: "int"},
			{Name: "Message", Type: "varchar"},
		}})
		require.NoError(t, err)
		assert.Equal(t, "AuditKey", typ.ID.Name)
	})

	t.Run("no fallback", func(t *testing.T) {
		c := newTestConfig(t, WithPrimaryKeyFallback(FallbackNone))
		_, err := NewType(c, &schema.Table{Name: "Audit", Columns: []schema.Column{{Name: "Message", Type: "varchar"}}})
		require.Error(t, err)
		assert.True(t, IsSchemaError(err))
	})

	t.Run("custom suffix", func(t *testing.T) {
		c := newTestConfig(t, WithIDSuffix("Key"))
		typ, err := NewType(c, &schema.Table{Name: "Region", Columns: []schema.Column{
			{Name: "Label", Type: "varchar"},
			{Name: "RegionKey", Type: "int"},
		}})
		require.NoError(t, err)
		assert.Equal(t, "RegionKey", typ.ID.Name)
	})
}

func TestNewType_Fields(t *testing.T) {
	typ, err := NewType(newTestConfig(t), &schema.Table{Name: "odd table", Columns: []schema.Column{
		{Name: "Odd TableID", Type: "int", PrimaryKey: true},
		{Name: "type", Type: "varchar", MaxLength: 10},
		{Name: "Type", Type: "varchar", MaxLength: 10},
		{Name: "PrimaryKey", Type: "int"},
	}})
	require.NoError(t, err)

	assert.Equal(t, "Oddtable", typ.Name)
	var names, params []string
	for _, f := range typ.Fields {
		names = append(names, f.StructField)
		params = append(params, f.Param)
	}
	assert.Equal(t, []string{"OddTableID", "Type", "Type2", "PrimaryKey2"}, names)
	assert.Equal(t, []string{"oddTableID", "_type", "type2", "primaryKey2"}, params)
	assert.True(t, typ.Fields[1].HasMaxLengthConst())
	assert.Equal(t, "OddtableTypeMaxLength", typ.Fields[1].MaxLengthName())
	assert.False(t, typ.Fields[3].HasMaxLengthConst())
}

func TestGraph_Rows(t *testing.T) {
	t.Run("rejects misaligned rows and keeps the rest", func(t *testing.T) {
		seed := projectStageSeed()
		seed.Rows = append(seed.Rows, schema.LookupRow{Values: []string{"4", "Closed"}})
		seed.Rows = append(seed.Rows, schema.LookupRow{Values: []string{"x", "Bad", "Bad", "1"}})
		g, err := NewGraph(newTestConfig(t), []*schema.Table{projectStageTable()}, []*schema.LookupTableData{seed})
		require.NoError(t, err)

		assert.Len(t, g.Types[0].Rows, 3)
		require.Len(t, g.Diagnostics, 2)
		for _, d := range g.Diagnostics {
			assert.True(t, IsValidationError(d), d.Error())
		}
		assert.Contains(t, g.Diagnostics[0].Error(), "row 4")
		assert.Contains(t, g.Diagnostics[1].Error(), "row 5")
	})

	t.Run("falls back on names, display names and sort order", func(t *testing.T) {
		table := &schema.Table{Name: "Color", Columns: []schema.Column{
			{Name: "ColorID", Type: "int"},
			{Name: "Code", Type: "char", MaxLength: 3},
			{Name: "Hex", Type: "varchar", MaxLength: 7, Nullable: true},
		}}
		seed := &schema.LookupTableData{TableName: "Color", ColumnNames: []string{"ColorID", "Code"}, Rows: []schema.LookupRow{
			{Values: []string{"5", "Red"}},
			{Values: []string{"6", "NULL"}},
			{Values: []string{"7", "Red"}},
		}}
		g, err := NewGraph(newTestConfig(t), []*schema.Table{table}, []*schema.LookupTableData{seed})
		require.NoError(t, err)
		require.Empty(t, g.Diagnostics)

		rows := g.Types[0].Rows
		require.Len(t, rows, 3)
		assert.Equal(t, "Red", rows[0].Symbol)
		assert.Equal(t, "Red", rows[0].DisplayName)
		assert.Equal(t, 1, rows[0].SortOrder)
		assert.Equal(t, "Value6", rows[1].Symbol)
		assert.Equal(t, "Value6", rows[1].Name)
		assert.Equal(t, 2, rows[1].SortOrder)
		assert.Equal(t, "Red7", rows[2].Symbol)
		assert.Equal(t, "Red", rows[2].Name)

		hex, _ := g.Types[0].Field("Hex")
		assert.Equal(t, Cell{Null: true}, rows[0].Cell(hex))
	})

	t.Run("rejects duplicate keys", func(t *testing.T) {
		seed := projectStageSeed()
		seed.Rows[2].Values[0] = "1"
		g, err := NewGraph(newTestConfig(t), []*schema.Table{projectStageTable()}, []*schema.LookupTableData{seed})
		require.NoError(t, err)
		assert.Len(t, g.Types[0].Rows, 2)
		require.Len(t, g.Diagnostics, 1)
		assert.Contains(t, g.Diagnostics[0].Error(), "duplicate primary key")
	})

	t.Run("non-integer key keeps a plain table", func(t *testing.T) {
		table := &schema.Table{Name: "State", PrimaryKeyColumn: "StateCode", Columns: []schema.Column{
			{Name: "StateCode", Type: "char", MaxLength: 2, PrimaryKey: true},
			{Name: "StateName", Type: "varchar", MaxLength: 50},
		}}
		seed := &schema.LookupTableData{TableName: "State", ColumnNames: []string{"StateCode", "StateName"}, Rows: []schema.LookupRow{
			{Values: []string{"CA", "California"}},
		}}
		g, err := NewGraph(newTestConfig(t), []*schema.Table{table}, []*schema.LookupTableData{seed})
		require.NoError(t, err)
		assert.False(t, g.Types[0].IsLookup())
		require.Len(t, g.Diagnostics, 1)
		assert.True(t, IsValidationError(g.Diagnostics[0]))
	})
}

func TestGraph_Navigations(t *testing.T) {
	t.Run("resolves reference columns to lookup types", func(t *testing.T) {
		g, err := NewGraph(newTestConfig(t), []*schema.Table{projectTable(), projectStageTable()}, []*schema.LookupTableData{projectStageSeed()})
		require.NoError(t, err)

		project, _ := g.Type("Project")
		stage, _ := g.Type("ProjectStage")
		require.Len(t, project.Navigations, 2)
		assert.Equal(t, "ProjectStage", project.Navigations[0].Name)
		assert.Equal(t, stage, project.Navigations[0].Target)
		assert.Equal(t, "ProjectStageID", project.Navigations[0].Field.Name)
		assert.Equal(t, "FinalProjectStage", project.Navigations[1].Name)
		assert.Empty(t, stage.Navigations)
	})

	t.Run("plain tables are never targets", func(t *testing.T) {
		g, err := NewGraph(newTestConfig(t), []*schema.Table{projectTable(), projectStageTable()}, nil)
		require.NoError(t, err)

		project, _ := g.Type("Project")
		assert.Empty(t, project.Navigations)
	})

	t.Run("collision guard", func(t *testing.T) {
		final := &schema.Table{Name: "FinalProjectStage", Columns: []schema.Column{{Name: "FinalProjectStageID", Type: "int"}}}
		g, err := NewGraph(newTestConfig(t), []*schema.Table{projectTable(), projectStageTable(), final}, []*schema.LookupTableData{projectStageSeed()})
		require.NoError(t, err)

		project, _ := g.Type("Project")
		require.Len(t, project.Navigations, 1)
		assert.Equal(t, "ProjectStage", project.Navigations[0].Name)
	})

	t.Run("excluded tables still guard names", func(t *testing.T) {
		final := &schema.Table{Name: "FinalProjectStage", Columns: []schema.Column{{Name: "FinalProjectStageID", Type: "int"}}}
		c := newTestConfig(t, WithExclude("FinalProjectStage"))
		g, err := NewGraph(c, []*schema.Table{projectTable(), projectStageTable(), final}, []*schema.LookupTableData{projectStageSeed()})
		require.NoError(t, err)

		assert.Empty(t, g.Diagnostics)
		require.Len(t, g.Types, 2)
		project, _ := g.Type("Project")
		require.Len(t, project.Navigations, 1)
		assert.Equal(t, "ProjectStage", project.Navigations[0].Name)
	})

	t.Run("accessor names avoid fields", func(t *testing.T) {
		table := projectTable()
		table.Columns = append(table.Columns, schema.Column{Name: "ProjectStage", Type: "varchar", MaxLength: 10})
		g, err := NewGraph(newTestConfig(t), []*schema.Table{table, projectStageTable()}, []*schema.LookupTableData{projectStageSeed()})
		require.NoError(t, err)

		project, _ := g.Type("Project")
		assert.Equal(t, "ProjectStage2", project.Navigations[0].Name)
	})
}

func TestGraph_Identifiers(t *testing.T) {
	t.Run("default names", func(t *testing.T) {
		g, err := NewGraph(newTestConfig(t), []*schema.Table{projectTable(), projectStageTable()}, []*schema.LookupTableData{projectStageSeed()})
		require.NoError(t, err)
		require.Empty(t, g.Diagnostics)

		stage, _ := g.Type("ProjectStage")
		assert.Equal(t, "ProjectStage", stage.Name)
		assert.Equal(t, "ProjectStagePrimaryKey", stage.PrimaryKeyName())
		assert.Equal(t, "NewProjectStage", stage.ConstructorName())
		assert.Equal(t, "ProjectStageEnum", stage.EnumName())
		assert.Equal(t, "ProjectStage", stage.EnumAccessorName())
		assert.Equal(t, "AllProjectStages", stage.AllName())
		assert.Equal(t, "ProjectStageByPrimaryKey", stage.ByPrimaryKeyName())
		assert.Equal(t, "projectStageByPrimaryKey", stage.IndexName())
		assert.Equal(t, "ProjectStageProposal", stage.Rows[0].Var)
		assert.Equal(t, "ProjectStageEnumProposal", stage.Rows[0].Const)
		name, _ := stage.Field("ProjectStageName")
		assert.Equal(t, "ProjectStageProjectStageNameMaxLength", name.MaxLengthName())
	})

	t.Run("row variables yield to type names", func(t *testing.T) {
		project := &schema.Table{Schema: "dbo", Name: "Project", PrimaryKeyColumn: "ProjectID", Columns: []schema.Column{
			{Name: "ProjectID", Type: "int", PrimaryKey: true},
			{Name: "ProjectName", Type: "varchar", MaxLength: 50},
		}}
		seed := &schema.LookupTableData{Schema: "dbo", TableName: "Project", ColumnNames: []string{"ProjectID", "ProjectName"}, Rows: []schema.LookupRow{
			{Values: []string{"1", "Stage"}},
			{Values: []string{"2", "Enum"}},
		}}
		stage := &schema.Table{Schema: "dbo", Name: "ProjectStage", PrimaryKeyColumn: "ProjectStageID", Columns: []schema.Column{
			{Name: "ProjectStageID", Type: "int", PrimaryKey: true},
		}}
		g, err := NewGraph(newTestConfig(t), []*schema.Table{project, stage}, []*schema.LookupTableData{seed})
		require.NoError(t, err)

		typ, _ := g.Type("Project")
		require.Len(t, typ.Rows, 2)
		assert.Equal(t, "ProjectEnum", typ.EnumName())
		assert.Equal(t, "ProjectStage2", typ.Rows[0].Var)
		assert.Equal(t, "ProjectEnumStage", typ.Rows[0].Const)
		assert.Equal(t, "ProjectEnum2", typ.Rows[1].Var)
		assert.Equal(t, "ProjectEnumEnum", typ.Rows[1].Const)
		assert.Equal(t, "Stage", typ.Rows[0].Symbol)

		other, _ := g.Type("ProjectStage")
		assert.Equal(t, "ProjectStage", other.Name)

		require.Len(t, g.Diagnostics, 2)
		for _, d := range g.Diagnostics {
			assert.True(t, IsSchemaError(d), d.Error())
		}
		assert.Contains(t, g.Diagnostics[0].Error(), "Go identifier ProjectStage is already declared, using ProjectStage2")
	})

	t.Run("length constants yield to type names", func(t *testing.T) {
		thing := &schema.Table{Schema: "dbo", Name: "Thing", PrimaryKeyColumn: "ThingID", Columns: []schema.Column{
			{Name: "ThingID", Type: "int", PrimaryKey: true},
			{Name: "Name", Type: "varchar", MaxLength: 10},
		}}
		clash := &schema.Table{Schema: "dbo", Name: "ThingNameMaxLength", PrimaryKeyColumn: "ThingNameMaxLengthID", Columns: []schema.Column{
			{Name: "ThingNameMaxLengthID", Type: "int", PrimaryKey: true},
		}}
		g, err := NewGraph(newTestConfig(t), []*schema.Table{thing, clash}, nil)
		require.NoError(t, err)

		typ, _ := g.Type("Thing")
		name, _ := typ.Field("Name")
		assert.Equal(t, "ThingNameMaxLength2", name.MaxLengthName())
		require.Len(t, g.Diagnostics, 1)
		var se *SchemaError
		require.ErrorAs(t, g.Diagnostics[0], &se)
		assert.Equal(t, "Name", se.Column)
	})

	t.Run("package helpers and enum methods are reserved", func(t *testing.T) {
		tables := &schema.Table{Schema: "dbo", Name: "Tables", PrimaryKeyColumn: "TablesID", Columns: []schema.Column{
			{Name: "TablesID", Type: "int", PrimaryKey: true},
		}}
		str := &schema.Table{Schema: "dbo", Name: "String", PrimaryKeyColumn: "StringID", Columns: []schema.Column{
			{Name: "StringID", Type: "int", PrimaryKey: true},
			{Name: "StringName", Type: "varchar", MaxLength: 20},
		}}
		seed := &schema.LookupTableData{Schema: "dbo", TableName: "String", ColumnNames: []string{"StringID", "StringName"}, Rows: []schema.LookupRow{
			{Values: []string{"1", "Short"}},
		}}
		g, err := NewGraph(newTestConfig(t), []*schema.Table{tables, str}, []*schema.LookupTableData{seed})
		require.NoError(t, err)

		typ, _ := g.Type("Tables")
		assert.Equal(t, "Tables2", typ.Name)
		assert.Equal(t, "tables2", typ.FileStem())
		typ, _ = g.Type("String")
		assert.Equal(t, "String", typ.Name)
		assert.Equal(t, "String2", typ.EnumAccessorName())
		require.Len(t, g.Diagnostics, 1)
	})
}
