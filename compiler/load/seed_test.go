package load

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esassoc/SqlCodeGen/schema"
)

const projectStageSeed = `
MERGE INTO dbo.ProjectStage AS Target
USING (VALUES
(1, 'Proposal', 'Proposal', 10),
(2, 'PlanningDesign', N'Planning/Design', 20),
(3, 'Implementation', 'Implementation', 30)
)
AS Source (ProjectStageID, ProjectStageName, ProjectStageDisplayName, SortOrder)
ON Target.ProjectStageID = Source.ProjectStageID
WHEN MATCHED THEN
UPDATE SET
	ProjectStageName = Source.ProjectStageName,
	ProjectStageDisplayName = Source.ProjectStageDisplayName,
	SortOrder = Source.SortOrder
WHEN NOT MATCHED BY TARGET THEN
	INSERT (ProjectStageID, ProjectStageName, ProjectStageDisplayName, SortOrder)
	VALUES (ProjectStageID, ProjectStageName, ProjectStageDisplayName, SortOrder)
WHEN NOT MATCHED BY SOURCE THEN
	DELETE;
`

func TestParseSeed(t *testing.T) {
	d, err := ParseSeed(projectStageSeed)
	require.NoError(t, err)

	assert.Equal(t, "dbo", d.Schema)
	assert.Equal(t, "ProjectStage", d.TableName)
	assert.Equal(t, []string{"ProjectStageID", "ProjectStageName", "ProjectStageDisplayName", "SortOrder"}, d.ColumnNames)
	assert.Equal(t, []schema.LookupRow{
		{Values: []string{"1", "Proposal", "Proposal", "10"}},
		{Values: []string{"2", "PlanningDesign", "Planning/Design", "20"}},
		{Values: []string{"3", "Implementation", "Implementation", "30"}},
	}, d.Rows)
	assert.Empty(t, d.MisalignedRows())
}

func TestParseSeed_QuotedContent(t *testing.T) {
	const text = `
MERGE INTO [dbo].[FundingSource] AS Target
USING (VALUES
	-- first row (with a note)
	(1, 'Grant (Federal)', 'O''Brien, Jr.', NULL),
	(2, 'Loan) AS Fake (X', ')', 5)
) AS Source ([FundingSourceID], [FundingSourceName], [Contact], [ParentID])
ON Target.FundingSourceID = Source.FundingSourceID;
`
	d, err := ParseSeed(text)
	require.NoError(t, err)

	assert.Equal(t, "FundingSource", d.TableName)
	assert.Equal(t, []string{"FundingSourceID", "FundingSourceName", "Contact", "ParentID"}, d.ColumnNames)
	require.Len(t, d.Rows, 2)
	assert.Equal(t, []string{"1", "Grant (Federal)", "O'Brien, Jr.", "NULL"}, d.Rows[0].Values)
	assert.True(t, d.Rows[0].IsNull(3))
	assert.Equal(t, []string{"2", "Loan) AS Fake (X", ")", "5"}, d.Rows[1].Values)
}

func TestParseSeed_KeepsMisalignedRows(t *testing.T) {
	const text = `MERGE INTO dbo.Color AS Target
USING (VALUES (1, 'Red'), (2), (), (3, 'Blue', 'extra')) AS Source (ColorID, ColorName)
ON 1 = 0;`
	d, err := ParseSeed(text)
	require.NoError(t, err)

	require.Len(t, d.Rows, 3)
	assert.Equal(t, []int{1, 2}, d.MisalignedRows())
}

func TestParseSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{
			name: "no header",
			text: "INSERT INTO dbo.X VALUES (1)",
			want: ErrNoSeed,
		},
		{
			name: "no column list",
			text: "MERGE INTO dbo.X AS Target USING (VALUES (1, 'a')) ON 1 = 0;",
			want: ErrNoColumnList,
		},
		{
			name: "no values",
			text: "MERGE INTO dbo.X AS Target USING (SELECT 1) AS Source (XID) ON 1 = 0;",
			want: ErrNoValues,
		},
		{
			name: "column list precedes values",
			text: "MERGE INTO dbo.ProjectStage AS Target\nUSING (SELECT 1) AS Source (ProjectStageID, ProjectStageName)\nVALUES (1, 'Proposal')",
			want: ErrClauseOrder,
		},
		{
			name: "no rows",
			text: "MERGE INTO dbo.X AS Target USING (VALUES ()) AS Source (XID) ON 1 = 0;",
			want: ErrNoRows,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseSeed(tt.text)
			require.Error(t, err)
			assert.Nil(t, d)
			assert.True(t, errors.Is(err, tt.want), err.Error())
			assert.True(t, errors.Is(err, ErrMalformedInput))
		})
	}
}

func TestParseSeed_QuotedNullReadsAsNull(t *testing.T) {
	d, err := ParseSeed(`MERGE INTO dbo.Color AS Target
USING (VALUES (1, 'NULL'), (2, NULL), (3, 'Nullable')) AS Source (ColorID, ColorName)
ON 1 = 0;`)
	require.NoError(t, err)
	require.Len(t, d.Rows, 3)

	assert.Equal(t, "NULL", d.Rows[0].Values[1])
	assert.True(t, d.Rows[0].IsNull(1))
	assert.True(t, d.Rows[1].IsNull(1))
	assert.False(t, d.Rows[2].IsNull(1))
}
