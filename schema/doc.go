// Package schema holds the value models produced by parsing SQL schema text.
//
// A [Table] is built from a table-definition statement and carries its
// columns in declaration order. A [LookupTableData] is built from a bulk
// seed statement and carries the raw literal rows that make a table a
// lookup table:
//
//	CREATE TABLE dbo.ProjectStage (
//	    ProjectStageID int NOT NULL CONSTRAINT PK_ProjectStage PRIMARY KEY,
//	    ProjectStageName varchar(100) NOT NULL,
//	    ProjectStageDisplayName varchar(100) NOT NULL,
//	    SortOrder int NOT NULL
//	)
//
//	MERGE INTO dbo.ProjectStage AS Target
//	USING (VALUES
//	    (1, 'Proposal', 'Proposal', 10),
//	    (2, 'PlanningDesign', 'Planning/Design', 20)
//	)
//	AS Source (ProjectStageID, ProjectStageName, ProjectStageDisplayName, SortOrder)
//	...
//
// All models are plain values. They are constructed once per parse and are
// never mutated afterwards, so they can be shared freely between goroutines.
package schema
