// Package load turns SQL schema text into schema models.
//
// Two statement shapes are understood, leniently and without a full SQL
// grammar:
//
//   - table definitions (CREATE TABLE schema.table (...)), parsed by [ParseTable]
//   - bulk seed statements (MERGE INTO schema.table ... USING (VALUES ...)
//     AS Source (columns)), parsed by [ParseSeed]
//
// Both parsers first locate a statement header with a regular expression and
// then scan the balanced, quote-aware region that follows it. Literal rows are
// split into values by [SplitValues].
//
// [Load] walks a set of files and directories, parses every .sql file in
// parallel and collects the models together with a diagnostic for each file
// that could not be parsed. A failure in one file never stops the others.
package load
