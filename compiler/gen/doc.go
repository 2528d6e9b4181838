// Package gen binds parsed SQL tables and seed data into the models the
// code generators render.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	.sql files
//	        ↓
//	   load.Load (tables and seeds)
//	        ↓
//	   Graph (types, lookup rows, navigations)
//	        ↓
//	   EntityGenerator / ScriptGenerator
//	        ↓
//	   Output (in memory)
//	        ↓
//	   Writer (write-if-changed)
//
// Graph construction is strictly two-phase: every table and seed is bound
// before any reference column is resolved, so the Resolver always sees the
// complete set of lookup tables.
//
// # Key Types
//
//   - Graph: Holds the types of one run and the diagnostics of the tables,
//     seeds and rows left out
//   - Type: A table binding with fields, lookup rows and navigations
//   - Field: A column with its Go field and parameter names
//   - Resolver: Maps reference columns to lookup tables
//   - Config: Settings for a generation run
//
// # Error Handling
//
// The package uses structured error types:
//
//   - SchemaError: A table that cannot be bound
//   - ConfigError: Configuration errors
//   - GenerationError: A file that failed to render
//   - ValidationError: Seed data that does not fit its table
//   - WriteError: A file that could not be persisted
//
// Only configuration errors are returned; everything else is collected as
// a diagnostic so the rest of the schema is still generated:
//
//	graph, err := gen.NewGraph(config, res.Tables, res.Seeds)
//	if err != nil {
//	    return err
//	}
//	for _, d := range graph.Diagnostics {
//	    if gen.IsValidationError(d) {
//	        // A seed row was rejected.
//	    }
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithPackage("github.com/org/project/entities"),
//	    gen.WithTarget("./entities"),
//	    gen.WithScriptTarget("./web/src/app/shared/generated/enum"),
//	    gen.WithExclude("DatabaseMigration"),
//	)
//
// or loaded from a sqlcodegen.yaml file with LoadConfig.
//
// # Usage
//
//	g := gen.NewGenerator(graph)
//	g.WithEntity(golang.New(g)).WithScript(typescript.New(g))
//	out, err := g.Generate(ctx)
//	if err != nil {
//	    return err
//	}
//	results := gen.NewWriter(afero.NewOsFs()).Write(out.Files)
package gen
