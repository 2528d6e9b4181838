// sqlcodegen generates Go entity bindings and TypeScript lookup enums from
// SQL table definitions and seed statements.
package main

import (
	"os"

	"github.com/esassoc/SqlCodeGen/cmd/sqlcodegen/command"
)

func main() {
	root, _ := command.NewRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
