// forgelint validates binding-profile files structurally: YAML parse
// errors, empty fields, and duplicate bindings are reported per file.
// Name resolution against a universe happens at test runtime, not here.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
