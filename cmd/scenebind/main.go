// Command scenebind resolves bound component fields in scene documents.
//
// Usage:
//
//	scenebind resolve scene.yaml        # bind fields, print events, write back
//	scenebind inspect scene.yaml        # show current field values
//	scenebind fields ./components/...   # list bind-tagged Go fields
//	scenebind schema ./components/...   # type schema for scene documents
//	scenebind watch scene.yaml          # resolve on every save
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
