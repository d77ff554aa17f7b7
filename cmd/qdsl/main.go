// Command qdsl inspects experiment documents: it validates them by replaying
// them through the section-tree builder, renders them as Mermaid graphs or
// markdown, and converts between YAML and JSON.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
