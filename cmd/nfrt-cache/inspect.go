package main

import (
	"fmt"
	"os"

	"github.com/allaspectsdev/nfrt-cache/internal/cachekey"
)

// cmdInspect reads a marker file and prints its parsed fingerprint: type,
// hash, and every component with its value and annotation.
func cmdInspect(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: nfrt-cache inspect <marker-file>")
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading marker: %v\n", err)
		os.Exit(1)
	}

	key, err := cachekey.Unmarshal(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing marker: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("key:  %s\n", key.String())
	fmt.Printf("type: %s\n", key.Type)
	fmt.Printf("hash: %s\n", key.HashValue)
	fmt.Println("components:")
	for name, av := range key.Components {
		if av.HasAnno {
			fmt.Printf("  %s = %q  (%s)\n", name, av.Value, av.Annotation)
		} else {
			fmt.Printf("  %s = %q\n", name, av.Value)
		}
	}
}
