// Example program demonstrating the gitbump library API.
//
// Run from a project with a gitbump.yml:
//
//	go run ./example/ 1.3.0
//
// It plans the bump without changing anything and prints the plan.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/MyCarrier-DevOps/go-gitbump/pkg/gitbump"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <new_version>", os.Args[0])
	}

	current, err := gitbump.CurrentVersion(".", "")
	if err != nil {
		log.Fatalf("reading current version: %v", err)
	}
	fmt.Printf("Current version: %s\n", current)

	res, err := gitbump.Bump(context.Background(), gitbump.Options{
		Dir:        ".",
		NewVersion: os.Args[1],
		DryRun:     true,
		Stdout:     io.Discard,
		Stderr:     io.Discard,
	}, gitbump.AllOperations())
	if err != nil {
		log.Fatalf("planning bump: %v", err)
	}

	fmt.Printf("=== Bump %s -> %s ===\n", res.CurrentVersion, res.NewVersion)
	for _, p := range res.Patches {
		fmt.Printf("  %s:%d\n    - %s\n    + %s\n", p.Src, p.LineNo+1, p.OldLine, p.NewLine)
	}
	for _, h := range res.BeforeHooks {
		fmt.Printf("  before commit: %s\n", h)
	}
	for _, c := range res.Commands {
		fmt.Printf("  $ %s\n", c)
	}
	for _, h := range res.AfterHooks {
		fmt.Printf("  after push: %s\n", h)
	}
	if res.GitStateError != nil {
		fmt.Printf("Repository not ready: %v\n", res.GitStateError)
	}
}
