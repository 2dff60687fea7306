// Command levelcheck validates level files and prints a summary of each.
// With no arguments it checks every embedded level.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/milk9111/cmdstack/levels"
	"github.com/milk9111/cmdstack/logs"
	"github.com/milk9111/cmdstack/program"
)

func main() {
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn or error")
	flag.Parse()

	logger, err := logs.New(logs.Options{Level: *logLevel, Console: os.Stderr})
	if err != nil {
		log.Fatal(err)
	}

	failed := 0
	for _, name := range targets(flag.Args()) {
		if err := checkOne(os.Stdout, name, logger); err != nil {
			fmt.Fprintf(os.Stdout, "FAIL %s: %v\n", name, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func targets(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return levels.Names()
}

// checkOne loads name from disk, or from the embedded levels when no such
// file exists, and runs the same checks a level session would.
func checkOne(w io.Writer, name string, log *slog.Logger) error {
	lvl, err := levels.LoadFile(name)
	if levels.IsNotExist(err) {
		lvl, err = levels.LoadLevelFromFS(name)
	}
	if err != nil {
		return err
	}
	return report(w, name, lvl, log)
}

func report(w io.Writer, name string, lvl *levels.Level, log *slog.Logger) error {
	if err := lvl.Check(); err != nil {
		return err
	}
	allocs := lvl.Allocations(log)
	if _, err := program.NewPool(allocs, log, nil); err != nil {
		return err
	}
	fmt.Fprintf(w, "ok   %s: %s\n", name, lvl)
	for _, a := range allocs {
		fmt.Fprintf(w, "     %-8s x%d\n", a.Token, a.Count)
	}
	return nil
}
