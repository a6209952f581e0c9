package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/draphael123/bindery/history"
	"github.com/draphael123/bindery/idgen"
	"github.com/draphael123/bindery/mergepipe"
)

func cmdMerge(args []string) {
	flags := flag.NewFlagSet("merge", flag.ExitOnError)
	out := flags.String("o", "merged.pdf", "output file")
	mode := flags.String("mode", "standard", "output mode: compact, standard, high-fidelity")
	optsPath := flags.String("options", "", "YAML file with merge options")
	journal := flags.String("journal", "", "merge journal database (optional)")
	verbose := flags.Bool("v", false, "debug logging")
	flags.Parse(args)

	if flags.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "merge requires at least one file or directory")
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts, err := loadOptions(*optsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "options: %v\n", err)
		os.Exit(1)
	}

	inputs, err := discoverInputs(flags.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	pipe := mergepipe.New(mergepipe.Config{Logger: logger})
	outcome, err := pipe.Merge(context.Background(), inputs, mergepipe.OutputMode(*mode), opts, progress)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "merge failed: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, outcome.Output, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "done: %s  %d pages  %s\n", *out, outcome.PageCount, mergepipe.FormatBytes(outcome.ByteSize))
	fmt.Fprintf(os.Stderr, "  merged %d, skipped %d, failed %d\n", outcome.Succeeded, outcome.Skipped, outcome.Errored)
	for _, fe := range outcome.Errors {
		fmt.Fprintf(os.Stderr, "  failed %s: %s\n", fe.Name, fe.Message)
	}

	if *journal != "" {
		logMerge(*journal, *mode, *out, len(inputs), outcome)
	}
}

func progress(ev mergepipe.ProgressEvent) {
	if ev.File != "" {
		fmt.Fprintf(os.Stderr, "\r  %s %d/%d  %s\x1b[K", ev.Phase, ev.Current, ev.Total, ev.File)
		return
	}
	fmt.Fprintf(os.Stderr, "\r  %s\x1b[K", ev.Message)
}

// loadOptions reads merge options from a YAML file; an empty path means
// all decorations off.
func loadOptions(path string) (mergepipe.MergeOptions, error) {
	var opts mergepipe.MergeOptions
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse %s: %w", path, err)
	}
	return opts, nil
}

// discoverInputs expands the argument list into input items, walking
// directories recursively. Argument order is preserved; within one
// directory files are sorted by path.
func discoverInputs(args []string) ([]mergepipe.InputItem, error) {
	newID := idgen.Prefixed("in_", idgen.NanoID(10))

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			found = append(found, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}

	items := make([]mergepipe.InputItem, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		items = append(items, mergepipe.InputItem{
			ID:          newID(),
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Data:        data,
			Size:        int64(len(data)),
			Selected:    true,
		})
	}
	return items, nil
}

func logMerge(journal, mode, out string, inputs int, outcome *mergepipe.MergeOutcome) {
	store, err := history.Open(journal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "journal: %v\n", err)
		return
	}
	defer store.Close()
	store.Log(context.Background(), history.Record{
		Mode:       mode,
		OutputName: out,
		Inputs:     inputs,
		Succeeded:  outcome.Succeeded,
		Skipped:    outcome.Skipped,
		Errored:    outcome.Errored,
		PageCount:  outcome.PageCount,
		ByteSize:   outcome.ByteSize,
	})
}

func cmdHistory(args []string) {
	flags := flag.NewFlagSet("history", flag.ExitOnError)
	journal := flags.String("journal", "bindery.db", "merge journal database")
	n := flags.Int("n", 20, "number of entries")
	flags.Parse(args)

	store, err := history.Open(*journal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	records, err := store.Recent(context.Background(), *n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "journal: %v\n", err)
		os.Exit(1)
	}
	for _, r := range records {
		fmt.Printf("%s  %-13s %-24s %3d pages  %9s  ok=%d skip=%d err=%d\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Mode, r.OutputName,
			r.PageCount, mergepipe.FormatBytes(r.ByteSize),
			r.Succeeded, r.Skipped, r.Errored)
	}
}
