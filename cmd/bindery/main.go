package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "merge":
		cmdMerge(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "history":
		cmdHistory(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `bindery — merge PDFs, images and text documents into one PDF

usage:
  bindery merge   [-o out.pdf] [-mode compact|standard|high-fidelity] [-options opts.yaml] [-journal db] <file|dir> ...
  bindery serve   [-addr :8080] [-journal db]
  bindery mcp
  bindery history [-journal db] [-n 20]

merge    Merges the given files (directories are walked recursively) in order.
serve    Runs the HTTP frontend (POST /merge, multipart).
mcp      Runs the MCP stdio server exposing merge/classify/profiles tools.
history  Prints recent entries from the merge journal.
`)
}
