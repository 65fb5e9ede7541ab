package main

import (
	"fmt"
	"os"

	"github.com/tsbridge/tsbridge"
	"github.com/tsbridge/tsbridge/cmd/tsbridge/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("tsbridge v%s\n", tsbridge.Version())
	case "help", "-h", "--help":
		printUsage()
	case "generate":
		if err := commands.HandleGenerate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "watch":
		if err := commands.HandleWatch(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := commands.HandleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close enough to be a plausible typo.
func suggestCommand(input string) string {
	known := []string{"generate", "watch", "mcp", "version", "help"}

	best := ""
	bestDist := 3
	for _, cmd := range known {
		if d := editDistance(input, cmd); d < bestDist {
			best = cmd
			bestDist = d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func printUsage() {
	fmt.Println(`tsbridge - TypeScript client generator for OpenAPI 3.x

Usage:
  tsbridge <command> [options]

Commands:
  generate    Generate the TypeScript client package once and exit
  watch       Regenerate the client package as the schema file changes
  mcp         Serve the generate/inspect tools over MCP stdio
  version     Show version information
  help        Show this help message

Examples:
  tsbridge generate -o ./frontend/src/api openapi.json
  tsbridge generate -o ./src/api https://api.example.com/openapi.json
  tsbridge watch -o ./frontend/src/api openapi.json
  tsbridge generate -c tsbridge.yaml
  tsbridge mcp

Run 'tsbridge <command> --help' for more information on a command.`)
}
