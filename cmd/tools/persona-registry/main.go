// cmd/tools/persona-registry/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"moonlight-diary/pkg/registry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	if len(args) < 1 {
		help(out)
		return 1
	}

	validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	validatePath := validateCmd.String("path", "configs/persona-registry.json", "Path to registry file (empty for the built-in registry)")

	showCmd := flag.NewFlagSet("show", flag.ContinueOnError)
	showPath := showCmd.String("path", "configs/persona-registry.json", "Path to registry file (empty for the built-in registry)")
	showID := showCmd.String("id", "", "Persona ID to print")

	switch args[0] {
	case "validate":
		if err := validateCmd.Parse(args[1:]); err != nil {
			return 1
		}
		reg, err := registry.LoadOrDefault(*validatePath)
		if err != nil {
			fmt.Fprintf(out, "Failed to load registry: %v\n", err)
			return 1
		}
		if err := reg.Validate(); err != nil {
			fmt.Fprintf(out, "Registry validation failed: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "Registry validation passed. Found %d personas.\n", len(reg.Personas))

	case "show":
		if err := showCmd.Parse(args[1:]); err != nil {
			return 1
		}
		if *showID == "" {
			fmt.Fprintln(out, "Error: id is required for show.")
			return 1
		}
		reg, err := registry.LoadOrDefault(*showPath)
		if err != nil {
			fmt.Fprintf(out, "Failed to load registry: %v\n", err)
			return 1
		}
		p, err := reg.Find(*showID)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "%s (%s) v%s flow=%s\n\n%s\n\n[draw directive]\n%s\n",
			p.ID, p.DisplayName, p.Version, p.Flow, p.SystemPrompt, p.DrawDirective)

	default:
		help(out)
		if args[0] != "help" {
			return 1
		}
	}
	return 0
}

func help(out io.Writer) {
	fmt.Fprintln(out, `
Usage: persona-registry <command> [flags]

Commands:
  validate Validate the registry file
  show     Print one persona's prompt and draw directive
  help     Show this help message

Examples:
  persona-registry validate -path configs/persona-registry.json
  persona-registry show -id moonlight-sister
  persona-registry show -path "" -id moonlight-sister-draw`)
}
