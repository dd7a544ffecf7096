package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chung-leong/trambar-cli/internal/trambar"
	"github.com/chung-leong/trambar-cli/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		trambar.Usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	// Full-screen commands live here so the core package stays free of
	// the TUI dependency.
	var err error
	switch cmd {
	case "setup":
		err = tui.StartWizard()
	case "dash":
		err = tui.StartDashboard(parsePrefix(args))
	case "addons":
		err = tui.StartAddonManager(parsePrefix(args))
	case "config":
		err = tui.StartConfigEditor(parsePrefix(args))
	default:
		err = trambar.Run(os.Args[1:])
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parsePrefix(args []string) string {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	prefix := fs.String("prefix", "", "config bundle directory")
	_ = fs.Parse(args)
	return *prefix
}
