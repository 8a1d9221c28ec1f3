package main

import (
	"fmt"
	"os"

	"github.com/allaspectsdev/nfrt-cache/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "start":
		cmdStart(os.Args[2:])
	case "stop":
		cmdStop()
	case "status":
		cmdStatus()
	case "maintain":
		cmdMaintain()
	case "gc":
		cmdGC()
	case "inspect":
		cmdInspect(os.Args[2:])
	case "diff":
		cmdDiff(os.Args[2:])
	case "init-config":
		cmdInitConfig()
	case "install-service":
		cmdInstallService()
	case "uninstall-service":
		cmdUninstallService()
	case "config-export":
		cmdConfigExport(os.Args[2:])
	case "config-import":
		cmdConfigImport(os.Args[2:])
	case "version":
		fmt.Println(version.String())
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: nfrt-cache <command> [options]

Commands:
  start             Start the maintenance daemon
  stop              Stop the running daemon
  status            Show daemon status and cache summary
  maintain          Run one rate-gated maintenance sweep and exit
  gc                Run an unconditional maintenance sweep and exit
  inspect <marker>  Parse and print a marker file's fingerprint
  diff <key.json>   Rank cached entries of the same type against a key file
  init-config       Generate default config file
  config-export     Export current config to a TOML file
  config-import     Import config from a TOML file
  install-service   Install as system service (launchd on macOS)
  uninstall-service Uninstall the system service
  version           Print version information
  help              Show this help message

Options:
  --foreground      Run in foreground (with 'start')`)
}
