// Copyright 2025 The wordmap Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the pattern mapping server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

wordmap maps words through bidirectional pattern tables such as singular to
plural or masculine to feminine. A table is an ordered list of pattern pairs
where each pattern holds at most one wildcard:

	"child" = "children"
	"%y"    = "%ies"
	"%"     = "%s"

Looking up "ferry" captures "ferr" in "%y" and writes it into "%ies", giving
"ferries". The reverse direction maps "ferries" back to "ferry" through the
same pairs. Earlier pairs win, so irregular forms go before general rules.

It can operate as a MessagePack IPC server for integration with editors and
other tools, or as a CLI application for testing and debugging.

# Usage

Start the server with default settings:

	wordmap

Use a custom data directory and enable debug mode:

	wordmap -data /path/to/tables -d

Run in CLI mode on the gender table:

	wordmap -c -table gender

The data directory holds dictionary files in TOML, YAML, JSON or plain text.
See the dictionary package for the file layouts.

# Configuration

Runtime configuration is a TOML file, created with defaults when missing:

	[server]
	max_query = 256
	default_table = "plural"
	reject_marker = false
	cache_size = 1024

	[dict]
	dir = "data"
	marker = "%"
	formats = ["toml", "yaml", "json", "txt"]

	[cli]
	default_table = "plural"
	default_direction = "value"
	transform = "identity"

# IPC Protocol

The server communicates via MessagePack over stdin/stdout:

	{"id": "req1", "t": "plural", "q": "ferry"}
	{"id": "req1", "r": "ferries", "ok": true, "us": 4}

See the server package for the full protocol.

# Command Line Flags

	-data string
	    Directory containing dictionary files (default from config)
	-config string
	    Path to a config file
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-table string
	    Table used by the CLI (default from config)
	-marker string
	    Wildcard marker used by all tables (default from config)
	-rebuild-config
	    Overwrite the default config.toml with builtin defaults and exit
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordmap/internal/cli"
	"github.com/bastiangx/wordmap/internal/logger"
	"github.com/bastiangx/wordmap/internal/utils"
	"github.com/bastiangx/wordmap/pkg/config"
	"github.com/bastiangx/wordmap/pkg/dictionary"
	"github.com/bastiangx/wordmap/pkg/mapping"
	"github.com/bastiangx/wordmap/pkg/registry"
	"github.com/bastiangx/wordmap/pkg/server"
	"github.com/bastiangx/wordmap/pkg/transform"
)

const (
	Version = "0.3.0-beta"
	AppName = "wordmap"
	gh      = "https://github.com/bastiangx/wordmap"
)

// sigHandler cancels the returned context on interrupt so the server can
// stop cleanly. A second signal exits right away.
func sigHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		<-c
		os.Exit(0)
	}()

	return ctx
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	ctx := sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "", "Directory containing the dictionary files")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	configPath := flag.String("config", "", "Path to a custom config file")
	table := flag.String("table", "", "Table used by the CLI")
	marker := flag.String("marker", "", "Wildcard marker used in patterns")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config.toml with builtin defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		path, _ := config.GetDefaultConfigPath()
		log.Printf("Rebuilt config at %s", path)
		os.Exit(0)
	}

	appConfig, activeConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(activeConfig))

	if *table != "" {
		appConfig.CLI.DefaultTable = *table
	}
	if *marker != "" {
		appConfig.Dict.Marker = *marker
	}
	if *dataDir == "" {
		*dataDir = appConfig.Dict.Dir
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Print("Either env is not set or system is not supported")
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	resolvedDataDir, err := pathResolver.GetDataDir(*dataDir)
	if err != nil {
		log.Fatalf("Failed to resolve data dir:(%v)", err)
	}
	log.Debugf("Using data dir at: %s", resolvedDataDir)

	tables, err := dictionary.LoadDir(resolvedDataDir, appConfig.DictFormats()...)
	if err != nil {
		log.Fatalf("Failed to load dictionaries: %v", err)
	}

	reg := registry.New(mapping.WithMarker(appConfig.Dict.Marker))
	if err := reg.LoadTables(tables); err != nil {
		log.Fatalf("Failed to build tables: %v", err)
	}
	log.Debugf("Loaded %d tables", reg.Len())

	transforms := transform.NewRegistry()

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"table", appConfig.CLI.DefaultTable,
			"direction", appConfig.CLI.DefaultDirection,
			"transform", appConfig.CLI.Transform)

		inputHandler := cli.NewInputHandler(reg, transforms, appConfig)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	showStartupInfo(resolvedDataDir, reg)

	srv := server.NewServer(reg, transforms, appConfig)
	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ wordmap ] Maps words through pattern tables, both ways!")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dataDir string, reg *registry.Registry) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("data dir: ( %s )", dataDir)
	log.Infof("tables: %v", reg.Names(""))
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
