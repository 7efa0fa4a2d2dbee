package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btclog/v2"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/actorwire/actorwire/internal/actorinfo"
	"github.com/actorwire/actorwire/internal/actorload"
	"github.com/actorwire/actorwire/internal/build"
	"github.com/actorwire/actorwire/internal/client"
	"github.com/actorwire/actorwire/internal/config"
	"github.com/actorwire/actorwire/internal/exampleactor"
	"github.com/actorwire/actorwire/internal/mcpbridge"
	"github.com/actorwire/actorwire/internal/regstore"
	"github.com/actorwire/actorwire/internal/server"
)

func main() {
	var (
		listenAddr         = flag.String("listen", "", "RESP listen address (overrides config file)")
		dbPath             = flag.String("db", "~/.actorwire/registered_actors.db", "Path to SQLite registration database")
		logDir             = flag.String("log-dir", "~/.actorwire/logs", "Directory for log files (empty to disable file logging)")
		maxLogFiles        = flag.Int("max-log-files", build.DefaultMaxLogFiles, "Maximum number of rotated log files to keep")
		maxLogFileSize     = flag.Int("max-log-file-size", build.DefaultMaxLogFileSize, "Maximum log file size in MB before rotation")
		enableRegistration = flag.Bool("enable-registration", true, "Mount the system actor so clients may register/unregister actors at runtime")
		enableMCP          = flag.Bool("mcp", false, "Enable MCP stdio transport, bridging actor calls to MCP tools instead of blocking on signals")
		configPath         = flag.String("config", "", "Path to actorwired.toml (default ~/.actorwire/actorwired.toml)")
	)
	flag.Parse()

	expandHome := func(path string) string {
		expanded := os.ExpandEnv(path)
		if expanded == path && len(path) > 0 && path[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				log.Fatalf("Failed to get home directory: %v", err)
			}
			expanded = home + path[1:]
		}
		return expanded
	}

	cfgPath := *configPath
	if cfgPath == "" {
		p, err := config.DefaultServerConfigPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
		cfgPath = p
	}
	cfg, err := config.LoadServerConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", cfgPath, err)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if !flagPassed("enable-registration") {
		*enableRegistration = cfg.EnableRegistration
	}

	dbPathExpanded := *dbPath
	if cfg.DBPath != "" && !flagPassed("db") {
		dbPathExpanded = cfg.DBPath
	}
	dbPathExpanded = expandHome(dbPathExpanded)
	logDirExpanded := *logDir
	if cfg.LogDir != "" && !flagPassed("log-dir") {
		logDirExpanded = cfg.LogDir
	}
	logDirExpanded = expandHome(logDirExpanded)

	// Open the rotating log file writer if a log directory is configured.
	// This creates ~/.actorwire/logs/actorwired.log with automatic
	// rotation and gzip compression of old files.
	var logRotator *build.RotatingLogWriter
	if logDirExpanded != "" {
		rotCfg := build.DefaultLogRotatorConfig()
		rotCfg.LogDir = logDirExpanded
		rotCfg.MaxLogFiles = *maxLogFiles
		rotCfg.MaxLogFileSize = *maxLogFileSize

		lr, err := build.NewLogRotator(rotCfg)
		if err != nil {
			log.Printf("Failed to init log rotator: %v (continuing without file logging)", err)
		} else {
			logRotator = lr
			defer logRotator.Close()

			multiWriter := io.MultiWriter(os.Stderr, logRotator)
			log.SetOutput(multiWriter)
			log.SetFlags(log.LstdFlags)
		}
	}

	log.Printf("actorwired version %s commit=%s go=%s",
		build.Version(), commitInfo(), build.GoVersion)

	// Fan every internal/*.slog.Default() call (dispatch, bind, server,
	// sysactor, regstore) out to both the console and the rotating log file.
	var btclogHandlers []btclog.Handler
	btclogHandlers = append(btclogHandlers, btclog.NewDefaultHandler(os.Stderr))
	if logRotator != nil {
		btclogHandlers = append(btclogHandlers, btclog.NewDefaultHandler(logRotator))
		log.Printf("Log file rotation enabled: dir=%s, max_files=%d, max_size=%dMB",
			logDirExpanded, *maxLogFiles, *maxLogFileSize)
	}
	combinedHandler := build.NewHandlerSet(btclogHandlers...)
	slog.SetDefault(slog.New(combinedHandler))

	store, err := regstore.Open(dbPathExpanded)
	if err != nil {
		log.Fatalf("Failed to open registration database: %v", err)
	}
	defer store.Close()

	loader := actorload.NewLoader()
	loader.RegisterBuiltin("greeter", func() actorinfo.Descriptor { return exampleactor.NewGreeter() })
	loader.RegisterBuiltin("example", func() actorinfo.Descriptor { return exampleactor.NewExample() })

	srvCfg := server.DefaultConfig()
	srvCfg.ListenAddr = cfg.ListenAddr
	srvCfg.EnableRegistration = *enableRegistration
	srv := server.New(srvCfg, loader)

	// Restore declaratively-configured actors, then any actors persisted
	// from prior runtime registrations.
	for _, a := range cfg.Actors {
		if _, ok := srv.Registry().Get(a.Name); ok {
			continue
		}
		if err := srv.RegisterActor(a.Name, a.Path); err != nil {
			log.Printf("Failed to load configured actor %q from %s: %v", a.Name, a.Path, err)
		}
	}
	regstore.Replay(context.Background(), store, srv.RegisterActor)

	// From here on, every runtime register/unregister is mirrored into the
	// sqlite table so it survives a restart.
	srv.Registry().SetListener(func(added bool, name, path string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var err error
		if added {
			err = store.Insert(ctx, name, path)
		} else {
			err = store.Delete(ctx, name)
		}
		if err != nil {
			log.Printf("Failed to persist registration change for %q: %v", name, err)
		}
	})

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(
			context.Background(), 10*time.Second,
		)
		defer shutdownCancel()

		done := make(chan error, 1)
		go func() { done <- srv.Stop() }()
		select {
		case err := <-done:
			if err != nil {
				log.Printf("Server shutdown incomplete: %v", err)
			}
		case <-shutdownCtx.Done():
			log.Printf("Server shutdown timed out")
		}
	}()
	log.Printf("RESP server listening on %s", srv.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received %v, initiating graceful shutdown (send again to force exit)...", sig)
		cancel()

		sig = <-sigCh
		log.Printf("Received %v again, forcing immediate exit", sig)
		os.Exit(1)
	}()

	if *enableMCP {
		log.Println("Starting actorwired MCP bridge on stdio...")
		c, err := client.Dial(srv.Addr())
		if err != nil {
			log.Fatalf("Failed to connect MCP bridge to local server: %v", err)
		}
		defer c.Close()

		bridge := mcpbridge.New(c)
		if err := bridge.Run(ctx, &sdkmcp.StdioTransport{}); err != nil {
			log.Fatalf("MCP bridge error: %v", err)
		}
	} else {
		log.Println("Running in RESP-only mode (no MCP stdio)")
		<-ctx.Done()
	}
}

// flagPassed reports whether name was explicitly set on the command line,
// so a config file value isn't clobbered by a flag's zero-value default.
func flagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// commitInfo returns the best available commit identifier. It prefers the
// Commit string set via ldflags, falling back to CommitHash.
func commitInfo() string {
	if build.Commit != "" {
		return build.Commit
	}
	if build.CommitHash != "" {
		return build.CommitHash
	}
	return "dev"
}
