// Command boxpusher serves and plays box pushing levels.
//
// Subcommands:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" – plays a level in the terminal
//  4. "validate", "solve", "schema" – level authoring tools
//
// Flags control host/port, level directory, session storage, debug logging,
// and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/boxpusher/api"
	"github.com/wricardo/boxpusher/game/config"
	"github.com/wricardo/boxpusher/game/service"
	"github.com/wricardo/boxpusher/game/session"
	"github.com/wricardo/boxpusher/game/solver"
	"github.com/wricardo/boxpusher/transport/mcp"
	"github.com/wricardo/boxpusher/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Box Pusher Server"
)

const (
	storeFile     = "file"
	storePostgres = "postgres"
)

// main loads .env, builds the command tree and runs it until a signal arrives
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
		&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
		&cli.StringFlag{Name: "store", Value: storeFile, Usage: "session store: file or postgres", Sources: cli.EnvVars("SESSION_STORE")},
		&cli.StringFlag{Name: "sessions-dir", Value: "sessions", Usage: "directory for file session storage", Sources: cli.EnvVars("SESSIONS_DIR")},
		&cli.StringFlag{Name: "dsn", Usage: "PostgreSQL connection string for the postgres store", Sources: cli.EnvVars("DATABASE_URL")},
		&cli.IntFlag{Name: "hint-budget", Value: solver.DefaultMaxStates, Usage: "arrangements a hint may explore"},
		&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
		&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
		&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "boxpusher",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "levels", Value: "configs", Usage: "Directory containing level files", Sources: cli.EnvVars("LEVELS_DIR", "CONFIG_DIR")},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", Sources: cli.EnvVars("DEBUG")},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// Load .env file if it exists (ignore error if not found)
			if err := godotenv.Load(); err != nil {
				if !os.IsNotExist(err) {
					log.Printf("Warning: Error loading .env file: %v", err)
				}
			}
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run HTTP server with API, WebSocket, and MCP endpoint",
				Flags:  serverFlags(),
				Action: serveAction,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Flags:   serverFlags(),
				Action:  mcpAction,
			},
			playCommand(),
			validateCommand(),
			solveCommand(),
			schemaCommand(),
		},
		DefaultCommand: "serve",
	}
}

// serverOptions is what initializeServices needs from the command line
type serverOptions struct {
	levelsDir   string
	store       string
	sessionsDir string
	dsn         string
	hintBudget  int
	debug       bool
}

func optionsFrom(cmd *cli.Command) serverOptions {
	return serverOptions{
		levelsDir:   cmd.String("levels"),
		store:       cmd.String("store"),
		sessionsDir: cmd.String("sessions-dir"),
		dsn:         cmd.String("dsn"),
		hintBudget:  int(cmd.Int("hint-budget")),
		debug:       cmd.Bool("debug"),
	}
}

// services bundles the wired game service with what the background routines need
type services struct {
	game        service.GameService
	sessions    *session.Manager
	persistence session.SessionPersistence
	closers     []io.Closer
}

func (s *services) Close() {
	if err := s.sessions.SaveAllSessions(); err != nil {
		log.Printf("Failed to save sessions: %v", err)
	}
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}
}

// initializeServices wires level/session managers and the game service
func initializeServices(opts serverOptions) (*services, error) {
	// Create level manager first (needed for persistence)
	levels, err := config.NewManager(opts.levelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create level manager: %w", err)
	}

	svc := &services{}
	switch opts.store {
	case storeFile, "":
		fp, err := session.NewFilePersistence(opts.sessionsDir, levels)
		if err != nil {
			return nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		svc.persistence = fp
	case storePostgres:
		if opts.dsn == "" {
			return nil, fmt.Errorf("postgres store requires --dsn or DATABASE_URL")
		}
		pp, err := session.NewPostgresPersistence(opts.dsn, levels)
		if err != nil {
			return nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		svc.persistence = pp
		svc.closers = append(svc.closers, pp)
	default:
		return nil, fmt.Errorf("unknown session store %q (use %s or %s)", opts.store, storeFile, storePostgres)
	}

	svc.sessions = session.NewManagerWithPersistence(svc.persistence)

	// Load persisted sessions on startup
	if err := svc.sessions.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	svc.game = service.NewGameService(svc.sessions, levels,
		service.WithDebugLogging(opts.debug),
		service.WithHintBudget(opts.hintBudget),
	)
	return svc, nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	svc, err := initializeServices(optionsFrom(cmd))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svc.Close()

	go sessionCleanupRoutine(ctx, svc.sessions)
	go filesystemSyncRoutine(ctx, svc.sessions, svc.persistence)

	log.Printf("Starting %s v%s", AppName, Version)
	return runHTTPServer(ctx, cmd, svc.game)
}

// newRouter mounts the API server at root and the MCP endpoint at /mcp
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled it also provisions a public tunnel. It returns once ctx is done.
func runHTTPServer(ctx context.Context, cmd *cli.Command, gameService service.GameService) error {
	hubCtx, cancelHub := context.WithCancel(ctx)
	defer cancelHub()

	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	mainRouter := newRouter(api.NewServer(gameService, hub), mcp.NewClient(fmt.Sprintf("http://%s", addr)))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	var err error
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err = <-serveErr:
	}
	cancelHub()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Printf("HTTP server shutdown error: %v", shutdownErr)
	}

	wg.Wait()
	log.Println("Server stopped")
	return err
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is done
func runNgrokTunnel(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(24 * time.Hour); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// filesystemSyncRoutine periodically drops sessions from memory whose stored
// copy was deleted behind the server's back
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence) {
	if persistence == nil {
		return
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := pruneOrphanedSessions(manager, persistence); pruned > 0 {
				log.Printf("Store sync: pruned %d orphaned sessions from memory", pruned)
			}
		}
	}
}

func pruneOrphanedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, sess := range manager.List() {
		if persistence.Exists(sess.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			log.Printf("Pruned session %s from memory (stored copy deleted)", sess.ID)
		}
	}
	return pruned
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	// stdout carries the MCP protocol
	log.SetOutput(os.Stderr)

	svc, err := initializeServices(optionsFrom(cmd))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svc.Close()

	externalURL := fmt.Sprintf("http://localhost:%d", int(cmd.Int("port")))
	return runStdioMCPWithInternalServer(ctx, svc.game, externalURL)
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at externalURL; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, gameService service.GameService, externalURL string) error {
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")
	if err == nil && resp.StatusCode == http.StatusOK {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		if err == nil {
			resp.Body.Close()
		}
		log.Printf("No external API server found, starting internal HTTP server")

		internalURL, shutdown, err := startInternalServer(ctx, gameService)
		if err != nil {
			return err
		}
		defer shutdown()
		baseURL = internalURL
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// startInternalServer serves the API on a random loopback port and returns its base URL
func startInternalServer(ctx context.Context, gameService service.GameService) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hubCtx, cancelHub := context.WithCancel(ctx)
	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()

	addr := listener.Addr().String()
	log.Printf("Internal HTTP server on %s for MCP stdio", addr)

	shutdown := func() {
		cancelHub()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}
	return "http://" + addr, shutdown, nil
}
