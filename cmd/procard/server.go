package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/procard/internal/alert"
	"github.com/kalambet/procard/internal/api"
	"github.com/kalambet/procard/internal/config"
	"github.com/kalambet/procard/internal/picker"
	"github.com/kalambet/procard/internal/profile"
	"github.com/kalambet/procard/internal/session"
	"github.com/kalambet/procard/internal/share"
)

const shutdownTimeout = 5 * time.Second

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the procard server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		withMCP, _ := cmd.Flags().GetBool("mcp")
		return runServer(withMCP)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running procard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show procard server status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func init() {
	startCmd.Flags().Bool("mcp", false, "also serve MCP tools on stdin/stdout")
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "procard.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func parseLogLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// services is the in-memory profile session the server exposes.
type services struct {
	store   *profile.Store
	nav     *session.Navigator
	library *picker.Library
	sharer  share.Service
}

// newServices builds the store, navigator, photo library and share target
// from cfg. Shared messages printed for the "stdout" target go to shareOut.
func newServices(cfg config.Config, shareOut io.Writer) (*services, error) {
	seed, err := profile.LoadSeed(cfg.Seed.Path)
	if err != nil {
		return nil, fmt.Errorf("loading seed profile: %w", err)
	}
	policy, err := profile.ParseIDPolicy(cfg.Interests.IDPolicy)
	if err != nil {
		return nil, err
	}
	perm, err := picker.ParsePermission(cfg.Picker.Permission)
	if err != nil {
		return nil, err
	}
	sharer, err := share.New(cfg.Share.Target, shareOut)
	if err != nil {
		return nil, err
	}

	store := profile.NewStore(seed)
	library := picker.NewLibrary(cfg.Picker.LibraryDir, perm)
	nav := session.New(store, session.Options{
		Picker:   library,
		IDPolicy: policy,
		Alerts:   alert.Logger{},
	})
	return &services{store: store, nav: nav, library: library, sharer: sharer}, nil
}

func (s *services) handler(token string) http.Handler {
	return api.NewAppHandler(api.AppDeps{
		Navigator: s.nav,
		Library:   s.library,
		Sharer:    s.sharer,
		Token:     token,
	})
}

func (s *services) mcpServer() *server.MCPServer {
	return api.NewMCPServer(api.MCPDeps{
		Navigator: s.nav,
		Library:   s.library,
		Sharer:    s.sharer,
	})
}

// stdio carries the MCP transport. A nil MCP server disables it.
type stdio struct {
	mcp *server.MCPServer
	in  io.Reader
	out io.Writer
}

// serve runs the HTTP API on ln, and MCP over stdio if configured, until
// ctx is cancelled or either fails.
func serve(ctx context.Context, ln net.Listener, handler http.Handler, sio stdio) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if sio.mcp != nil {
		g.Go(func() error {
			stdioSrv := server.NewStdioServer(sio.mcp)
			if err := stdioSrv.Listen(gctx, sio.in, sio.out); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("MCP stdio server: %w", err)
			}
			return nil
		})
		slog.Info("MCP server started (stdio transport)")
	}

	return g.Wait()
}

func runServer(withMCP bool) error {
	fmt.Fprintf(stderr, "procard version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(cfg.Log.Level)})))

	apiToken, err := config.GetAPIToken(config.NewKeychain())
	if err != nil {
		return fmt.Errorf("initializing API token: %w", err)
	}
	slog.Info("API bearer token available")

	pidPath := pidFilePath(config.DataDir())
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("procard is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("procard is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// With MCP on stdio, stdout belongs to the protocol.
	var shareOut io.Writer = os.Stdout
	if withMCP {
		shareOut = os.Stderr
	}
	svc, err := newServices(cfg, shareOut)
	if err != nil {
		return err
	}
	slog.Info("profile loaded", "name", svc.store.Record().DisplayName(), "library", cfg.Picker.LibraryDir, "id_policy", cfg.Interests.IDPolicy)

	sio := stdio{in: os.Stdin, out: os.Stdout}
	if withMCP {
		sio.mcp = svc.mcpServer()
		cancelWatch := api.WatchProfile(sio.mcp, svc.store)
		defer cancelWatch()
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	fmt.Fprintf(stderr, "procard listening on %s\n", addr)

	err = serve(ctx, ln, svc.handler(apiToken), sio)
	fmt.Fprintln(stderr, "shutting down...")
	return err
}

func stopServer() error {
	pidPath := pidFilePath(config.DataDir())
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("procard is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop procard (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to procard (PID %d)", pid)
	return nil
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		// Still show partial status even if config fails.
		printError("config error: %v", err)
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port))
	running := false
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			running = true
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	if running {
		if c, err := newAPIClient(); err == nil {
			c.httpClient = client
			printSessionStatus(ctx, c)
		}
	}

	printStatus("Photo library", "%s (%s)", cfg.Picker.LibraryDir, cfg.Picker.Permission)
	printStatus("Share target", "%s", cfg.Share.Target)
	printStatus("Interest ids", "%s", cfg.Interests.IDPolicy)
	printStatus("Data dir", "%s", config.DataDir())
	return nil
}

func printSessionStatus(ctx context.Context, c *apiClient) {
	var summary struct {
		Summary string `json:"summary"`
	}
	if err := c.call(ctx, http.MethodGet, "/profile/summary", nil, &summary); err == nil {
		printStatus("Profile", "%s", summary.Summary)
	}

	var v session.View
	err := c.call(ctx, http.MethodGet, "/editor", nil, &v)
	var apiErr *apiError
	switch {
	case err == nil:
		printStatus("Editor", "open (%s, since %s)", v.ID, v.OpenedAt.Format(time.Kitchen))
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
		printStatus("Editor", "none")
	}
}
