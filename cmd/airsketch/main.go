package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/config"
	"github.com/ayusman/airsketch/internal/discovery"
	"github.com/ayusman/airsketch/internal/server"
	"github.com/ayusman/airsketch/internal/store"
	"github.com/ayusman/airsketch/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	withTray := flag.Bool("tray", false, "show the system tray menu")
	writeConfig := flag.String("write-config", "", "write the effective config to this path and exit")
	flag.Parse()

	fmt.Println("AirSketch - Gesture Drawing")

	cfg, err := config.Load(expandHome(*configPath))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *withTray {
		cfg.Tray = true
	}

	if *writeConfig != "" {
		path := expandHome(*writeConfig)
		if err := cfg.Save(path); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Wrote config to %s\n", path)
		return
	}

	// Initialize the store
	dataDir := expandHome(cfg.DataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "airsketch.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a, err := app.New(app.Config{
		Preferences:     st.Settings(),
		CameraID:        cfg.CameraID,
		Width:           cfg.Canvas.Width,
		Height:          cfg.Canvas.Height,
		HistoryCapacity: cfg.Canvas.HistoryCapacity,
		TapCooldown:     cfg.Gesture.TapCooldown(),
		FirstMatch:      cfg.Gesture.FirstMatch,
	})
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDone := make(chan struct{})
	go func() {
		defer close(appDone)
		a.Run(ctx)
	}()

	if err := a.Start(); err != nil {
		log.Printf("Camera unavailable, touch input only: %v", err)
	}
	defer a.Stop()

	// Find web directory
	webDir := findWebDir(expandHome(cfg.StaticDir), dataDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	if cfg.MDNS {
		if port, err := listenPort(cfg.Addr); err != nil {
			log.Printf("Not advertising over mDNS: %v", err)
		} else if adv, err := discovery.Advertise(port); err != nil {
			log.Printf("Not advertising over mDNS: %v", err)
		} else {
			defer adv.Shutdown()
			log.Printf("Advertising %s on port %d", discovery.ServiceType, port)
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		serveErr <- srv.Serve(ctx, cfg.Addr)
	}()

	if cfg.Tray {
		runTray(ctx, stop, a, cfg.Addr)
	}

	select {
	case err := <-serveErr:
		if err != nil {
			log.Printf("Server failed: %v", err)
		}
		stop()
	case <-ctx.Done():
		<-serveErr
	}
	<-appDone
}

// runTray blocks on the tray menu until Quit is chosen or ctx is done.
func runTray(ctx context.Context, stop context.CancelFunc, a *app.App, addr string) {
	post := func(ev app.Event) func() {
		return func() {
			if err := a.Post(ev); err != nil {
				log.Printf("Tray action dropped: %v", err)
			}
		}
	}

	t := tray.New(tray.Actions{
		ToggleDraw: post(app.ControlEvent{Name: app.ControlToggleDraw}),
		Undo:       post(app.ControlEvent{Name: app.ControlUndo}),
		Redo:       post(app.ControlEvent{Name: app.ControlRedo}),
		Clear:      post(app.CommandEvent{ID: app.CommandClear}),
		Open:       func() { openBrowser(browserURL(addr)) },
		Quit:       stop,
	})

	unsubscribe := a.Subscribe(func(n app.Notification) {
		if n.Tool != nil {
			t.SetDrawEnabled(n.Tool.DrawEnabled)
		}
		t.SetHistory(n.Undo, n.Redo)
	})
	defer unsubscribe()

	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// listenPort extracts the TCP port from a listen address such as ":8080".
func listenPort(addr string) (int, error) {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", p)
	}
	return port, nil
}

func browserURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir returns the configured static directory if it exists, else
// searches "web", "../web", "../../web" and dataDir/web.
// Returns an empty string if none is found.
func findWebDir(configured, dataDir string) string {
	candidates := []string{configured, "web", "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}
	return ""
}
