package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/benrowan/crusty-crawler/internal/server/auth"
	"github.com/benrowan/crusty-crawler/internal/server/lifecycle"
)

// App is the interactive frontend. It holds the configured port locally so
// "Change Port" takes effect on the next start without touching the config
// file.
type App struct {
	store   *auth.Store
	runtime *lifecycle.Controller
	port    int

	in  *bufio.Reader
	out io.Writer
}

func NewApp(store *auth.Store, runtime *lifecycle.Controller, port int, in io.Reader, out io.Writer) *App {
	return &App{
		store:   store,
		runtime: runtime,
		port:    port,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run drives the whole interactive session: first-run setup when the store
// is empty, then the main menu until exit or EOF.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Crusty-Crawler CLI Mode")
	fmt.Fprintln(a.out, "=======================")

	if !a.store.HasUsers() {
		fmt.Fprintln(a.out, "Welcome! First-time setup required.")
		if err := a.setupWizard(); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(a.out, "Configuration found.")
	}

	return a.mainMenu(ctx)
}

func (a *App) mainMenu(ctx context.Context) error {
	for {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Main Menu")
		fmt.Fprintln(a.out, "---------")
		fmt.Fprintln(a.out, "1. Start Server")
		fmt.Fprintln(a.out, "2. Stop Server")
		fmt.Fprintln(a.out, "3. Server Status")
		fmt.Fprintln(a.out, "4. Change Port")
		fmt.Fprintln(a.out, "5. Configure SMTP")
		fmt.Fprintln(a.out, "6. View Configuration")
		fmt.Fprintln(a.out, "7. Run as Service (daemon mode)")
		fmt.Fprintln(a.out, "8. Exit")

		choice, err := getSimpleText(a.in, "\nSelect option (1-8)", a.out)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		switch choice {
		case "1":
			a.startServer(ctx)
		case "2":
			a.stopServer()
		case "3":
			a.showStatus()
		case "4":
			a.changePort()
		case "5":
			a.configureSMTP()
		case "6":
			a.viewConfig()
		case "7":
			a.runDaemon(ctx)
		case "8":
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		case "recover":
			a.recoverCredentials(ctx)
		default:
			fmt.Fprintln(a.out, "Invalid option. Please try again.")
		}
	}
}

func (a *App) startServer(ctx context.Context) {
	fmt.Fprintf(a.out, "Starting server on port %d...\n", a.port)

	if err := a.runtime.Start(a.port); err != nil {
		fmt.Fprintf(a.out, "Failed to start: %v\n", err)
		return
	}

	fmt.Fprintln(a.out, "Server started successfully!")
	fmt.Fprintf(a.out, "Access at: http://localhost:%d\n", a.port)
	fmt.Fprintf(a.out, "Network access: http://[YOUR-IP]:%d\n", a.port)
}

func (a *App) stopServer() {
	if err := a.runtime.Stop(); err != nil {
		fmt.Fprintf(a.out, "Failed to stop: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Server stopped successfully!")
}

func (a *App) showStatus() {
	running, port := a.runtime.Status()

	fmt.Fprintln(a.out, "Server Status")
	fmt.Fprintln(a.out, "-------------")
	if running {
		fmt.Fprintln(a.out, "Status: Running")
		fmt.Fprintf(a.out, "Port: %d\n", port)
		fmt.Fprintf(a.out, "Local URL: http://localhost:%d\n", port)
	} else {
		fmt.Fprintln(a.out, "Status: Stopped")
		fmt.Fprintf(a.out, "Port: %d\n", a.port)
	}
}

func (a *App) changePort() {
	if running, _ := a.runtime.Status(); running {
		fmt.Fprintln(a.out, "Please stop the server before changing the port.")
		return
	}

	v, err := getSimpleText(a.in, "Enter new port number (1024-65535)", a.out)
	if err != nil {
		return
	}

	port, err := strconv.Atoi(v)
	if err != nil || port < 1024 || port > 65535 {
		fmt.Fprintln(a.out, "Invalid port number. Must be between 1024 and 65535.")
		return
	}

	a.port = port
	fmt.Fprintf(a.out, "Port changed to %d\n", port)
}

func (a *App) configureSMTP() {
	fmt.Fprintln(a.out, "SMTP Configuration")
	fmt.Fprintln(a.out, "------------------")

	server, err := getSimpleText(a.in, "SMTP Server", a.out)
	if err != nil {
		return
	}

	portStr, err := getSimpleText(a.in, "Port (e.g., 587)", a.out)
	if err != nil {
		return
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		fmt.Fprintln(a.out, "Invalid port number.")
		return
	}

	username, err := getSimpleText(a.in, "Username", a.out)
	if err != nil {
		return
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return
	}

	tlsAnswer, err := getSimpleText(a.in, "Use TLS? (Y/n)", a.out)
	if err != nil {
		return
	}

	cfg := auth.SMTPConfig{
		Server:   server,
		Port:     port,
		Username: username,
		Password: password,
		UseTLS:   yes(tlsAnswer),
	}

	if err := a.store.ConfigureSMTP(cfg); err != nil {
		fmt.Fprintf(a.out, "Failed to save configuration: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "SMTP configuration saved!")
}

func (a *App) viewConfig() {
	fmt.Fprintln(a.out, "Configuration")
	fmt.Fprintln(a.out, "-------------")
	fmt.Fprintf(a.out, "Port: %d\n", a.port)
	fmt.Fprintf(a.out, "Registered Users: %d\n", a.store.UserCount())
	if a.store.SMTPConfigured() {
		fmt.Fprintln(a.out, "SMTP Configured: Yes")
	} else {
		fmt.Fprintln(a.out, "SMTP Configured: No")
	}
}

// runDaemon starts the server and blocks until Ctrl+C, then stops it.
func (a *App) runDaemon(ctx context.Context) {
	fmt.Fprintln(a.out, "Starting in daemon mode...")

	if err := a.runtime.Start(a.port); err != nil {
		fmt.Fprintf(a.out, "Failed to start: %v\n", err)
		return
	}

	fmt.Fprintln(a.out, "Server is running. Press Ctrl+C to stop.")

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	fmt.Fprintln(a.out, "\nShutting down...")
	if err := a.runtime.Stop(); err != nil {
		fmt.Fprintf(a.out, "Failed to stop: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Server stopped successfully!")
}

// recoverCredentials emails a registered user their username and access
// token through the configured SMTP channel.
func (a *App) recoverCredentials(ctx context.Context) {
	email, err := getSimpleText(a.in, "Enter the account email address", a.out)
	if err != nil {
		return
	}

	if err := a.store.Recover(ctx, email); err != nil {
		fmt.Fprintf(a.out, "Recovery failed: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Recovery message sent.")
}
