package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"github.com/nick-dorsch/todoboard/internal/config"
	"github.com/nick-dorsch/todoboard/internal/export"
	"github.com/nick-dorsch/todoboard/internal/mcp"
	"github.com/nick-dorsch/todoboard/internal/server"
	"github.com/nick-dorsch/todoboard/internal/ui"
	"github.com/nick-dorsch/todoboard/pkg/models"
)

var errUnknownCommand = errors.New("unknown command")

// runMenu is swapped out in tests.
var runMenu = ui.RunMenu

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("todoboard", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "Path to a TOML, YAML or JSON config file")
	fs.StringVar(&opts.seedPath, "seed", "", "Path to a TOML, YAML or JSON seed file (overrides config)")
	fs.StringVar(&opts.mirrorJSONL, "mirror-jsonl", "", "Mirror the collection to this JSONL file (overrides config)")
	fs.StringVar(&opts.mirrorSQLite, "mirror-sqlite", "", "Mirror the collection to this SQLite database (overrides config)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: todoboard [flags] <dashboard|web|mcp|list|stats|export> [arguments]")
		fmt.Fprintln(fs.Output(), "\nFlags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	var command string
	var rest []string
	if fs.NArg() == 0 {
		selected, err := runMenu()
		if err != nil {
			return fmt.Errorf("run menu: %w", err)
		}
		if selected == "" {
			return nil
		}
		command = selected
	} else {
		command = fs.Arg(0)
		rest = fs.Args()[1:]
	}

	switch command {
	case "dashboard", "web", "mcp", "list", "stats", "export":
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, command)
	}

	// The dashboard owns the terminal, so its logs go nowhere.
	logOut := stderr
	if command == "dashboard" {
		logOut = io.Discard
	}

	a, err := newApp(ctx, opts, logOut)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Error("failed to close mirrors", "err", err)
		}
	}()

	switch command {
	case "dashboard":
		return ui.RunDashboard(ctx, a.todos)
	case "web":
		return runWeb(ctx, a, rest)
	case "mcp":
		return mcp.Serve(mcp.NewServer(a.todos))
	case "list":
		return runList(a, rest, stdout)
	case "stats":
		return runStats(a, stdout)
	default:
		return runExport(a, rest, stdout)
	}
}

func runWeb(ctx context.Context, a *app, args []string) error {
	webFlags := flag.NewFlagSet("web", flag.ContinueOnError)
	port := webFlags.String("port", a.cfg.HTTP.Port, "Port to listen on")
	if err := webFlags.Parse(args); err != nil {
		return err
	}

	if a.cfg.Env == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.NewServer(a.todos, a.logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(net.JoinHostPort(a.cfg.HTTP.Host, *port))
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runList(a *app, args []string, stdout io.Writer) error {
	listFlags := flag.NewFlagSet("list", flag.ContinueOnError)
	statusFilter := listFlags.String("status", "", "Filter by status (pending, in_progress, completed)")
	if err := listFlags.Parse(args); err != nil {
		return err
	}

	todos := a.todos.List()
	if *statusFilter != "" {
		status, err := models.ParseTodoStatus(*statusFilter)
		if err != nil {
			return err
		}
		todos = a.todos.FilterByStatus(status)
	}

	fmt.Fprintf(stdout, "%-4s %-35s %-12s %-11s %s\n", "ID", "TITLE", "STATUS", "DUE", "OVERDUE")
	fmt.Fprintln(stdout, "----------------------------------------------------------------------------")
	for _, t := range todos {
		overdue := ""
		if a.todos.IsOverdue(t) {
			overdue = "yes"
		}
		fmt.Fprintf(stdout, "%-4d %-35s %-12s %-11s %s\n",
			t.ID, t.Title, t.Status.Label(), export.FormatDate(t.DueDate, "N/A"), overdue)
	}
	return nil
}

func runStats(a *app, stdout io.Writer) error {
	stats := a.todos.Stats()

	fmt.Fprintln(stdout, "Todo Statistics")
	fmt.Fprintln(stdout, "===============")
	fmt.Fprintf(stdout, "Total:           %d\n", stats.Total)
	fmt.Fprintf(stdout, "  Completed:     %d\n", stats.Completed)
	fmt.Fprintf(stdout, "  In Progress:   %d\n", stats.InProgress)
	fmt.Fprintf(stdout, "  Pending:       %d\n", stats.Pending)
	fmt.Fprintf(stdout, "Completion Rate: %d%%\n", a.todos.CompletionRate())
	fmt.Fprintf(stdout, "Overdue:         %d\n", len(a.todos.Overdue()))
	return nil
}

func runExport(a *app, args []string, stdout io.Writer) error {
	exportFlags := flag.NewFlagSet("export", flag.ContinueOnError)
	format := exportFlags.String("format", "json", "Report format ("+strings.Join(export.Formats(), ", ")+")")
	out := exportFlags.String("out", "", "Write the report to this file instead of stdout")
	if err := exportFlags.Parse(args); err != nil {
		return err
	}

	data, err := export.NewExporter(a.todos, a.todos.Now).Export(*format)
	if err != nil {
		return err
	}

	if *out == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	a.logger.Info("exported report", "format", *format, "path", *out)
	return nil
}
