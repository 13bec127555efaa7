package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"time"
)

// browserMethod represents a method to open the browser
type browserMethod struct {
	name string
	cmd  string
	args []string
}

// getBrowserOpenMethods returns platform-specific browser opening methods
func getBrowserOpenMethods(goos, url string) []browserMethod {
	switch goos {
	case "windows":
		return []browserMethod{
			{name: "rundll32", cmd: "rundll32", args: []string{"url.dll,FileProtocolHandler", url}},
			{name: "start_command", cmd: "cmd", args: []string{"/c", "start", "", url}},
		}
	case "darwin":
		return []browserMethod{
			{name: "open", cmd: "open", args: []string{url}},
		}
	default:
		return []browserMethod{
			{name: "xdg-open", cmd: "xdg-open", args: []string{url}},
			{name: "sensible-browser", cmd: "sensible-browser", args: []string{url}},
		}
	}
}

// openBrowser tries each platform method until one starts
func openBrowser(ctx context.Context, logger *slog.Logger, url string) error {
	var lastErr error
	for _, method := range getBrowserOpenMethods(runtime.GOOS, url) {
		cmd := exec.CommandContext(ctx, method.cmd, method.args...)
		if err := cmd.Start(); err != nil {
			lastErr = err
			logger.DebugContext(ctx, "Browser open method failed",
				slog.String("method", method.name),
				slog.String("error", err.Error()))
			continue
		}
		go cmd.Wait()

		logger.InfoContext(ctx, "Browser opened",
			slog.String("method", method.name),
			slog.String("url", url))
		return nil
	}
	return fmt.Errorf("failed to open browser: %w", lastErr)
}

// openWhenReady waits for the server to answer and then opens url
func (a *Application) openWhenReady(ctx context.Context, url string) {
	if err := waitReady(ctx, url, 10, 500*time.Millisecond); err != nil {
		a.Logger.WarnContext(ctx, "Server did not become ready for browser opening",
			slog.String("url", url),
			slog.String("error", err.Error()))
		return
	}
	if err := openBrowser(context.WithoutCancel(ctx), a.Logger, url); err != nil {
		a.Logger.WarnContext(ctx, "Open the dashboard manually",
			slog.String("url", url),
			slog.String("error", err.Error()))
	}
}
