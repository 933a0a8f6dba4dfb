// Command hooklistener-install downloads the hooklistener CLI release for
// the running platform, verifies it, and places it on the executable
// search path.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hooklistener/hooklistener-install/internal/bootstrap"
	"github.com/hooklistener/hooklistener-install/internal/verify"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

// envDebug enables debug logging when set to any non-empty value.
const envDebug = "HOOKLISTENER_INSTALL_DEBUG"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("hooklistener-install", flag.ContinueOnError)
	var (
		pinned          = fs.String("version", "", "install a specific release tag instead of the latest")
		installDir      = fs.String("install-dir", "", "install directory (overrides the platform default and $HOOKLISTENER_INSTALL_DIR)")
		localBinary     = fs.String("binary-path", "", "install a local binary file instead of downloading a release")
		modifyPath      = fs.Bool("modify-path", false, "append the install directory to your shell's PATH configuration")
		requireChecksum = fs.Bool("require-checksum", false, "fail instead of proceeding when checksum verification is unavailable")
		gpgKeyring      = fs.String("gpg-keyring", "", "verify the release signature against this GPG keyring file")
		quiet           = fs.Bool("quiet", false, "only report errors")
		showVersion     = fs.Bool("version-info", false, "print the installer version and exit")
	)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "hooklistener-install - install the hooklistener CLI")
		fmt.Fprintln(fs.Output())
		fmt.Fprintln(fs.Output(), "Usage:")
		fmt.Fprintln(fs.Output(), "  hooklistener-install [options]")
		fmt.Fprintln(fs.Output())
		fmt.Fprintln(fs.Output(), "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return bootstrap.ExitUsage
	}

	if *showVersion {
		fmt.Printf("hooklistener-install %s\n", Version)
		return bootstrap.ExitOK
	}

	logger := newLogger(*quiet)

	report, err := bootstrap.Run(context.Background(), bootstrap.Options{
		Version:         *pinned,
		InstallDir:      *installDir,
		LocalBinary:     *localBinary,
		ModifyPath:      *modifyPath,
		RequireChecksum: *requireChecksum,
		GPGKeyring:      *gpgKeyring,
		Logger:          logger,
		HandleSignals:   true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return bootstrap.ExitCode(err)
	}

	if !*quiet {
		printReport(report)
	}
	return bootstrap.ExitOK
}

// newLogger builds the run's logger. Warnings always surface (the
// verification-skipped state must never be silent); debug detail is gated
// by the debug env var; quiet keeps only errors.
func newLogger(quiet bool) *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv(envDebug) != "" {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// printReport writes the user-facing success summary.
func printReport(r *bootstrap.Report) {
	if r.Version != "" {
		fmt.Printf("Installed hooklistener %s (%s) to %s\n", r.Version, r.Target, r.InstalledPath)
	} else {
		fmt.Printf("Installed hooklistener to %s\n", r.InstalledPath)
	}
	if r.Replaced {
		fmt.Println("Replaced an existing installation.")
	}

	switch r.Verification.Outcome {
	case verify.OutcomeVerified:
		fmt.Printf("Integrity verified (%s).\n", r.Verification.Method)
	case verify.OutcomeSkipped:
		fmt.Printf("Integrity verification skipped: %s\n", r.Verification.Reason)
	}

	pu := r.PathUpdate
	switch {
	case pu.OnPath:
		// Nothing to do; the binary is immediately runnable.
	case pu.Mutated:
		fmt.Println("Added the install directory to your PATH; restart your shell for it to take effect.")
	case pu.RequiresRestart:
		fmt.Println("The install directory is already configured for your PATH; restart your shell for it to take effect.")
	case pu.Instruction != "":
		fmt.Printf("Note: %s\n", pu.Instruction)
	}
}
