package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"venmoctl/lib/configutil"
	configlibsql "venmoctl/lib/configutil/libsql"
	"venmoctl/lib/restyutil"
	"venmoctl/lib/scrapers/venmo"
	"venmoctl/lib/scrapers/venmo/credstore"
	"venmoctl/lib/serviceutil"
	"venmoctl/lib/telemetry"

	"github.com/spf13/cobra"
)

var debugLogging *bool

var rootCmd = &cobra.Command{
	Use:   "venmoctl",
	Short: "venmoctl drives a venmo web session: login, feed, search and payments.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*debugLogging)
	},
}

func init() {
	debugLogging = rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	Db configlibsql.Struct `json:"db"`
	// when set, every http exchange is dumped to a file in this directory
	DebugHttpDir string `json:"debug_http_dir"`
	// overridable for testing against a local double
	WebBaseUrl     string `json:"web_base_url"`
	AccountBaseUrl string `json:"account_base_url"`
	ApiBaseUrl     string `json:"api_base_url"`
}

// setupClient reads venmoctl.json5 (searching up from the cwd), opens
// the credential database and bootstraps a session from whatever
// cookies survived the last run.
func setupClient(ctx context.Context) *venmo.Client {
	cfg, err := configutil.ReadRecursively[Config]("venmoctl.json5")
	if err != nil {
		slog.Debug("no venmoctl.json5 found, using defaults", "err", err)
	}
	if cfg.Db.File == "" {
		cfg.Db.File = "venmoctl.db"
	}

	database, err := cfg.Db.OpenDB()
	if err != nil {
		serviceutil.Fatal("failed to open credential database", err)
	}
	creds, err := credstore.New(database)
	if err != nil {
		serviceutil.Fatal("failed to initialize credential store", err)
	}

	var debugOutput restyutil.InstrumentOutput
	if cfg.DebugHttpDir != "" {
		debugOutput = restyutil.NewFilesystemOutput(cfg.DebugHttpDir)
	}

	client, err := venmo.NewClient(ctx, venmo.ClientOptions{
		Credentials:    creds,
		WebBaseUrl:     cfg.WebBaseUrl,
		AccountBaseUrl: cfg.AccountBaseUrl,
		ApiBaseUrl:     cfg.ApiBaseUrl,
		DebugOutput:    debugOutput,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize client", err)
	}

	err = client.Bootstrap(ctx)
	if err != nil {
		serviceutil.Fatal("failed to initialize session", err)
	}
	return client
}

// requireProfile returns the account identity, prompting for a login
// when the persisted session has gone stale.
func requireProfile(ctx context.Context, client *venmo.Client) venmo.Identity {
	if client.LoggedIn(ctx) {
		identity, err := client.Profile(ctx)
		if err == nil {
			return identity
		}
		slog.Warn("session looks authenticated but the profile fetch failed", "err", err)
	}

	promptLogin(ctx, client)
	identity, err := client.Profile(ctx)
	if err != nil {
		serviceutil.Fatal("failed to fetch profile", err)
	}
	return identity
}

func promptLogin(ctx context.Context, client *venmo.Client) {
	username := prompt("username: ")
	password := prompt("password: ")

	profile, err := client.Login(ctx, username, password)
	if err != nil {
		serviceutil.Fatal("failed to login", err)
	}
	slog.Info("logged in", "username", profile.Username)
}

func prompt(label string) string {
	fmt.Print(label)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		err := scanner.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		serviceutil.Fatal("failed to read input", err)
	}
	return strings.TrimSpace(scanner.Text())
}
