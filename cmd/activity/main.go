// cmd/activity/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github-activity/internal/activity"
	"github-activity/internal/analytics"
	"github-activity/internal/cache"
	"github-activity/internal/config"
	"github-activity/internal/details"
	"github-activity/internal/github"
	"github-activity/internal/model"
)

var version = "dev"

type app struct {
	activity *activity.Service
	details  *details.Service
	cfg      *config.Config
	logger   *slog.Logger
}

// loadConfig reads .env.local, .env and the environment the same way the
// service does, then lets explicit flags win.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	applyFlags(c, cfg)
	return cfg, nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if t := c.String("token"); t != "" {
		cfg.GithubToken = t
	}
	if p := c.String("proxy"); p != "" {
		cfg.ProxyBaseURL = p
	}
	if d := c.Duration("timeout"); d > 0 {
		cfg.HTTPTimeout = d
		cfg.DetailFetchTimeout = d
	}
	if c.Bool("debug") {
		cfg.LogLevel = "debug"
	}
}

func newApp(c *cli.Context) (*app, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	clientOpts := []github.Option{
		github.WithTimeout(cfg.HTTPTimeout),
		github.WithRetry(cfg.MaxRetries, 500*time.Millisecond, 30*time.Second),
	}
	if cfg.GithubAPIURL != "" {
		clientOpts = append(clientOpts, github.WithBaseURL(cfg.GithubAPIURL))
	}
	if cfg.GithubGraphQLURL != "" {
		clientOpts = append(clientOpts, github.WithGraphQLURL(cfg.GithubGraphQLURL))
	}
	client, err := github.NewClient(cfg.GithubToken, logger, clientOpts...)
	if err != nil {
		return nil, err
	}

	limit := cfg.LanguageLimit
	if c.IsSet("limit") {
		limit = c.Int("limit")
	}
	opts := []activity.Option{activity.WithLanguageLimit(limit)}
	var fetcher details.Fetcher = client
	if cfg.ProxyBaseURL != "" {
		proxy := github.NewProxyClient(cfg.ProxyBaseURL, cfg.HTTPTimeout, logger)
		opts = append(opts, activity.WithProxy(proxy))
		if !cfg.HasToken() {
			fetcher = proxy
		}
	}

	return &app{
		activity: activity.NewService(client, cache.New(), logger, opts...),
		details:  details.NewService(fetcher, cfg.DetailFetchTimeout, logger),
		cfg:      cfg,
		logger:   logger,
	}, nil
}

func usernameArg(c *cli.Context, cfg *config.Config) string {
	if u := c.Args().First(); u != "" {
		return u
	}
	if cfg.GithubUsername != "" {
		return cfg.GithubUsername
	}
	return config.DefaultUsername
}

func runStats(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	username := usernameArg(c, a.cfg)

	color.Blue("\nTarget user: %s\n", username)
	result, err := a.activity.LoadActivity(c.Context, username, activity.LoadOptions{
		UseServerProxy: a.cfg.ProxyBaseURL != "",
	})
	if err != nil {
		return fmt.Errorf("load activity for %s: %w", username, err)
	}

	out := c.App.Writer
	for _, w := range result.Warnings {
		warnColor.Fprintf(out, "⚠️  %s\n", w)
	}
	printStats(out, result.Stats)
	printLanguages(out, result.Languages)
	if len(result.Contributions) > 0 {
		derived := analytics.Derive(result.Contributions)
		printDerived(out, derived)
		printMonthlyChart(out, derived.Months)
	}
	return nil
}

func runDay(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.ShowSubcommandHelp(c)
	}
	username, date := c.Args().Get(0), c.Args().Get(1)

	label, err := model.FormatDay(date)
	if err != nil {
		return err
	}

	a, err := newApp(c)
	if err != nil {
		return err
	}

	count := c.Int("count")
	if !c.IsSet("count") {
		cal, err := a.activity.Calendar(c.Context, username, activity.LoadOptions{UseServerProxy: a.cfg.ProxyBaseURL != ""})
		if err != nil {
			return fmt.Errorf("load contribution calendar: %w", err)
		}
		d, _ := cal.Day(date)
		count = d.Count
		a.logger.Debug("Calendar count looked up", "username", username, "date", date, "count", count)
	}

	list, err := a.details.FetchForView(c.Context, username, date, count)
	if err != nil {
		return fmt.Errorf("fetch details for %s: %w", date, err)
	}

	printDay(c.App.Writer, label, list, details.Reconcile(count, list))
	return nil
}

func main() {
	commonFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "GitHub personal access token",
			EnvVars: []string{"GITHUB_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "proxy",
			Aliases: []string{"p"},
			Usage:   "Base URL of the contribution proxy, used for contribution data",
			EnvVars: []string{"PROXY_BASE_URL"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-request timeout; defaults to HTTP_TIMEOUT and DETAIL_FETCH_TIMEOUT",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Log upstream requests to stderr",
		},
	}

	cliApp := &cli.App{
		Name:    "activity",
		Usage:   "Show a GitHub user's stats, languages and contribution analytics",
		Version: version,
		Flags:   commonFlags,
		Commands: []*cli.Command{
			{
				Name:      "stats",
				Usage:     "Print profile stats, top languages and contribution analytics",
				ArgsUsage: "[username]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Number of languages to show; defaults to LANGUAGE_LIMIT",
					},
				},
				Action: runStats,
			},
			{
				Name:      "day",
				Usage:     "Print the contributions behind one calendar day",
				ArgsUsage: "<username> <YYYY-MM-DD>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"c"},
						Usage:   "Calendar count for the day; looked up when omitted",
					},
				},
				Action: runDay,
			},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		color.Red("❌ Error: %v", err)
		os.Exit(1)
	}
}
