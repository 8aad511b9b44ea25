package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/labkit/internal"
	"github.com/starford/labkit/internal/export"
	"github.com/starford/labkit/internal/inventory"
	"github.com/starford/labkit/internal/models"
	"github.com/starford/labkit/internal/notebook"
	"github.com/starford/labkit/internal/report"
	pkgconfig "github.com/starford/labkit/pkg/config"
)

func loadApp(cmd *cli.Command) (*internal.App, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return internal.NewApp(cfg)
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runSync(_ context.Context, cmd *cli.Command) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	if err := app.SyncIndex(); err != nil {
		return err
	}
	n, err := app.Index.Count("")
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d records\n", n)
	return nil
}

func runSearch(_ context.Context, cmd *cli.Command) error {
	keyword := cmd.Args().First()
	if keyword == "" {
		return fmt.Errorf("usage: search <keyword>")
	}
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	if err := app.SyncIndex(); err != nil {
		return err
	}
	results, err := app.Search(keyword, cmd.String("kind"), int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Printf("%-10s %-40s %s\n", r.Kind, r.ID, r.Name)
	}
	fmt.Printf("%d matching records\n", len(results))
	return nil
}

func runReportExperiment(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: report experiment <id>")
	}
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	exp, err := app.Notebook.Load(id)
	if err != nil {
		return err
	}
	path, err := app.Reports.Write(exp.ID+"_report.txt", report.Experiment(exp, time.Now()))
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runReportProtocol(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: report protocol <id>")
	}
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	p, err := app.Protocols.Load(id)
	if err != nil {
		return err
	}
	path, err := app.Reports.Write(p.ID+"_summary.txt", report.ProtocolSummary(p, time.Now()))
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runReportInventory(_ context.Context, cmd *cli.Command) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	samples, err := app.Inventory.List(inventory.Filter{})
	if err != nil {
		return err
	}
	path, err := app.Reports.Write("inventory_report.txt", report.Inventory(samples, time.Now()))
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runReportWeekly(_ context.Context, cmd *cli.Command) error {
	start, end := cmd.String("start"), cmd.String("end")
	if start == "" || end == "" {
		return fmt.Errorf("usage: report weekly --start <ts> --end <ts>")
	}
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	summaries, err := app.Notebook.List(notebook.Filter{})
	if err != nil {
		return err
	}
	experiments := make([]models.Experiment, 0, len(summaries))
	for _, s := range summaries {
		exp, err := app.Notebook.Load(s.ID)
		if err != nil {
			return err
		}
		experiments = append(experiments, *exp)
	}
	path, err := app.Reports.Write("weekly_summary.txt", report.Weekly(experiments, start, end, time.Now()))
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runChecklist(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: report checklist <id>")
	}
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	p, err := app.Protocols.Load(id)
	if err != nil {
		return err
	}
	path, err := app.Reports.Write(p.ID+"_checklist.txt", report.Checklist(p))
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runExportExperiments(_ context.Context, cmd *cli.Command) error {
	out := cmd.Args().First()
	if out == "" {
		out = "experiments_summary.csv"
	}
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	summaries, err := app.Notebook.List(notebook.Filter{})
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.Experiments(f, summaries); err != nil {
		return err
	}
	fmt.Printf("exported %d experiments to %s\n", len(summaries), out)
	return nil
}

func runExportInventory(_ context.Context, cmd *cli.Command) error {
	out := cmd.Args().First()
	if out == "" {
		out = "inventory_export.csv"
	}
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	samples, err := app.Inventory.List(inventory.Filter{})
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.Inventory(f, samples); err != nil {
		return err
	}
	fmt.Printf("exported %d samples to %s\n", len(samples), out)
	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "labkit",
		Usage: "Laboratory record-keeping toolkit: protocols, experiments, sample inventory and reports",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "watch",
				Usage:  "Keep the search index in sync with the record stores",
				Action: runWatch,
			},
			{
				Name:   "sync",
				Usage:  "Run one full index sync and exit",
				Action: runSync,
			},
			{
				Name:      "search",
				Usage:     "Search all record kinds by keyword",
				ArgsUsage: "<keyword>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Usage: "Restrict to protocol, experiment or sample"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of results", Value: 20},
				},
				Action: runSearch,
			},
			{
				Name:  "report",
				Usage: "Compile a report into the reports directory",
				Commands: []*cli.Command{
					{Name: "experiment", ArgsUsage: "<id>", Action: runReportExperiment},
					{Name: "protocol", ArgsUsage: "<id>", Action: runReportProtocol},
					{Name: "inventory", Action: runReportInventory},
					{
						Name: "weekly",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "start", Usage: "Period start (record timestamp format)"},
							&cli.StringFlag{Name: "end", Usage: "Period end (record timestamp format)"},
						},
						Action: runReportWeekly,
					},
					{Name: "checklist", ArgsUsage: "<id>", Action: runChecklist},
				},
			},
			{
				Name:  "export",
				Usage: "Export record summaries as CSV",
				Commands: []*cli.Command{
					{Name: "experiments", ArgsUsage: "[file]", Action: runExportExperiments},
					{Name: "inventory", ArgsUsage: "[file]", Action: runExportInventory},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
