package main

import (
	"fmt"
	"os"

	"github.com/MondainMessiah/daily-boss-checker/internal/extract"
	"github.com/MondainMessiah/daily-boss-checker/internal/notify"
	"github.com/MondainMessiah/daily-boss-checker/internal/scraper"
	"github.com/MondainMessiah/daily-boss-checker/internal/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Prints the current ranking without posting it anywhere.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(false)
		if err != nil {
			fatal("fatal error", err)
		}

		svc := service.New(scraper.New(cfg), nil, cfg, nil)
		ranking, err := svc.Preview(cmd.Context())
		if err != nil {
			fatal(fmt.Sprintf("pipeline failed (%s)", service.ErrorType(err)), err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle("Server: " + ranking.Context)
		t.AppendHeader(table.Row{"#", "Boss", "Chance"})
		for i, b := range ranking.Bosses {
			t.AppendRow(table.Row{i + 1, b.Name, fmt.Sprintf("%d%%", extract.Percent(b.Chance))})
		}
		if ranking.Empty() {
			t.AppendFooter(table.Row{"", notify.EmptyText, ""})
		}
		t.Render()
	},
}
