package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weathernow/internal/config"
	"github.com/vzahanych/weathernow/internal/lookup"
	"github.com/vzahanych/weathernow/internal/render"
	"github.com/vzahanych/weathernow/internal/service"
)

func lookupCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lookup <city>",
		Short: "Look up the weather for a city once and print it",
		Example: `  weathernow lookup Hyderabad
  weathernow lookup New York --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := newLookupService(config.GetConfig())

			report, err := svc.Lookup(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			_, err = fmt.Fprintln(out, render.Card(report))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

// newLookupService builds the Open-Meteo backed lookup service shared by
// every command.
func newLookupService(cfg *config.Config) *lookup.Service {
	om := service.NewOpenMeteoServiceWithConfig(cfg.Weather, log.Logger, tele)
	return lookup.NewService(om, om, lookup.OptionsFromConfig(cfg.Weather), log.Logger, tele)
}
