package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/horoscope/internal/bootstrap"
	"github.com/yanqian/horoscope/internal/domain/horoscope"
)

type generateOptions struct {
	date   string
	zone   string
	city   string
	sun    float64
	moon   float64
	pretty bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the horoscope payload for a date and zone",
		Long: `Renders the same payload the API serves, for the configured fallback location.
Pass --sun and --moon together to skip the ephemeris and use explicit longitudes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			explicitSun := cmd.Flags().Changed("sun")
			explicitMoon := cmd.Flags().Changed("moon")
			if explicitSun != explicitMoon {
				return fmt.Errorf("--sun and --moon must be given together")
			}
			cfg, err := root.load()
			if err != nil {
				return err
			}
			rt, err := newServices(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			loc := bootstrap.HoroscopeLocation(cfg.Geo.Fallback)
			if opts.zone != "" {
				loc.TimeZone = opts.zone
			}
			if opts.city != "" {
				loc.City = opts.city
			}

			var resp horoscope.Response
			if explicitSun {
				resp, err = generateExplicit(rt.engine, loc, opts)
			} else {
				resp, err = rt.service.ForLocation(cmd.Context(), loc, opts.date)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd, resp, opts.pretty)
		},
	}
	cmd.Flags().StringVar(&opts.date, "date", "", "local date as YYYY-MM-DD (default: today in the zone)")
	cmd.Flags().StringVar(&opts.zone, "tz", "", "IANA time zone (default: fallback location zone)")
	cmd.Flags().StringVar(&opts.city, "city", "", "city label for the payload")
	cmd.Flags().Float64Var(&opts.sun, "sun", 0, "solar ecliptic longitude in degrees")
	cmd.Flags().Float64Var(&opts.moon, "moon", 0, "lunar ecliptic longitude in degrees")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	return cmd
}

func generateExplicit(engine *horoscope.Engine, loc horoscope.Location, opts *generateOptions) (horoscope.Response, error) {
	zone, err := time.LoadLocation(strings.TrimSpace(loc.TimeZone))
	if err != nil {
		return horoscope.Response{}, fmt.Errorf("unknown time zone %q: %w", loc.TimeZone, err)
	}
	day := time.Now().In(zone)
	if opts.date != "" {
		day, err = time.ParseInLocation("2006-01-02", strings.TrimSpace(opts.date), zone)
		if err != nil {
			return horoscope.Response{}, fmt.Errorf("date must be formatted as YYYY-MM-DD: %w", err)
		}
	}
	loc.TimeZone = zone.String()
	return engine.Generate(horoscope.Input{
		LocalDateKey:     day.Format("2006-01-02"),
		DisplayDate:      day.Format("02/01/2006"),
		Location:         loc,
		SunLongitudeDeg:  opts.sun,
		MoonLongitudeDeg: opts.moon,
	})
}

func writeJSON(cmd *cobra.Command, v any, pretty bool) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
