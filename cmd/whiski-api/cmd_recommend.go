package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/whiski-agent/internal/app/recommend"
	"github.com/PabloGalante/whiski-agent/internal/app/telemetry"
	"github.com/PabloGalante/whiski-agent/internal/domain"
)

var (
	flagMood     string
	flagLocation string
)

// recommendCmd resolves one recommendation without going through the flow.
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print a drink and café vibe for a mood",
	Example: `  whiski-api recommend --mood cozy --location "Brooklyn, NY"`,
	RunE: runRecommend,
}

// cafesCmd searches matcha cafés near a location.
var cafesCmd = &cobra.Command{
	Use:     "cafes",
	Short:   "List matcha cafés near a location",
	Example: `  whiski-api cafes --location "Queens, NY"`,
	RunE:    runCafes,
}

func init() {
	recommendCmd.Flags().StringVar(&flagMood, "mood", string(domain.Moods[0]), "mood: chill, anxious, creative, reflective, energized or cozy")
	recommendCmd.Flags().StringVar(&flagLocation, "location", "", "where you are, e.g. \"Brooklyn, NY\"")

	cafesCmd.Flags().StringVar(&flagLocation, "location", "", "where to search")
	_ = cafesCmd.MarkFlagRequired("location")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := build(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	mood, ok := domain.ParseMood(flagMood)
	if !ok {
		return fmt.Errorf("unknown mood %q", flagMood)
	}

	weather := ""
	if d.weather != nil && flagLocation != "" {
		if w, err := d.weather.Current(ctx, flagLocation); err == nil {
			weather = w
		}
	}

	out := d.resolver.Resolve(telemetry.WithOperation(ctx, domain.OperationRecommendation), recommend.Request{
		Mood:     string(mood),
		Location: flagLocation,
		Weather:  weather,
	})

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Drink: %s\n", out.Drink)
	fmt.Fprintf(w, "Vibe:  %s\n", out.Vibe)
	fmt.Fprintf(w, "(source: %s", out.Source)
	if weather != "" {
		fmt.Fprintf(w, ", weather: %s", weather)
	}
	fmt.Fprintln(w, ")")
	if out.Notice != "" {
		fmt.Fprintln(w, out.Notice)
	}
	return nil
}

func runCafes(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := build(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	list, notice := d.finder.Find(ctx, strings.TrimSpace(flagLocation))

	w := cmd.OutOrStdout()
	if notice != "" {
		fmt.Fprintln(w, notice)
		return nil
	}
	for i, c := range list {
		fmt.Fprintf(w, "%d. %s (%s)\n", i+1, c.Name, c.PriceRange)
		fmt.Fprintf(w, "   %s\n", c.Address)
		if c.Rating != nil {
			fmt.Fprintf(w, "   rating %.1f\n", *c.Rating)
		}
		fmt.Fprintf(w, "   %s · %s\n", c.Speciality, c.Atmosphere)
		fmt.Fprintf(w, "   %s\n", c.MapLink)
	}
	return nil
}
