package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	app "github.com/okian/kundali/internal/app"
	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
	"github.com/okian/kundali/pkg/logger"
)

var (
	chartYear          int
	chartMonth         int
	chartDay           int
	chartHour          int
	chartMinute        int
	chartSecond        int
	chartTimezone      string
	chartOffsetMinutes int
	chartLatitude      float64
	chartLongitude     float64
	chartSystem        string
	chartHouseSystem   string
	chartJSON          bool
)

// chartCmd represents the chart command
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Compute one birth chart in the terminal",
	Long: `Compute a sidereal birth chart for a single birth moment and print
the placements, houses, panchanga and the head of the dasha timeline.

The moment is interpreted in the named IANA timezone, or in a fixed
UTC offset when no timezone is given. The hour defaults to noon for
charts with an unknown birth time.

Examples:
  kundali chart --year 1990 --month 1 --day 15 --hour 13 --minute 30 \
    --timezone America/New_York --latitude 40.7128 --longitude -74.0060
  kundali chart --year 1985 --month 6 --day 1 --utc-offset-minutes 330 \
    --latitude 28.6139 --longitude 77.2090 --houses whole_sign --json`,
	RunE: runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().IntVar(&chartYear, "year", 0, "birth year")
	chartCmd.Flags().IntVar(&chartMonth, "month", 0, "birth month (1-12)")
	chartCmd.Flags().IntVar(&chartDay, "day", 0, "birth day of month")
	chartCmd.Flags().IntVar(&chartHour, "hour", 12, "birth hour (0-23)")
	chartCmd.Flags().IntVar(&chartMinute, "minute", 0, "birth minute")
	chartCmd.Flags().IntVar(&chartSecond, "second", 0, "birth second")
	chartCmd.Flags().StringVar(&chartTimezone, "timezone", "", "IANA timezone name, e.g. Asia/Kolkata")
	chartCmd.Flags().IntVar(&chartOffsetMinutes, "utc-offset-minutes", 0, "fixed UTC offset when no timezone is given")
	chartCmd.Flags().Float64Var(&chartLatitude, "latitude", 0, "birthplace latitude in decimal degrees")
	chartCmd.Flags().Float64Var(&chartLongitude, "longitude", 0, "birthplace longitude in decimal degrees")
	chartCmd.Flags().StringVar(&chartSystem, "system", "lahiri", "ayanamsa system")
	chartCmd.Flags().StringVar(&chartHouseSystem, "houses", "placidus", "house system")
	chartCmd.Flags().BoolVar(&chartJSON, "json", false, "print the full chart as JSON")

	_ = chartCmd.MarkFlagRequired("year")
	_ = chartCmd.MarkFlagRequired("month")
	_ = chartCmd.MarkFlagRequired("day")
	_ = chartCmd.MarkFlagRequired("latitude")
	_ = chartCmd.MarkFlagRequired("longitude")
}

func runChart(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	in, err := chartInput()
	if err != nil {
		return err
	}

	// Info logs would interleave with the rendered output.
	_ = logger.SetLevelString("warn")

	svc := app.New(app.WithDivisions(types.D9))
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	chart, err := svc.ComputeChart(ctx, in)
	if err != nil {
		return fmt.Errorf("compute chart: %w", err)
	}

	// Attach the timeline so both output modes carry it.
	tl, err := svc.DashaTimeline(ctx, chart.ID)
	if err != nil {
		return fmt.Errorf("dasha timeline: %w", err)
	}
	chart.Dashas = &tl

	if chartJSON {
		data, err := json.MarshalIndent(chart, "", "  ")
		if err != nil {
			return fmt.Errorf("encode chart: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(renderChart(chart))
	return nil
}

// chartInput builds the birth input from the chart flags. Range checks
// stay with model.BirthInput.Validate inside the service.
func chartInput() (model.BirthInput, error) {
	system, err := types.ParseSiderealSystem(chartSystem)
	if err != nil {
		return model.BirthInput{}, err
	}
	houseSystem, err := types.ParseHouseSystem(chartHouseSystem)
	if err != nil {
		return model.BirthInput{}, err
	}

	return model.BirthInput{
		Year:             chartYear,
		Month:            chartMonth,
		Day:              chartDay,
		Hour:             chartHour,
		Minute:           chartMinute,
		Second:           chartSecond,
		Timezone:         chartTimezone,
		UTCOffsetMinutes: chartOffsetMinutes,
		Latitude:         chartLatitude,
		Longitude:        chartLongitude,
		System:           system,
		Houses:           houseSystem,
	}, nil
}
