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
	panchangaYear          int
	panchangaMonth         int
	panchangaDay           int
	panchangaHour          int
	panchangaMinute        int
	panchangaSecond        int
	panchangaTimezone      string
	panchangaOffsetMinutes int
	panchangaSystem        string
	panchangaJSON          bool
)

// panchangaCmd represents the panchanga command
var panchangaCmd = &cobra.Command{
	Use:   "panchanga",
	Short: "Print the lunar-day attributes for a moment",
	Long: `Compute the panchanga attributes of a moment: tithi number and name,
paksha, karana and yoga. Nothing is archived.

Examples:
  kundali panchanga --year 2026 --month 8 --day 25 --timezone Asia/Kolkata
  kundali panchanga --year 1990 --month 1 --day 15 --hour 18 --json`,
	RunE: runPanchanga,
}

func init() {
	rootCmd.AddCommand(panchangaCmd)

	panchangaCmd.Flags().IntVar(&panchangaYear, "year", 0, "year")
	panchangaCmd.Flags().IntVar(&panchangaMonth, "month", 0, "month (1-12)")
	panchangaCmd.Flags().IntVar(&panchangaDay, "day", 0, "day of month")
	panchangaCmd.Flags().IntVar(&panchangaHour, "hour", 12, "hour (0-23)")
	panchangaCmd.Flags().IntVar(&panchangaMinute, "minute", 0, "minute")
	panchangaCmd.Flags().IntVar(&panchangaSecond, "second", 0, "second")
	panchangaCmd.Flags().StringVar(&panchangaTimezone, "timezone", "", "IANA timezone name")
	panchangaCmd.Flags().IntVar(&panchangaOffsetMinutes, "utc-offset-minutes", 0, "fixed UTC offset when no timezone is given")
	panchangaCmd.Flags().StringVar(&panchangaSystem, "system", "lahiri", "ayanamsa system")
	panchangaCmd.Flags().BoolVar(&panchangaJSON, "json", false, "print the snapshot as JSON")

	_ = panchangaCmd.MarkFlagRequired("year")
	_ = panchangaCmd.MarkFlagRequired("month")
	_ = panchangaCmd.MarkFlagRequired("day")
}

func runPanchanga(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	system, err := types.ParseSiderealSystem(panchangaSystem)
	if err != nil {
		return err
	}
	in := model.BirthInput{
		Year:             panchangaYear,
		Month:            panchangaMonth,
		Day:              panchangaDay,
		Hour:             panchangaHour,
		Minute:           panchangaMinute,
		Second:           panchangaSecond,
		Timezone:         panchangaTimezone,
		UTCOffsetMinutes: panchangaOffsetMinutes,
		System:           system,
	}

	// Info logs would interleave with the rendered output.
	_ = logger.SetLevelString("warn")

	svc := app.New()
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	snapshot, err := svc.PanchangaAt(ctx, in)
	if err != nil {
		return fmt.Errorf("compute panchanga: %w", err)
	}

	if panchangaJSON {
		data, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(styleCard.Render(renderPanchanga(snapshot)))
	return nil
}
