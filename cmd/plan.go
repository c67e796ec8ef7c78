package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simeonreusch/planobs/core/plan"
	"github.com/simeonreusch/planobs/core/resolve"
	"github.com/simeonreusch/planobs/infra/logger"
)

var (
	planRA            float64
	planDec           float64
	planDate          string
	planAirmass       float64
	planWindowHours   float64
	planSwitchFilters bool
	planAlertSource   string
)

var planCmd = &cobra.Command{
	Use:   "plan <name>",
	Short: "Compute the observability window for a single night",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().Float64Var(&planRA, "ra", 0, "right ascension in degrees")
	planCmd.Flags().Float64Var(&planDec, "dec", 0, "declination in degrees")
	planCmd.Flags().StringVar(&planDate, "date", "", "observation date (YYYY-MM-DD), default now")
	planCmd.Flags().Float64Var(&planAirmass, "max-airmass", 0, "maximum airmass")
	planCmd.Flags().Float64Var(&planWindowHours, "window-hours", 0, "observation window length in hours")
	planCmd.Flags().BoolVar(&planSwitchFilters, "switch-filters", false, "swap the g/r window assignment")
	planCmd.Flags().StringVar(&planAlertSource, "alertsource", "", "alert source label (icecube, ztf)")
	_ = planCmd.MarkFlagRequired("ra")
	_ = planCmd.MarkFlagRequired("dec")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := resolve.CheckName(name, planAlertSource); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("plan")

	opts := plan.Options{
		Site:          cfg.Site.Site(),
		Date:          planDate,
		MaxAirmass:    cfg.Plan.MaxAirmass,
		WindowHours:   cfg.Plan.WindowHours,
		Bands:         cfg.Plan.BandList(),
		ExposureSec:   cfg.Plan.ExposureSec,
		SwitchFilters: cfg.Plan.SwitchFilters || planSwitchFilters,
		Log:           log,
		Quiet:         true,
	}
	if planAirmass != 0 {
		opts.MaxAirmass = planAirmass
	}
	if planWindowHours != 0 {
		opts.WindowHours = planWindowHours
	}

	target := plan.Target{
		Name:        name,
		RADeg:       planRA,
		DecDeg:      planDec,
		AlertSource: planAlertSource,
	}
	p, err := plan.Compute(target, opts)
	if err != nil {
		return err
	}

	cmd.Println(p.Summary)
	return nil
}
