package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simeonreusch/planobs/core/model"
	"github.com/simeonreusch/planobs/core/plan"
	"github.com/simeonreusch/planobs/core/resolve"
	"github.com/simeonreusch/planobs/infra/logger"
	"github.com/simeonreusch/planobs/infra/queue"
)

var (
	multidayRA            float64
	multidayDec           float64
	multidayStartDate     string
	multidayFieldID       int
	multidayAirmass       float64
	multidaySwitchFilters bool
	multidaySubmit        bool
)

var multidayCmd = &cobra.Command{
	Use:   "multiday <name>",
	Short: "Assemble a multi-night trigger sequence",
	Args:  cobra.ExactArgs(1),
	RunE:  runMultiday,
}

func init() {
	multidayCmd.Flags().Float64Var(&multidayRA, "ra", 0, "right ascension in degrees")
	multidayCmd.Flags().Float64Var(&multidayDec, "dec", 0, "declination in degrees")
	multidayCmd.Flags().StringVar(&multidayStartDate, "startdate", "", "start date (YYYY-MM-DD) of night 1")
	multidayCmd.Flags().IntVar(&multidayFieldID, "field", 0, "ZTF field containing the target")
	multidayCmd.Flags().Float64Var(&multidayAirmass, "max-airmass", 0, "maximum airmass")
	multidayCmd.Flags().BoolVar(&multidaySwitchFilters, "switch-filters", false, "swap the g/r window assignment")
	multidayCmd.Flags().BoolVar(&multidaySubmit, "submit", false, "submit the triggers to the ToO queue")
	_ = multidayCmd.MarkFlagRequired("ra")
	_ = multidayCmd.MarkFlagRequired("dec")
	_ = multidayCmd.MarkFlagRequired("field")
	rootCmd.AddCommand(multidayCmd)
}

func runMultiday(cmd *cobra.Command, args []string) error {
	name := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("multiday")
	sink := buildSink(cfg, log)

	opts := plan.MultiDayOptions{
		StartDate:     multidayStartDate,
		FieldID:       multidayFieldID,
		Site:          cfg.Site.Site(),
		MaxAirmass:    cfg.Plan.MaxAirmass,
		SwitchFilters: cfg.Plan.SwitchFilters || multidaySwitchFilters,
		Metrics:       sink,
		Log:           log,
	}
	if multidayAirmass != 0 {
		opts.MaxAirmass = multidayAirmass
	}

	target := plan.Target{Name: name, RADeg: multidayRA, DecDeg: multidayDec}
	p, err := plan.ComputeMultiDay(target, opts)
	if err != nil {
		// Resolution failures surface their sentinel reason instead of a
		// stack trace; downstream consumers pattern-match on it.
		var resErr *resolve.ResolutionError
		if errors.As(err, &resErr) {
			cmd.Println(resErr.Reason)
			return nil
		}
		return err
	}

	cmd.Println(p.Summary)
	cmd.Println(p.TriggerDigest())

	if !multidaySubmit {
		return nil
	}

	client, err := queue.NewClient(cfg.Queue, log, sink)
	if err != nil {
		return fmt.Errorf("queue client: %w", err)
	}
	q := client.NewQueue()
	for _, trigger := range p.Triggers {
		target, err := model.NewTooTarget(trigger.FieldID, trigger.FilterID, float64(trigger.ExposureSec))
		if err != nil {
			return fmt.Errorf("trigger validation: %w", err)
		}
		if err := q.AddTrigger(
			fmt.Sprintf("ToO_%s", name),
			trigger.MJDStart, trigger.MJDEnd,
			[]model.TooTarget{target},
		); err != nil {
			return fmt.Errorf("trigger validation: %w", err)
		}
	}
	if err := q.Submit(context.Background()); err != nil {
		return err
	}
	log.Infof("submitted %d triggers for %s", len(p.Triggers), name)
	return nil
}
