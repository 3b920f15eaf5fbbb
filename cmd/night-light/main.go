// Command night-light inspects and adjusts the blue light reduction
// feature through a semreg store hive.
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/enyium/semreg"
	"github.com/enyium/semreg/nightlight"
)

const version = "0.4.1"

const defaultGamma = "1.6"

var (
	rootCmd *cobra.Command

	storePath string
	amPM      bool
	lenient   bool
	jsonOut   bool

	flagOn     bool
	flagOff    bool
	flagToggle bool

	kelvin      uint16
	warmth      float64
	gamma       float64
	defaultTemp bool

	scheduleTypeArg string
	nightArg        string

	outputPath string

	initDuration uint16
	waitAfter    bool
)

var dimmed = lipgloss.NewStyle().Faint(true)

func init() {
	rootCmd = &cobra.Command{
		Use:     "night-light",
		Short:   "Inspect and adjust the Night Light feature",
		Version: version,
		RunE:    runStatus,
	}
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "semreg.db", "Path of the store hive file to operate on")
	rootCmd.PersistentFlags().BoolVarP(&amPM, "am-pm", "m", false, "Show 12-hour instead of 24-hour clock times in most important places")
	rootCmd.PersistentFlags().BoolVarP(&lenient, "lenient", "l", false, "Be less strict when handling the store values. Required when at least one of them doesn't exist. Generally to be avoided")
	rootCmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Print current configuration as JSON for consumption by software")

	switchCmd := &cobra.Command{
		Use:     "switch",
		Aliases: []string{"sw"},
		Short:   "Switch Night Light on or off",
		Long: "Switch Night Light on or off.\n\n" +
			"When switching off, it's advisable to also set cold color temperature (in same command) " +
			"to prevent a strange transition when turning it on again with less warmth at a later time.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, func(nl *nightlight.NightLight) error {
				nl.SetActive(onOffResult(nl.Active()))
				return applyTempFlags(cmd, nl)
			})
		},
	}
	addOnOffFlags(switchCmd, true)
	addTempFlags(switchCmd)

	tempCmd := &cobra.Command{
		Use:     "temp",
		Aliases: []string{"t"},
		Short:   "Adjust color temperature on its own",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, func(nl *nightlight.NightLight) error {
				return applyTempFlags(cmd, nl)
			})
		},
	}
	addTempFlags(tempCmd)

	previewCmd := &cobra.Command{
		Use:     "preview",
		Aliases: []string{"p", "prev"},
		Short:   "Turn preview mode on or off",
		Long: "Turn preview mode on or off.\n\n" +
			"This is the mode that's activated while moving the slider in the official settings. " +
			"Makes for a hard transition instead of a smooth one. Should not be left on, because it " +
			"blocks other changes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, func(nl *nightlight.NightLight) error {
				nl.SetNightPreviewActive(onOffResult(nl.NightPreviewActive()))
				return applyTempFlags(cmd, nl)
			})
		},
	}
	addOnOffFlags(previewCmd, true)
	addTempFlags(previewCmd)

	scheduleCmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"sch"},
		Short:   "Configure the schedule",
		RunE:    runSchedule,
	}
	addOnOffFlags(scheduleCmd, false)
	scheduleCmd.Flags().StringVarP(&scheduleTypeArg, "type", "T", "",
		"Whether the 'explicit' or the 'sun'(set-to-sunrise) schedule should be in effect. "+
			"Effectiveness of the latter also depends on the state of location services")
	scheduleCmd.Flags().StringVarP(&nightArg, "night", "n", "",
		"Start and end time for explicit schedule type, e.g. '20:21-6:00', '08:00pm-05:45AM' or '9:59-9:59am'. "+
			"The times work exact to the minute, even if not displayed with this accuracy in the official settings")
	addTempFlags(scheduleCmd)

	exportCmd := &cobra.Command{
		Use:     "export",
		Aliases: []string{"exp"},
		Short:   "Export the feature's store values to .reg file",
		RunE:    runExport,
	}
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"The file path to use. Should have .reg extension. If not specified, defaults to filename based on current local time")

	deleteCmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"del"},
		Short:   "Delete the feature's store values to reset it. Requires log-off/restart",
		Long: "Delete the feature's store values to reset it.\n\n" +
			"Useful in case the values became corrupted for any reason, leaving the feature in an " +
			"unusable state. After deletion, you should restart or at least log off.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *semreg.BoltStore) error {
				return nightlight.Delete(st)
			})
		},
	}

	monitorCmd := &cobra.Command{
		Use:     "monitor",
		Aliases: []string{"mon"},
		Short:   "Monitor the feature's store values for external changes, displaying technical details",
		RunE:    runMonitor,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize Night Light after log-on or when turning the screen back on",
		Long: "Initialize Night Light after log-on or when turning the screen back on.\n\n" +
			"This command briefly activates preview mode in a way that should be invisible. " +
			"Always run it after logging on; if you don't, your possibilities of getting a color " +
			"temperature effectively applied are limited. It particularly won't be applied if Night " +
			"Light is already active and you try to change the temperature.",
		RunE: runInit,
	}
	initCmd.Flags().Uint16VarP(&initDuration, "duration", "d", 0,
		"The number of milliseconds to block while holding preview mode active. Only use this if you "+
			"really must customize the waiting time. Too short of a duration may temporarily break Night Light")
	initCmd.Flags().BoolVarP(&waitAfter, "wait-after", "a", false,
		"Additionally wait the same duration after the last action. Use this when another command "+
			"follows in direct succession, so the Night Light engine doesn't miss a value")

	rootCmd.AddCommand(switchCmd, tempCmd, previewCmd, scheduleCmd, exportCmd, deleteCmd, monitorCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addOnOffFlags(cmd *cobra.Command, required bool) {
	cmd.Flags().BoolVarP(&flagOn, "on", "1", false, "Turn on")
	cmd.Flags().BoolVarP(&flagOff, "off", "0", false, "Turn off")
	cmd.Flags().BoolVarP(&flagToggle, "toggle", "t", false, "Toggle")
	cmd.MarkFlagsMutuallyExclusive("on", "off", "toggle")
	if required {
		cmd.MarkFlagsOneRequired("on", "off", "toggle")
	}
}

// onOffResult maps the on/off/toggle flags onto the new value of a boolean
// property.
func onOffResult(current bool) bool {
	if flagToggle {
		return !current
	}
	return flagOn
}

func addTempFlags(cmd *cobra.Command) {
	cmd.Flags().Uint16VarP(&kelvin, "kelvin", "k", 0, "Night time color temperature in Kelvin")
	cmd.Flags().Float64VarP(&warmth, "warmth", "w", 0,
		"Kelvin value expressed as an inversely proportional factor from 0.0 to 1.0. Steps in the "+
			"upper range are perceived as more intense; use '--gamma' to correct for that")
	cmd.Flags().Float64VarP(&gamma, "gamma", "g", 1,
		"The gamma exponent whose inverse is applied to '--warmth'. When omitting the number, a "+
			"default is used. When omitting the switch, gamma correction isn't applied")
	cmd.Flags().Lookup("gamma").NoOptDefVal = defaultGamma
	cmd.Flags().BoolVarP(&defaultTemp, "default-temp", "d", false, "Apply Night Light's default color temperature")
	cmd.MarkFlagsMutuallyExclusive("kelvin", "warmth", "default-temp")
}

// applyTempFlags translates the temperature flags into setter calls, the
// gamma correction included.
func applyTempFlags(cmd *cobra.Command, nl *nightlight.NightLight) error {
	flags := cmd.Flags()
	if flags.Changed("gamma") {
		if !flags.Changed("warmth") {
			return errors.New("'--gamma' requires '--warmth'")
		}
		if gamma < 1 || gamma > 3 {
			return fmt.Errorf("gamma %v out of range 1.0 to 3.0", gamma)
		}
	}
	switch {
	case defaultTemp:
		nl.SetNightColorTemp(0)
	case flags.Changed("kelvin"):
		nl.SetNightColorTemp(kelvin)
	case flags.Changed("warmth"):
		nl.SetWarmth(math.Pow(warmth, 1/gamma))
	}
	return nil
}

func withStore(fn func(st *semreg.BoltStore) error) error {
	st, err := semreg.OpenBoltStore(storePath, semreg.StoreOptions{})
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

// mutate runs the load-change-write cycle around fn.
func mutate(cmd *cobra.Command, fn func(nl *nightlight.NightLight) error) error {
	return withStore(func(st *semreg.BoltStore) error {
		nl, err := nightlight.Load(st, semreg.LenientIf(lenient))
		if err != nil {
			return err
		}
		nl.SetUses12HourClock(amPM)
		if err := fn(nl); err != nil {
			return err
		}
		return nl.Write()
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	// Display only; no Write, so a slow terminal cannot run into the
	// expiration timeout.
	return withStore(func(st *semreg.BoltStore) error {
		nl, err := nightlight.Load(st, semreg.LenientIf(lenient))
		if err != nil {
			return err
		}
		nl.SetUses12HourClock(amPM)

		if jsonOut {
			fmt.Print(string(pretty.Pretty([]byte(nl.JSON()))))
		} else {
			fmt.Println(nl)
			fmt.Println()
			fmt.Println(dimmed.Render("Pass '--help' to see available actions."))
		}
		return nil
	})
}

func runSchedule(cmd *cobra.Command, args []string) error {
	return mutate(cmd, func(nl *nightlight.NightLight) error {
		flags := cmd.Flags()
		if flags.Changed("on") || flags.Changed("off") || flags.Changed("toggle") {
			nl.SetScheduleActive(onOffResult(nl.ScheduleActive()))
		}
		if flags.Changed("type") {
			t, err := parseScheduleType(scheduleTypeArg)
			if err != nil {
				return err
			}
			nl.SetScheduleType(t)
		}
		if flags.Changed("night") {
			frame, err := nightlight.ParseClockTimeFrame(nightArg)
			if err != nil {
				return err
			}
			nl.SetScheduledNight(frame)
		}
		return applyTempFlags(cmd, nl)
	})
}

func parseScheduleType(s string) (nightlight.ScheduleType, error) {
	switch strings.ToLower(s) {
	case "sun":
		return nightlight.ScheduleSunsetToSunrise, nil
	case "explicit", "expl", "exp", "ex", "e":
		return nightlight.ScheduleExplicit, nil
	default:
		return 0, fmt.Errorf("invalid schedule type %q; use 'sun' or 'explicit'", s)
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	return withStore(func(st *semreg.BoltStore) error {
		// Export exists so users can share their raw values when asking
		// for support.
		path := outputPath
		userDefined := path != ""
		if !userDefined {
			layout := "2006-01-02, 15.04.05.reg"
			if amPM {
				layout = "2006-01-02, 03.04.05 pm.reg"
			}
			path = time.Now().Format(layout)
		}

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := nightlight.Export(st, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		if !userDefined {
			fmt.Printf("Wrote '%s'.\n", path)
		}
		return nil
	})
}

func runMonitor(cmd *cobra.Command, args []string) error {
	return withStore(func(st *semreg.BoltStore) error {
		fmt.Println("Press Ctrl+C to abort. (On very fast changes, newer data than that triggering the change may be read.)")
		fmt.Println()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		previous, err := nightlight.ReadBytes(st)
		if err != nil {
			return err
		}

		mon, err := nightlight.Monitor(st, semreg.MonitorOptions{})
		if err != nil {
			return err
		}
		defer mon.Close()

		return mon.Run(ctx, func(id nightlight.ValueID) (bool, error) {
			current, err := nightlight.ReadBytes(st)
			if err != nil {
				return false, err
			}

			fmt.Println(strings.ToUpper(fmt.Sprintf("%v store value changed", id)))

			// When parsing fails, the user must at least see the bytes to
			// be able to ask for support.
			hexBytes := semreg.Hex(current.OfValue(id))
			fmt.Println(dimmed.Render(fmt.Sprintf("(bytes: %s)", hexBytes)))
			fmt.Printf("(diff against previous: %s)\n", hexBytes.DiffAgainst(previous.OfValue(id)))
			fmt.Println()
			previous = current

			nl, err := nightlight.FromBytes(current, semreg.LenientIf(lenient))
			if err != nil {
				return false, err
			}
			nl.SetUses12HourClock(amPM)
			fmt.Println(nl.DebugString())
			fmt.Println()
			return false, nil
		})
	})
}

func runInit(cmd *cobra.Command, args []string) error {
	return withStore(func(st *semreg.BoltStore) error {
		delay := nightlight.ReasonableInitDelay
		if cmd.Flags().Changed("duration") {
			delay = time.Duration(initDuration) * time.Millisecond
		}
		return nightlight.Init(st, delay, waitAfter, semreg.LenientIf(lenient))
	})
}
