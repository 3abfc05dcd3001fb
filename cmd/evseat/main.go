package main

import (
	"fmt"

	"github.com/spf13/cobra"

	evseat "github.com/semafor/evseat"
	"github.com/semafor/evseat/filter"
	"github.com/semafor/evseat/log2"
)

var (
	flagVerbose bool
	flagSeat    string
	flagQuirks  string
)

var log = log2.NewStderr(log2.LInfo)

func main() {
	root := &cobra.Command{
		Use:           "evseat",
		Short:         "evseat debugging and inspection tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				log.SetLevel(log2.LDebug)
			}
			log.SetFlags(log2.LInteractiveFlags)
		},
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&flagSeat, "seat", "seat0", "physical seat name")
	root.PersistentFlags().StringVar(&flagQuirks, "quirks", "", "extra quirks HCL file")

	root.AddCommand(listDevicesCmd(), debugEventsCmd(), ptraccelCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func newContext() (*evseat.Context, error) {
	opt := evseat.Options{Log: log, SeatPhysical: flagSeat}
	if flagQuirks != "" {
		opt.QuirksPaths = []string{flagQuirks}
	}
	return evseat.New(opt)
}

func listDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-devices",
		Short: "enumerate input devices and their options",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := newContext()
			if err != nil {
				return err
			}
			defer ctx.Destroy()
			if err = ctx.EnumeratePath("/dev/input"); err != nil {
				return err
			}
			for _, dev := range ctx.Devices() {
				printDevice(dev)
			}
			return nil
		},
	}
}

func printDevice(dev *evseat.Device) {
	info := dev.Info()
	fmt.Printf("Device:       %s\n", info.Name)
	fmt.Printf("Kernel:       %s\n", info.Path)
	fmt.Printf("Id:           %04x:%04x bus %#x\n", info.Vendor, info.Product, info.Bus)
	fmt.Printf("Seat:         %s\n", dev.Seat().PhysicalName)
	if w, h := info.WidthMM(), info.HeightMM(); w > 0 {
		fmt.Printf("Size:         %.0fx%.0fmm\n", w, h)
	}
	fmt.Printf("Capabilities: %s\n", dev.CapabilityNames())
	fmt.Printf("Tap:          %s\n", optText(dev.ConfigTapAvailable(), dev.ConfigTapEnabled()))
	fmt.Printf("Left-handed:  %s\n", optText(dev.ConfigLeftHandedAvailable(), dev.ConfigLeftHanded()))
	fmt.Printf("Nat.scroll:   %s\n", optText(dev.ConfigNaturalScrollAvailable(), dev.ConfigNaturalScroll()))
	fmt.Printf("DWT:          %s\n", optText(dev.ConfigDWTAvailable(), dev.ConfigDWTEnabled()))
	fmt.Printf("Halfkey:      %s\n", optText(dev.ConfigHalfkeyAvailable(), dev.ConfigHalfkeyEnabled()))
	if methods := dev.ConfigScrollMethods(); len(methods) > 0 {
		fmt.Printf("Scroll:       %v (current %s)\n", methods, dev.ConfigScrollMethod())
	}
	if dev.ConfigClickMethodAvailable() {
		fmt.Printf("Click:        %s\n", dev.ConfigClickMethod())
	}
	fmt.Println()
}

func optText(available, enabled bool) string {
	if !available {
		return "n/a"
	}
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func debugEventsCmd() *cobra.Command {
	var showMotion bool
	c := &cobra.Command{
		Use:   "debug-events",
		Short: "print the semantic event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := newContext()
			if err != nil {
				return err
			}
			defer ctx.Destroy()
			if err = ctx.EnumeratePath("/dev/input"); err != nil {
				return err
			}
			if err = ctx.WatchPath("/dev/input"); err != nil {
				return err
			}
			buf := make([]byte, 1)
			for {
				if _, err = ctx.Fd().Read(buf); err != nil {
					return err
				}
				ctx.Dispatch()
				for e := ctx.GetEvent(); e != nil; e = ctx.GetEvent() {
					if !showMotion && (e.Type == evseat.EventPointerMotion || e.Type == evseat.EventTouchMotion) {
						continue
					}
					printEvent(e)
				}
			}
		},
	}
	c.Flags().BoolVar(&showMotion, "show-motion", false, "include motion events")
	return c
}

func printEvent(e *evseat.Event) {
	name := "unknown"
	if e.Device != nil {
		name = e.Device.Info().Sysname
	}
	fmt.Printf("%12d %-8s %-26s", e.Time, name, e.Type)
	switch {
	case e.Keyboard != nil:
		fmt.Printf(" code=%d state=%s count=%d", e.Keyboard.Code, e.Keyboard.State, e.Keyboard.SeatKeyCount)
	case e.Motion != nil:
		fmt.Printf(" dx=%.2f dy=%.2f", e.Motion.DX, e.Motion.DY)
	case e.Button != nil:
		fmt.Printf(" code=%d state=%s count=%d", e.Button.Code, e.Button.State, e.Button.SeatButtonCount)
	case e.Axis != nil:
		fmt.Printf(" axis=%s value=%.2f source=%s", e.Axis.Axis, e.Axis.Value, e.Axis.Source)
	case e.Touch != nil:
		fmt.Printf(" slot=%d seat=%d x=%.1f y=%.1f", e.Touch.Slot, e.Touch.SeatSlot, e.Touch.X, e.Touch.Y)
	case e.TabletProximity != nil:
		fmt.Printf(" tool=%s state=%s", e.TabletProximity.Tool.Type, e.TabletProximity.State)
	case e.TabletAxis != nil:
		a := e.TabletAxis.Axes
		fmt.Printf(" x=%.1f y=%.1f pressure=%.3f", a.X, a.Y, a.Pressure)
	case e.TabletButton != nil:
		fmt.Printf(" code=%d state=%s", e.TabletButton.Code, e.TabletButton.State)
	case e.ButtonsetButton != nil:
		fmt.Printf(" code=%d state=%s", e.ButtonsetButton.Code, e.ButtonsetButton.State)
	case e.ButtonsetAxis != nil:
		fmt.Printf(" axes=%v deltas=%v", e.ButtonsetAxis.Axes, e.ButtonsetAxis.Deltas)
	}
	fmt.Println()
}

// ptraccelCmd prints an acceleration curve as gnuplot-ready columns:
// input speed in units/ms against the applied factor.
func ptraccelCmd() *cobra.Command {
	var (
		dpi      float64
		speed    float64
		touchpad bool
		steps    int
	)
	c := &cobra.Command{
		Use:   "ptraccel-debug",
		Short: "dump an acceleration curve for plotting",
		RunE: func(cmd *cobra.Command, args []string) error {
			var f filter.Filter
			if touchpad {
				f = filter.NewTouchpadAccelerator()
			} else {
				f = filter.NewPointerAccelerator(dpi)
			}
			defer f.Destroy()
			if err := f.SetSpeed(speed); err != nil {
				return err
			}
			fmt.Printf("# speed=%.2f dpi=%.0f touchpad=%v\n", speed, dpi, touchpad)
			fmt.Println("# velocity-units/ms  accel-factor")
			const frameMS = 8
			millis := uint64(0)
			for i := 1; i <= steps; i++ {
				vel := float64(i) * 0.05
				millis += frameMS
				out := f.Dispatch(filter.Motion{DX: vel * frameMS}, millis)
				factor := out.DX / (vel * frameMS)
				fmt.Printf("%.3f %.4f\n", vel, factor)
			}
			return nil
		},
	}
	c.Flags().Float64Var(&dpi, "dpi", 1000, "sensor resolution")
	c.Flags().Float64Var(&speed, "speed", 0, "normalized speed in [-1,1]")
	c.Flags().BoolVar(&touchpad, "touchpad", false, "use the touchpad profile")
	c.Flags().IntVar(&steps, "steps", 80, "curve sample count")
	return c
}
