package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"

	evseat "github.com/semafor/evseat"
	"github.com/semafor/evseat/helpers/cli"
	"github.com/semafor/evseat/log2"
)

const usage = `commands, separated by newlines
- list                      show devices
- add PATH                  open an event node
- remove SYSNAME            close a device
- show SYSNAME              print device options
- set SYSNAME OPT VALUE     change an option
- seat SYSNAME LOGICAL      move a device to another logical seat
- drain                     dispatch pending frames, print events
- stat                      context uptime and dispatch age
- suspend / resume          park and restore all devices
- log=yes / log=no          toggle debug logging

options for set: tap, left-handed, natural-scroll, dwt, halfkey,
scroll-method (none|edge|2fg|button), click-method (none|areas|clickfinger),
accel-speed (-1..1), rotation (degrees), send-events (enabled|disabled)
`

var log = log2.NewStderr(log2.LInfo)

type shell struct {
	ctx *evseat.Context
}

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	devDir := cmdline.String("enumerate", "", "directory to enumerate on start, e.g. /dev/input")
	quirksPath := cmdline.String("quirks", "", "extra quirks HCL file")
	cmdline.Parse(os.Args[1:])

	log.SetFlags(log2.LInteractiveFlags)

	opt := evseat.Options{Log: log}
	if *quirksPath != "" {
		opt.QuirksPaths = []string{*quirksPath}
	}
	ctx, err := evseat.New(opt)
	if err != nil {
		log.Fatal(err)
	}
	defer ctx.Destroy()
	if *devDir != "" {
		if err = ctx.EnumeratePath(*devDir); err != nil {
			log.Fatal(err)
		}
	}

	sh := &shell{ctx: ctx}
	cli.MainLoop(log, "evseat", sh.exec, sh.complete)
}

func (self *shell) exec(line string) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}
	switch words[0] {
	case "help":
		fmt.Print(usage)
	case "list":
		for _, dev := range self.ctx.Devices() {
			fmt.Printf("%-10s %-40s %s\n", dev.Sysname(), dev.Name(), dev.CapabilityNames())
		}
	case "add":
		if len(words) != 2 {
			fmt.Println("add PATH")
			return
		}
		if _, err := self.ctx.AddPath(words[1]); err != nil {
			log.Errorf("%v", err)
		}
	case "remove":
		if len(words) != 2 {
			fmt.Println("remove SYSNAME")
			return
		}
		if err := self.ctx.RemovePath("/dev/input/" + words[1]); err != nil {
			log.Errorf("%v", err)
		}
	case "show":
		if len(words) != 2 {
			fmt.Println("show SYSNAME")
			return
		}
		self.show(words[1])
	case "set":
		if len(words) != 4 {
			fmt.Println("set SYSNAME OPT VALUE")
			return
		}
		self.set(words[1], words[2], words[3])
	case "drain":
		self.ctx.Dispatch()
		for e := self.ctx.GetEvent(); e != nil; e = self.ctx.GetEvent() {
			fmt.Printf("%12d %s\n", e.Time, e.Type)
		}
	case "seat":
		if len(words) != 3 {
			fmt.Println("seat SYSNAME LOGICAL")
			return
		}
		if dev := self.device(words[1]); dev != nil {
			if _, err := self.ctx.SetSeatLogicalName(dev, words[2]); err != nil {
				log.Errorf("%v", err)
			}
		}
	case "stat":
		fmt.Printf("uptime=%v devices=%d last-dispatch=%v ago\n",
			self.ctx.Uptime().Round(time.Second), len(self.ctx.Devices()),
			self.ctx.SinceDispatch().Round(time.Millisecond))
	case "suspend":
		self.ctx.Suspend()
	case "resume":
		self.ctx.Resume()
	case "log=yes":
		log.SetLevel(log2.LDebug)
	case "log=no":
		log.SetLevel(log2.LInfo)
	default:
		fmt.Printf("unknown command %q, try help\n", words[0])
	}
}

func (self *shell) device(sysname string) *evseat.Device {
	for _, dev := range self.ctx.Devices() {
		if dev.Sysname() == sysname {
			return dev
		}
	}
	fmt.Printf("no device %q\n", sysname)
	return nil
}

func (self *shell) show(sysname string) {
	dev := self.device(sysname)
	if dev == nil {
		return
	}
	fmt.Printf("%s %s\n", dev.Sysname(), dev.Name())
	fmt.Printf("  capabilities   %s\n", dev.CapabilityNames())
	fmt.Printf("  seat           %s/%s\n", dev.Seat().PhysicalName, dev.Seat().LogicalName)
	fmt.Printf("  age            %v\n", dev.Age().Round(time.Second))
	fmt.Printf("  tap            avail=%v on=%v fingers=%d\n",
		dev.ConfigTapAvailable(), dev.ConfigTapEnabled(), dev.ConfigTapFingerCount())
	fmt.Printf("  left-handed    avail=%v on=%v\n", dev.ConfigLeftHandedAvailable(), dev.ConfigLeftHanded())
	fmt.Printf("  natural-scroll avail=%v on=%v\n", dev.ConfigNaturalScrollAvailable(), dev.ConfigNaturalScroll())
	fmt.Printf("  scroll-method  %v current=%s\n", dev.ConfigScrollMethods(), dev.ConfigScrollMethod())
	fmt.Printf("  click-method   avail=%v current=%s\n", dev.ConfigClickMethodAvailable(), dev.ConfigClickMethod())
	fmt.Printf("  accel          avail=%v speed=%.2f profile=%s\n",
		dev.ConfigAccelAvailable(), dev.ConfigAccelSpeed(), dev.ConfigAccelProfile())
	fmt.Printf("  dwt            avail=%v on=%v\n", dev.ConfigDWTAvailable(), dev.ConfigDWTEnabled())
	fmt.Printf("  halfkey        avail=%v on=%v\n", dev.ConfigHalfkeyAvailable(), dev.ConfigHalfkeyEnabled())
	fmt.Printf("  rotation       avail=%v degrees=%.0f\n", dev.ConfigRotationAvailable(), dev.ConfigRotation())
	fmt.Printf("  send-events    %s\n", dev.ConfigSendEventsMode())
}

func (self *shell) set(sysname, opt, value string) {
	dev := self.device(sysname)
	if dev == nil {
		return
	}
	on := value == "on" || value == "yes" || value == "true" || value == "1"
	var status evseat.ConfigStatus
	switch opt {
	case "tap":
		status = dev.ConfigSetTapEnabled(on)
	case "left-handed":
		status = dev.ConfigSetLeftHanded(on)
	case "natural-scroll":
		status = dev.ConfigSetNaturalScroll(on)
	case "dwt":
		status = dev.ConfigSetDWTEnabled(on)
	case "halfkey":
		status = dev.ConfigSetHalfkeyEnabled(on)
	case "scroll-method":
		m, ok := map[string]evseat.ScrollMethod{
			"none": evseat.ScrollNone, "edge": evseat.ScrollEdge,
			"2fg": evseat.Scroll2fg, "button": evseat.ScrollOnButtonDown,
		}[value]
		if !ok {
			fmt.Println("scroll-method: none|edge|2fg|button")
			return
		}
		status = dev.ConfigSetScrollMethod(m)
	case "click-method":
		m, ok := map[string]evseat.ClickMethod{
			"none": evseat.ClickMethodNone, "areas": evseat.ClickMethodButtonAreas,
			"clickfinger": evseat.ClickMethodClickfinger,
		}[value]
		if !ok {
			fmt.Println("click-method: none|areas|clickfinger")
			return
		}
		status = dev.ConfigSetClickMethod(m)
	case "accel-speed":
		speed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			fmt.Println("accel-speed: number in [-1,1]")
			return
		}
		status = dev.ConfigSetAccelSpeed(speed)
	case "rotation":
		deg, err := strconv.ParseFloat(value, 64)
		if err != nil {
			fmt.Println("rotation: degrees in [0,360)")
			return
		}
		status = dev.ConfigSetRotation(deg)
	case "send-events":
		m, ok := map[string]evseat.SendEventsMode{
			"enabled": evseat.SendEventsEnabled, "disabled": evseat.SendEventsDisabled,
		}[value]
		if !ok {
			fmt.Println("send-events: enabled|disabled")
			return
		}
		status = dev.ConfigSetSendEvents(m)
	default:
		fmt.Printf("unknown option %q\n", opt)
		return
	}
	fmt.Println(status)
}

func (self *shell) complete(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		{Text: "help"}, {Text: "list"}, {Text: "add"}, {Text: "remove"},
		{Text: "show"}, {Text: "set"}, {Text: "seat"}, {Text: "drain"}, {Text: "stat"},
		{Text: "suspend"}, {Text: "resume"},
		{Text: "log=yes"}, {Text: "log=no"},
	}
	return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
}
