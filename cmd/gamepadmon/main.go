// Command gamepadmon prints every event from the first connected gamepad.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/edaniels/golog"
	"go.viam.com/utils"

	"github.com/Appracatappra/gamepadkit/gamepad"
	"github.com/Appracatappra/gamepadkit/gamepad/evdevpad"
)

var logger = golog.NewDevelopmentLogger("gamepadmon")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	allowVirtual := flag.Bool("virtual", false, "accept virtual/software controllers")
	flag.Parse()

	adapter, err := evdevpad.NewAdapter(logger)
	if err != nil {
		return err
	}

	var opts []gamepad.Option
	if *allowVirtual {
		opts = append(opts, gamepad.WithVirtualDevices())
	}
	registry := gamepad.NewRegistry(adapter, logger, opts...)

	sub := registry.Connect("gamepadmon", func(ctx context.Context, dev gamepad.Device, info gamepad.DeviceInfo, connected bool) {
		if connected {
			fmt.Printf("connected: %s (%s) battery=%d%%\n", info.Vendor, info.Style.Title(), registry.BatteryLevel())
			return
		}
		fmt.Printf("disconnected: %s\n", info.Vendor)
	})

	report := func(ctx context.Context, ev gamepad.Event) {
		fmt.Printf("%s:%s pressed=%t value=%.3f x=%.3f y=%.3f\n",
			ev.Control, ev.Type, ev.Pressed, ev.Value, ev.X, ev.Y)
	}
	for control := range allControls() {
		sub.SetHandler(control, report)
	}

	registry.Foregrounded(ctx)
	<-ctx.Done()
	return registry.Close(context.Background())
}

func allControls() map[gamepad.Control]struct{} {
	out := map[gamepad.Control]struct{}{}
	for _, set := range [][]gamepad.Control{
		gamepad.ExtendedControls,
		gamepad.TouchpadControls,
		gamepad.PaddleControls,
	} {
		for _, c := range set {
			out[c] = struct{}{}
		}
	}
	return out
}
