package main

import (
	"venmoctl/cmd/venmoctl/commands"
	"venmoctl/lib/serviceutil"
	"venmoctl/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "venmoctl")
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
