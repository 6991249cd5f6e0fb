package main

import (
	"context"

	"github.com/FYIFriday/Smut-Wrapped/cmd/wrapped/commands"
	"github.com/FYIFriday/Smut-Wrapped/lib/serviceutil"
	"github.com/FYIFriday/Smut-Wrapped/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "wrapped-cli")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
