package main

import (
	"fmt"
	"os"

	"github.com/Rsplitstone/compcase-backend/internal/app"
	"github.com/Rsplitstone/compcase-backend/internal/mcp"
)

var version = "dev"

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	s := mcp.NewServer(version, mcp.Deps{
		Log:       application.Log,
		Cases:     application.Services.Case,
		Tasks:     application.Services.Task,
		Reports:   application.Services.Report,
		Analytics: application.Services.Analytics,
	})
	if err := mcp.Serve(s); err != nil {
		application.Log.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
