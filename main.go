package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/nasa-wallpaper/nasa-wallpaper/cmd"
)

const version = "3.0.0"

func main() {
	root := cmd.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
