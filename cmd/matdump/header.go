package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func headerCmd() *cli.Command {
	return &cli.Command{
		Name:  "header",
		Usage: "Print the descriptive header of a MAT-file",
		Flags: []cli.Flag{fileFlag()},
		Action: func(_ context.Context, c *cli.Command) error {
			f, _, decodeErr := openMat(c)
			if f == nil {
				return decodeErr
			}
			defer func() { _ = f.Close() }()

			h := f.Header
			fmt.Printf("Text:          %s\n", h.Text)
			fmt.Printf("Subsys offset: %#x\n", h.SubsysOffset)
			fmt.Printf("Version:       %#04x\n", h.Version)
			fmt.Printf("Indicator:     %s (swap=%v)\n", h.EndianIndicator, h.EndianSwap)
			fmt.Printf("Elements:      %d\n", len(f.Elements))
			return decodeErr
		},
	}
}
