package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/logicossoftware/go-matfile/internal/view"
)

func listCmd() *cli.Command {
	var expand bool

	return &cli.Command{
		Name:  "list",
		Usage: "List the elements of a MAT-file as an indented tree",
		Flags: []cli.Flag{
			fileFlag(),
			&cli.BoolFlag{Name: "expand", Aliases: []string{"x"}, Usage: "decode compressed elements", Destination: &expand},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			f, _, decodeErr := openMat(c)
			if f == nil {
				return decodeErr
			}
			defer func() { _ = f.Close() }()

			v := view.FromFile(f, view.Options{Expand: expand})
			for i, n := range v.Elements {
				view.Walk(n, func(depth int, n *view.Node) {
					prefix := fmt.Sprintf("%3d ", i)
					if depth > 0 {
						prefix = "    " + strings.Repeat("  ", depth)
					}
					fmt.Println(prefix + view.Describe(n))
				})
			}
			for _, e := range v.Errors {
				fmt.Printf("skipped: %s\n", e)
			}
			return decodeErr
		},
	}
}
