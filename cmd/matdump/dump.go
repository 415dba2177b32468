package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/logicossoftware/go-matfile/internal/dumpio"
	"github.com/logicossoftware/go-matfile/internal/view"
)

func dumpCmd() *cli.Command {
	var (
		out       string
		compress  string
		maxValues int
		expand    bool
	)

	return &cli.Command{
		Name:  "dump",
		Usage: "Write the decoded element tree as JSON",
		Flags: []cli.Flag{
			fileFlag(),
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default stdout)", Destination: &out},
			&cli.StringFlag{Name: "compress", Usage: "output compression (none, zip, zstd, lz4, br)", Value: "none", Destination: &compress},
			&cli.IntFlag{Name: "max-values", Usage: "values per array (-1 = all, 0 = none)", Value: -1, Destination: &maxValues},
			&cli.BoolFlag{Name: "expand", Aliases: []string{"x"}, Usage: "decode compressed elements", Value: true, Destination: &expand},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			comp, err := dumpio.Parse(compress)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			f, log, decodeErr := openMat(c)
			if f == nil {
				return decodeErr
			}
			defer func() { _ = f.Close() }()

			data, err := json.MarshalIndent(view.FromFile(f, view.Options{MaxValues: maxValues, Expand: expand}), "", "  ")
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: encode json: %v", err), 1)
			}
			data = append(data, '\n')

			var dst io.Writer = os.Stdout
			if out != "" && out != "-" {
				of, err := os.Create(out)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: create %s: %v", out, err), 1)
				}
				defer func() { _ = of.Close() }()
				dst = of
			}
			if err := writeDump(dst, data, comp); err != nil {
				return cli.Exit(fmt.Sprintf("error: write dump: %v", err), 1)
			}
			log.Info("dump written", "out", out, "compression", comp, "bytes", len(data))
			return decodeErr
		},
	}
}

func writeDump(w io.Writer, data []byte, c dumpio.Compression) error {
	cw, err := dumpio.NewWriter(w, c)
	if err != nil {
		return err
	}
	if _, err := cw.Write(data); err != nil {
		_ = cw.Close()
		return err
	}
	return cw.Close()
}
