package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/logicossoftware/go-matfile/internal/dumpio"
	"github.com/logicossoftware/go-matfile/internal/view"
)

func catCmd() *cli.Command {
	var (
		in       string
		compress string
	)

	return &cli.Command{
		Name:  "cat",
		Usage: "Print a dump written by the dump command, decompressing it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "dump file", Destination: &in, Required: true},
			&cli.StringFlag{Name: "compress", Usage: "dump compression (default: from the file extension)", Destination: &compress},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			log, err := setup(c)
			if err != nil {
				return err
			}
			comp, err := dumpCompression(in, compress)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			df, err := os.Open(in)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open %s: %v", in, err), 1)
			}
			defer func() { _ = df.Close() }()
			stat, err := df.Stat()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: stat %s: %v", in, err), 1)
			}

			v, err := readDump(df, stat.Size(), comp)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read dump: %v", err), 1)
			}
			log.Debug("dump read", "in", in, "compression", comp, "elements", len(v.Elements))
			for i, n := range v.Elements {
				fmt.Printf("%3d %s\n", i, view.Describe(n))
			}
			return nil
		},
	}
}

// dumpCompression returns the named compression, or the one implied by the
// extension of path.
func dumpCompression(path, name string) (dumpio.Compression, error) {
	if name != "" {
		return dumpio.Parse(name)
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range []dumpio.Compression{dumpio.ZIP, dumpio.ZSTD, dumpio.LZ4, dumpio.Brotli} {
		if c.Ext() == ext {
			return c, nil
		}
	}
	return dumpio.None, nil
}

func readDump(r io.ReaderAt, size int64, c dumpio.Compression) (*view.File, error) {
	rc, err := dumpio.NewReader(r, size, c)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	var v view.File
	if err := json.NewDecoder(rc).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}
