package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/logicossoftware/go-matfile"
	"github.com/logicossoftware/go-matfile/internal/logger"
)

// setup merges the config file into the flag settings and builds the
// logger.
func setup(c *cli.Command) (logger.Logger, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: load config: %v", err), 1)
	}
	applyConfig(c.IsSet, cfg, &opts)
	log, err := newLogger(os.Stderr, opts.logLevel, opts.logFormat)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	return log, nil
}

// openMat decodes the file named by --file. When decoding stops past the
// header the File is returned with the elements read so far, together with
// the exit error.
func openMat(c *cli.Command) (*matfile.File, logger.Logger, error) {
	log, err := setup(c)
	if err != nil {
		return nil, nil, err
	}
	ropts, err := opts.readOptions(log)
	if err != nil {
		return nil, nil, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	f, err := matfile.Open(filePath, ropts...)
	if f == nil {
		return nil, nil, cli.Exit(fmt.Sprintf("error: decode %s: %v", filePath, err), 1)
	}
	log.Debug("decoded file", "path", filePath, "elements", len(f.Elements), "skipped", len(f.Errors))
	if err != nil {
		log.Error("decoding stopped", "path", filePath, "decoded", len(f.Elements), "err", err)
		return f, log, cli.Exit(fmt.Sprintf("error: decode %s: %v", filePath, err), 1)
	}
	return f, log, nil
}
