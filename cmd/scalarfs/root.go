// Copyright (C) 2021-2025 Chronicle Labs, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/chronicleprotocol/scalarfs/config"
	"github.com/chronicleprotocol/scalarfs/fsutil"
	"github.com/chronicleprotocol/scalarfs/vars"
)

var errInvalidVar = errors.New("invalid variable assignment")

type rootOptions struct {
	configPath string
	workingDir string
	vars       []string
	lists      []string
	logLevel   string
	noColor    bool
}

// session holds the state shared by all subcommands. It is set up by the
// root command before a subcommand runs.
type session struct {
	store  vars.Store
	fs     fsutil.FileSystem
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	s := &session{}
	cmd := &cobra.Command{
		Use:           "scalarfs",
		Short:         "Access files through the scalarfs protocols",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup(cmd, opts)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "HCL configuration file")
	f.StringVarP(&opts.workingDir, "dir", "C", "", "directory relative OS paths are resolved against")
	f.StringArrayVar(&opts.vars, "var", nil, "set a text variable, as name=value")
	f.StringArrayVar(&opts.lists, "list", nil, "set a list variable, as name=a,b,c")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored log output")

	cmd.AddCommand(
		resolveCmd(s),
		catCmd(s),
		existsCmd(s),
		writeCmd(s),
		removeCmd(s),
		renameCmd(s),
		encodeCmd(),
		decodeCmd(),
		varsCmd(s),
	)

	return cmd
}

func (s *session) setup(cmd *cobra.Command, opts *rootOptions) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.logLevel, err)
	}
	s.logger = slog.New(tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    opts.noColor,
	}))

	var fsOpts []fsutil.Option
	store := vars.NewMemoryStore()
	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		store = cfg.Store()
		fsOpts = append(fsOpts, cfg.Options()...)
		s.logger.Debug("Loaded configuration", "path", opts.configPath, "variables", len(cfg.Variables))
	}
	for _, kv := range opts.vars {
		name, value, err := splitAssignment(kv)
		if err != nil {
			return err
		}
		store.Set(name, vars.Text(value))
	}
	for _, kv := range opts.lists {
		name, value, err := splitAssignment(kv)
		if err != nil {
			return err
		}
		var elems []string
		if value != "" {
			elems = strings.Split(value, ",")
		}
		store.Set(name, vars.TextList(elems...))
	}
	if opts.workingDir != "" {
		fsOpts = append(fsOpts, fsutil.WithWorkingDir(opts.workingDir))
	} else if wd, err := os.Getwd(); err == nil {
		fsOpts = append([]fsutil.Option{fsutil.WithWorkingDir(wd)}, fsOpts...)
	}
	fsOpts = append(fsOpts, fsutil.WithLogger(s.logger))

	s.store = store
	s.fs = fsutil.New(store, fsOpts...)
	return nil
}

func splitAssignment(kv string) (string, string, error) {
	name, value, ok := strings.Cut(kv, "=")
	if !ok || name == "" {
		return "", "", fmt.Errorf("%w: %q", errInvalidVar, kv)
	}
	return name, value, nil
}
