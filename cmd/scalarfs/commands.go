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
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chronicleprotocol/scalarfs/fsutil"
	"github.com/chronicleprotocol/scalarfs/pathvar"
	"github.com/chronicleprotocol/scalarfs/vars"
)

var errNotExist = errors.New("file does not exist")

var encoders = map[string]func([]byte) string{
	"auto":    fsutil.EncodeScalarfsURI,
	"data":    fsutil.EncodeDataURI,
	"varchar": fsutil.EncodeVarcharURI,
	"blob":    fsutil.EncodeBlobURI,
}

func resolveCmd(s *session) *cobra.Command {
	var allowEmpty bool
	cmd := &cobra.Command{
		Use:   "resolve PATTERN",
		Short: "Print the paths a name or glob pattern resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := s.fs.Glob(args[0])
			if err != nil {
				return err
			}
			if len(paths) == 0 && !allowEmpty {
				return pathvar.EmptyResultError(args[0])
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "do not fail if nothing matches")
	return cmd
}

func catCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "cat NAME...",
		Short: "Print the contents of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				b, err := s.fs.ReadFile(name)
				if err != nil {
					return err
				}
				if _, err := cmd.OutOrStdout().Write(b); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func existsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "exists NAME",
		Short: "Exit with an error if a file does not exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if !s.fs.Exists(args[0]) {
				return fmt.Errorf("%w: %s", errNotExist, args[0])
			}
			return nil
		},
	}
}

func writeCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "write NAME",
		Short: "Write standard input to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := s.fs.Create(args[0])
			if err != nil {
				return err
			}
			if _, err := io.Copy(w, cmd.InOrStdin()); err != nil {
				_ = w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			s.logger.Info("Wrote file", "name", args[0])
			return nil
		},
	}
}

func removeCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME",
		Short: "Remove a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return s.fs.Remove(args[0])
		},
	}
}

func renameCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "mv OLD NEW",
		Short: "Rename a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return s.fs.Rename(args[0], args[1])
		},
	}
}

func encodeCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "encode [TEXT]",
		Short: "Encode content as a literal-content URI",
		Long: "Encode content as a literal-content URI. Without an argument the " +
			"content is read from standard input.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encode, ok := encoders[as]
			if !ok {
				return fmt.Errorf("unknown encoding %q", as)
			}
			var content []byte
			if len(args) == 1 {
				content = []byte(args[0])
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				content = b
			}
			fmt.Fprintln(cmd.OutOrStdout(), encode(content))
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "auto", "encoding: auto, data, varchar or blob")
	return cmd
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode URI",
		Short: "Print the content of a literal-content URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := fsutil.DecodeScalarfsURI(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}

func varsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "vars",
		Short: "List session variables and their types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := s.store.Enumerate()
			slices.SortFunc(entries, func(a, b vars.Entry) int {
				return strings.Compare(a.Name, b.Name)
			})
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.Name, e.Value.Type())
			}
			return nil
		},
	}
}
