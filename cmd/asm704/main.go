// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"encoding/gob"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lassandro/go704/pkg/assembler"
	"github.com/lassandro/go704/pkg/binfile"
	"github.com/lassandro/go704/pkg/word"
)

var debugvar bool
var dumpvar bool
var outvar string
var listingvar string
var originvar string

var colors aurora.Aurora

var errFailed = errors.New("assembly failed")

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	colors = aurora.NewAurora(term.IsTerminal(int(os.Stderr.Fd())))
}

var rootCmd = &cobra.Command{
	Use:   "asm704 [flags] [filename]",
	Short: "Cross-assembler for the IBM 704",
	Long: `Asm704 reads 704 assembly cards, in fixed columns or separated by
tabs, and writes the assembled segments as a binary image. Source is read
from standard input when it is not a terminal.`,

	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return flag.CommandLine.Parse(nil)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return asm704(args)
	},
}

func init() {
	flag.CommandLine.Set("logtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	flags := rootCmd.Flags()

	flags.BoolVar(
		&debugvar, "debug", false,
		"Writes the symbol table next to the output file with extension "+
			"'.sym704'",
	)
	flags.BoolVar(
		&dumpvar, "dump", false,
		"Prints the symbol table and segments to standard output",
	)
	flags.StringVarP(
		&outvar, "out", "o", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	flags.StringVarP(
		&listingvar, "listing", "l", "",
		"Writes a program listing to the named file, '-' for standard output",
	)
	flags.StringVar(
		&originvar, "origin", "0",
		"Octal location counter value before the first card",
	)
}

func asm704(args []string) error {
	origin, err := strconv.ParseUint(originvar, 8, word.AddressBits)

	if err != nil {
		return fmt.Errorf("invalid origin %q: %w", originvar, err)
	}

	var infile string
	var input io.Reader

	if !term.IsTerminal(int(os.Stdin.Fd())) && len(args) == 0 {
		input = os.Stdin
		log.SetPrefix(colors.Bold("<stdin>:").String() + " ")

		if outvar == "" {
			outvar = "out.bin"
		}
	} else {
		if len(args) != 1 {
			return errors.New("no input file")
		}

		file, err := os.Open(args[0])

		if err != nil {
			return err
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			return err
		} else if stat.IsDir() {
			return fmt.Errorf("%s is not a valid 704 assembly file", filename)
		}

		input = file
		infile = file.Name()
		log.SetPrefix(colors.Bold(filename+":").String() + " ")

		if outvar == "" {
			outvar = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".bin"
		}
	}

	glog.V(1).Infof("Assembling %s into %s", infile, outvar)

	asm, err := assembler.AssembleSource(
		input, assembler.Options{Location: word.Address(origin)},
	)

	if err != nil {
		return err
	}

	printReports(asm)

	if listingvar != "" {
		if err := writeListing(asm); err != nil {
			return fmt.Errorf("error writing listing: %w", err)
		}
	}

	if dumpvar {
		printer := pp.New()
		printer.SetColoringEnabled(term.IsTerminal(int(os.Stdout.Fd())))
		printer.Println(asm.Symbols)
		printer.Println(asm.Segments())
	}

	if asm.ErrorCount() > 0 {
		return errFailed
	}

	if err := writeBinary(asm); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}

	if debugvar {
		if infile != "" {
			if asm.Symbols.Source, err = filepath.Abs(infile); err != nil {
				log.Println(err)
				asm.Symbols.Source = ""
			}
		}

		if err := writeSymbols(asm); err != nil {
			return fmt.Errorf("error writing symbol table: %w", err)
		}
	}

	return nil
}

// printReports shows each report with its card and a marker under the
// reported column.
func printReports(asm *assembler.Assembler) {
	for _, op := range asm.Operations {
		for _, report := range op.Reports {
			severity := colors.Yellow(report.Severity.String())

			if report.Severity == assembler.SEVERITY_ERROR {
				severity = colors.Red(report.Severity.String())
			}

			var positioned assembler.PositionError

			if !errors.As(report.Err, &positioned) {
				log.Printf("%s: %s", severity, report.Err)
				continue
			}

			column := positioned.GetPosition().Column

			if column < 1 {
				column = 1
			}

			log.Printf(
				"%s: %s\n%s\n%s",
				severity,
				report.Err,
				op.Line.Text,
				colors.Red(strings.Repeat(" ", column-1)+"^"),
			)
		}
	}

	if errs, warns := asm.ErrorCount(), asm.WarningCount(); errs+warns > 0 {
		log.Printf("%d errors, %d warnings", errs, warns)
	}
}

func writeListing(asm *assembler.Assembler) error {
	if listingvar == "-" {
		return asm.Listing(os.Stdout)
	}

	file, err := os.Create(listingvar)

	if err != nil {
		return err
	}

	if err := asm.Listing(file); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func writeBinary(asm *assembler.Assembler) error {
	file, err := os.Create(outvar)

	if err != nil {
		return err
	}

	writer := binfile.NewWriter(file)

	if err := asm.WriteSegments(writer); err != nil {
		file.Close()
		return err
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func writeSymbols(asm *assembler.Assembler) error {
	filename := filepath.Join(
		filepath.Dir(outvar),
		strings.TrimSuffix(filepath.Base(outvar), filepath.Ext(outvar))+".sym704",
	)

	file, err := os.Create(filename)

	if err != nil {
		return err
	}

	if err := gob.NewEncoder(file).Encode(asm.Symbols); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func main() {
	defer glog.Flush()

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			log.Println(err)
		}

		glog.Flush()
		os.Exit(1)
	}
}
