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
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lassandro/go704/pkg/assembler"
	"github.com/lassandro/go704/pkg/disasm"
	"github.com/lassandro/go704/pkg/machine"
	"github.com/lassandro/go704/pkg/word"
)

var symbolsvar string
var dumpvar bool

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

var rootCmd = &cobra.Command{
	Use:   "dis704 [flags] filename",
	Short: "Disassembler for asm704 binary images",
	Long: `Dis704 loads the segments of an asm704 binary image into a 704 core
image and prints every loaded word with its location, octal value, symbolic
instruction and BCD reading. Labels are taken from the symbol table written
by 'asm704 --debug' when one is found.`,

	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return flag.CommandLine.Parse(nil)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return dis704(args[0])
	},
}

func init() {
	flag.CommandLine.Set("logtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.Flags().StringVarP(
		&symbolsvar, "symbols", "s", "",
		"Symbol table to label locations with, "+
			"defaulting to the image name with extension '.sym704'",
	)
	rootCmd.Flags().BoolVar(
		&dumpvar, "dump", false,
		"Prints the loaded regions and transfer address before the listing",
	)
}

func loadLabels(filename string) map[word.Address]string {
	labels := make(map[word.Address]string)

	if symbolsvar == "" {
		symbolsvar = filepath.Join(
			filepath.Dir(filename),
			strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))+".sym704",
		)
	}

	file, err := os.Open(symbolsvar)

	if err != nil {
		glog.V(1).Infof("No symbol table: %s", err)
		return labels
	}

	defer file.Close()

	var symtable assembler.SymTable

	if err := gob.NewDecoder(file).Decode(&symtable); err != nil {
		log.Println("Error loading symbol file")
		log.Println(err)
		return labels
	}

	for _, name := range symtable.Order {
		value := symtable.Symbols[name]

		if value.Negative() || value.Magnitude() >= word.AddressSpace {
			continue
		}

		if _, exists := labels[value.Address()]; !exists {
			labels[value.Address()] = name
		}
	}

	glog.V(1).Infof("Loaded %d labels from %s", len(labels), symbolsvar)

	return labels
}

func dis704(filename string) error {
	file, err := os.Open(filename)

	if err != nil {
		return err
	}

	defer file.Close()

	core := new(machine.Core)

	if err := core.LoadBin(file); err != nil {
		return err
	}

	regions := core.Regions()

	if dumpvar {
		printer := pp.New()
		printer.SetColoringEnabled(term.IsTerminal(int(os.Stdout.Fd())))
		printer.Println(regions)

		if core.State.HasTransfer {
			printer.Println(core.State.Transfer)
		}
	}

	labels := loadLabels(filename)
	width := termWidth()

	for _, region := range regions {
		for addr := int(region.First); addr < region.Last; addr++ {
			at := word.Address(addr)

			fmt.Println(clip(
				fmt.Sprintf("%-6s  %s", labels[at], disasm.Line(at, core.Read(at))),
				width,
			))
		}
	}

	if core.State.HasTransfer {
		fmt.Printf("%-6s  END  %s\n", "", core.State.Transfer)
	}

	return nil
}

func main() {
	defer glog.Flush()

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		glog.Flush()
		os.Exit(1)
	}
}
