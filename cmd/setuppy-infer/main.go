// The setuppy-infer binary answers PEP 517 build-backend questions for a
// legacy setuptools source tree without invoking a Python interpreter.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	setuppyinfer "github.com/ekdahl-rope/setuppy-infer"
	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/suggest"
)

var (
	jsonOutput  = flag.Bool("json", false, "emit output as JSON")
	suggestName = flag.Bool("suggest-name", false, "flag a likely mismatch between the declared name and the directory name")
)

var rootCmd = &cobra.Command{
	Use:   "setuppy-infer [subcommand]",
	Short: "Static build-requirements/metadata analysis for legacy setuptools projects",
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeLines(items []string) {
	for _, item := range items {
		fmt.Println(item)
	}
}

var metadataCmd = &cobra.Command{
	Use:   "metadata <path>",
	Short: "Print the fully merged package metadata",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := setuppyinfer.New(args[0])
		if err != nil {
			log.Fatal(errors.Wrap(err, "loading project"))
		}
		rec, err := a.Metadata()
		if err != nil {
			log.Fatal(errors.Wrap(err, "reading metadata"))
		}
		dict := setuppyinfer.AsDict(rec)
		if *suggestName {
			if note := suggest.NameMismatch(args[0], rec.Name); note != "" {
				fmt.Fprintln(os.Stderr, note)
			}
		}
		if *jsonOutput {
			if err := writeJSON(dict); err != nil {
				log.Fatal(errors.Wrap(err, "encoding metadata"))
			}
			return
		}
		keys := make([]string, 0, len(dict))
		for k := range dict {
			keys = append(keys, k)
		}
		for _, k := range keys {
			fmt.Printf("%s: %v\n", k, dict[k])
		}
	},
}

var requiresSdistCmd = &cobra.Command{
	Use:   "requires-sdist <path>",
	Short: "Print the sdist build requirements",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := setuppyinfer.New(args[0])
		if err != nil {
			log.Fatal(errors.Wrap(err, "loading project"))
		}
		reqs, err := a.RequiresForBuildSdist(nil)
		if err != nil {
			log.Fatal(errors.Wrap(err, "resolving sdist requirements"))
		}
		if *jsonOutput {
			if err := writeJSON(reqs); err != nil {
				log.Fatal(errors.Wrap(err, "encoding requirements"))
			}
			return
		}
		writeLines(reqs)
	},
}

var requiresWheelCmd = &cobra.Command{
	Use:   "requires-wheel <path>",
	Short: "Print the wheel build requirements",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := setuppyinfer.New(args[0])
		if err != nil {
			log.Fatal(errors.Wrap(err, "loading project"))
		}
		reqs, err := a.RequiresForBuildWheel(nil)
		if err != nil {
			log.Fatal(errors.Wrap(err, "resolving wheel requirements"))
		}
		if *jsonOutput {
			if err := writeJSON(reqs); err != nil {
				log.Fatal(errors.Wrap(err, "encoding requirements"))
			}
			return
		}
		writeLines(reqs)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{metadataCmd, requiresSdistCmd, requiresWheelCmd} {
		cmd.Flags().AddGoFlag(flag.Lookup("json"))
	}
	metadataCmd.Flags().AddGoFlag(flag.Lookup("suggest-name"))

	rootCmd.AddCommand(metadataCmd, requiresSdistCmd, requiresWheelCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
