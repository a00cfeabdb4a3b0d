/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/pdftran/internal/detector"
	"github.com/valpere/pdftran/internal/extractor"
	"github.com/valpere/pdftran/internal/renderer"
)

var (
	inspectInput string
	inspectLimit int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the fragments extracted from a PDF document",
	Long: `Extract a PDF document without translating it and print every fragment with
its page, font size, bold flag and source font, followed by the page count and
the detected language. Useful to check what "translate" will work on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inspectInput == "" {
			return fmt.Errorf("--input is required")
		}

		pages, err := extractor.PageCount(inspectInput)
		if err != nil {
			return err
		}

		fragments, err := extractor.New().Extract(cmd.Context(), inspectInput)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tPAGE\tSIZE\tBOLD\tSTYLE\tFONT\tTEXT")
		for i, f := range fragments {
			if inspectLimit > 0 && i >= inspectLimit {
				break
			}
			fmt.Fprintf(w, "%d\t%d\t%.1f\t%v\t%s\t%s\t%s\n",
				i+1, f.Page, f.FontSize, f.Bold, renderer.StyleFor(f).Name, f.Font, f.Text)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\nPages: %d, fragments: %d\n", pages, len(fragments))

		words := make([]string, 0, len(fragments))
		for _, f := range fragments {
			words = append(words, f.Text)
		}
		if code, ok := detector.New().DetectISO(strings.Join(words, " ")); ok {
			fmt.Fprintf(out, "Detected language: %s\n", code)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectInput, "input", "i", "", "PDF file to inspect (required)")
	inspectCmd.Flags().IntVarP(&inspectLimit, "limit", "n", 0, "Maximum number of fragments to print (0 = all)")
}
