package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meigma/unfurl"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported archive formats",
	Run: func(_ *cobra.Command, _ []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FORMAT\tSUFFIXES")
		for _, f := range unfurl.Formats() {
			fmt.Fprintf(w, "%s\t%s\n", f.Name, strings.Join(f.Suffixes, ", "))
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
