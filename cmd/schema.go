package cmd

import (
	"encoding/json"
	"os"

	"github.com/coursa-cli/coursa/course"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.SetOut(os.Stdout)
}

// schemaCmd prints the JSON schema of the course manifest format, for use
// with editors and validation tooling when authoring course.json files.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the course manifest format",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := jsonschema.Reflector{
			ExpandedStruct: true,
		}

		schema := reflector.Reflect(&course.Course{})
		schema.Title = "Course manifest"

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		lo.Must0(encoder.Encode(schema))
	},
}
