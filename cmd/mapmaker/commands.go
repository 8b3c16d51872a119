package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-mapmaker/internal/exchange"
	"github.com/joeblew999/plat-mapmaker/internal/mapconfig"
)

func addCommands(cli humacli.CLI) {
	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			a := mustApp(cmd.Context(), opts)
			srv, err := a.server(opts)
			if err != nil {
				fail("building server", err)
			}
			spec := srv.API().OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fail("marshaling spec", err)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// embed subcommand: snippet for a saved map file
	embedCmd := &cobra.Command{
		Use:   "embed",
		Short: "Print the embed snippet of a saved map file",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			a := loadInto(cmd, opts)
			code, err := a.snippet.Generate(a.ctrl.Config(), a.ctrl.Providers())
			if err != nil {
				fail("generating snippet", err)
			}
			fmt.Println(code)
		}),
	}
	cli.Root().AddCommand(withInput(embedCmd))

	// geojson subcommand: convert a saved map file
	geojsonCmd := &cobra.Command{
		Use:   "geojson",
		Short: "Convert a saved map file to a GeoJSON FeatureCollection",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			a := loadInto(cmd, opts)
			data, err := json.MarshalIndent(exchange.ToGeoJSON(a.ctrl.Config()), "", "  ")
			if err != nil {
				fail("encoding GeoJSON", err)
			}
			fmt.Println(string(data))
		}),
	}
	cli.Root().AddCommand(withInput(geojsonCmd))

	// check subcommand: validate a saved map file
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a saved map file and summarize its layers",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			a := loadInto(cmd, opts)
			cfg := a.ctrl.Config()
			fmt.Printf("%s: %d layers\n", cfg.Meta.Title, cfg.Len())
			counts := make(map[mapconfig.Kind]int)
			for _, rec := range cfg.Records() {
				counts[rec.Kind()]++
			}
			for _, k := range mapconfig.Kinds() {
				fmt.Printf("  %-10s %d\n", k.Collection(), counts[k])
			}
			fmt.Printf("  base layer %s, zoom %d\n", cfg.Meta.BaseLayer, cfg.Meta.Zoom)
		}),
	}
	cli.Root().AddCommand(withInput(checkCmd))
}

func withInput(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().StringP("in", "i", "-", "Saved map file (- for stdin)")
	return cmd
}

// loadInto reads the --in file into a fresh controller without touching the
// quick-save.
func loadInto(cmd *cobra.Command, opts *Options) *app {
	a := mustApp(cmd.Context(), opts)

	in, _ := cmd.Flags().GetString("in")
	var (
		data []byte
		err  error
	)
	if in == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(in)
	}
	if err != nil {
		fail("reading map file", err)
	}
	if err := a.ctrl.Load(cmd.Context(), data); err != nil {
		fail("loading "+in, err)
	}
	return a
}

func mustApp(ctx context.Context, opts *Options) *app {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, opts, false)
	if err != nil {
		fail("startup", err)
	}
	return a
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	os.Exit(1)
}
