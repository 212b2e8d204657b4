package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pantheon-run/pantheon/internal/bundled"
	"github.com/pantheon-run/pantheon/pkg/artifactengine"
	"github.com/pantheon-run/pantheon/pkg/idcounter"
	"github.com/pantheon-run/pantheon/pkg/processhandler"
	"github.com/pantheon-run/pantheon/pkg/workspace"
)

var (
	version = "dev"

	flagProjectRoot   string
	flagArtifactsRoot string
	flagActor         string
	flagInputFile     string
)

var rootCmd = &cobra.Command{
	Use:     "pantheon",
	Short:   "Run convention-driven artifact-generation processes",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProjectRoot, "project-root", ".", "project root containing .pantheon_project")
	rootCmd.PersistentFlags().StringVar(&flagArtifactsRoot, "artifacts-root", "", "override the configured artifacts root")
	rootCmd.PersistentFlags().StringVar(&flagActor, "actor", "cli", "actor name recorded in framework params and audit log")
	rootCmd.AddCommand(createCmd, retrieveCmd, updateCmd, buildCmd, teamDataCmd)
}

func main() {
	rootCmd.SetOut(os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newHandler wires Workspace, IdCounter, and ArtifactEngine into a single
// processhandler.Handler, injecting ArtifactEngine's capabilities back
// into Workspace via the SectionsResolver/BasicRenderer hooks so the two
// packages stay free of a direct import cycle.
func newHandler() (*processhandler.Handler, *workspace.Workspace, error) {
	fs := bundled.FileSystem()
	ws, err := workspace.New(flagProjectRoot, flagArtifactsRoot, fs)
	if err != nil {
		return nil, nil, err
	}

	ws.SetSectionsResolver(func(markersContent, dataPath string) (string, error) {
		return artifactengine.ResolveURIData(markersContent, dataPath, nil)
	})
	ws.SetBasicRenderer(func(templateContent string, vars map[string]any) (string, error) {
		return artifactengine.RenderTemplate(templateContent, vars, "routine")
	})

	ids := idcounter.New(ws)
	engine := artifactengine.New(ws, ids)
	return processhandler.New(ws, engine), ws, nil
}

func frameworkParams(process string) map[string]any {
	now := time.Now().UTC()
	return map[string]any{
		"pantheon_process": process,
		"pantheon_actor":   flagActor,
		"timestamp":        now.Format(time.RFC3339),
		"datestamp":        now.Format("2006-01-02"),
	}
}

func readInputParams() (map[string]any, error) {
	var r io.Reader = os.Stdin
	if flagInputFile != "" && flagInputFile != "-" {
		f, err := os.Open(flagInputFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var params map[string]any
	if err := json.NewDecoder(r).Decode(&params); err != nil {
		return nil, fmt.Errorf("decoding input params: %w", err)
	}
	return params, nil
}

func printJSON(cmd *cobra.Command, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

var createCmd = &cobra.Command{
	Use:   "create <process>",
	Short: "Run a CREATE process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		process := args[0]
		input, err := readInputParams()
		if err != nil {
			return err
		}
		handler, ws, err := newHandler()
		if err != nil {
			return err
		}
		templates, err := loadCreateTemplates(ws, process)
		if err != nil {
			return err
		}
		result, err := handler.ExecuteCreateProcess(process, input, frameworkParams(process), templates)
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

var retrieveCmd = &cobra.Command{
	Use:   "retrieve <process> [artifact-id]",
	Short: "Run a RETRIEVE process",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		process := args[0]
		var artifactID string
		if len(args) == 2 {
			artifactID = args[1]
		}
		handler, _, err := newHandler()
		if err != nil {
			return err
		}
		result, err := handler.ExecuteRetrieveProcess(process, artifactID, nil)
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <process> [artifact-id]",
	Short: "Run an UPDATE process",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		process := args[0]
		var artifactID string
		if len(args) == 2 {
			artifactID = args[1]
		}
		input, err := readInputParams()
		if err != nil {
			return err
		}
		handler, _, err := newHandler()
		if err != nil {
			return err
		}
		result, err := handler.ExecuteUpdateProcess(process, artifactID, input, frameworkParams(process))
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

var buildCmd = &cobra.Command{
	Use:   "build <builder-process>",
	Short: "Run the BUILD meta-operation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buildSpec, err := readInputParams()
		if err != nil {
			return err
		}
		handler, _, err := newHandler()
		if err != nil {
			return err
		}
		result, err := handler.ExecuteBuildProcess(args[0], buildSpec)
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

var teamDataCmd = &cobra.Command{
	Use:   "team-data [dot-path]",
	Short: "Read (and render) team-data.yaml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dotPath string
		if len(args) == 1 {
			dotPath = args[0]
		}
		handler, _, err := newHandler()
		if err != nil {
			return err
		}
		value, err := handler.GetTeamData(flagActor, dotPath)
		if err != nil {
			return err
		}
		return printJSON(cmd, value)
	},
}

func init() {
	createCmd.Flags().StringVar(&flagInputFile, "input", "-", "JSON input params file, or - for stdin")
	updateCmd.Flags().StringVar(&flagInputFile, "input", "-", "JSON patch input params file, or - for stdin")
	buildCmd.Flags().StringVar(&flagInputFile, "input", "-", "JSON build-spec file, or - for stdin")
}

// loadCreateTemplates assembles the CREATE template set an ad hoc CLI
// invocation needs directly from the process's on-disk assets, the same
// convention-based files Workspace otherwise reads one at a time.
func loadCreateTemplates(ws *workspace.Workspace, process string) (map[string]string, error) {
	content, err := ws.GetArtifactContentTemplate(process)
	if err != nil {
		return nil, err
	}
	placement, err := ws.GetArtifactDirectoryTemplate(process)
	if err != nil {
		return nil, err
	}
	naming, err := ws.GetArtifactFilenameTemplate(process)
	if err != nil {
		return nil, err
	}
	templates := map[string]string{
		"content":   content,
		"placement": placement,
		"naming":    naming,
	}
	if ws.HasJSONLTemplates(process) {
		if jsonlPlacement, err := ws.GetArtifactJSONLDirectoryTemplate(process); err == nil {
			templates["jsonl_placement"] = jsonlPlacement
		}
		if jsonlNaming, err := ws.GetArtifactJSONLFilenameTemplate(process); err == nil {
			templates["jsonl_naming"] = jsonlNaming
		}
	}
	return templates, nil
}
