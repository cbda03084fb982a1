package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/jingkaihe/mindreg/pkg/minds"
	"github.com/jingkaihe/mindreg/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// setupRegistry builds the process-wide registry from config and flags.
func setupRegistry(cmd *cobra.Command) (*minds.Registry, error) {
	registry, enabled := minds.Setup(cmd.Context())
	if !enabled {
		return nil, errors.New("minds are disabled (check --no-minds and minds.enabled)")
	}
	return registry, nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all discovered minds",
	Run: func(cmd *cobra.Command, _ []string) {
		registry, err := setupRegistry(cmd)
		if err != nil {
			presenter.Error(err, "failed to set up mind registry")
			os.Exit(1)
		}

		names := registry.ListMinds()
		if len(names) == 0 {
			presenter.Info(minds.NoMindsAvailable)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION\tSCRIPTS")
		for _, name := range names {
			md, _ := registry.GetMetadata(name)
			scripts := "no"
			if registry.SupportsScripts(name) {
				scripts = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", md.Name, md.Description, scripts)
		}
		w.Flush()
	},
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a mind's instructions",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		registry, err := setupRegistry(cmd)
		if err != nil {
			presenter.Error(err, "failed to set up mind registry")
			os.Exit(1)
		}

		mind, ok := registry.LoadMind(cmd.Context(), args[0])
		if !ok {
			presenter.Error(errors.Errorf("mind '%s' not found", args[0]), "")
			os.Exit(1)
		}

		presenter.Section(mind.Metadata.Name)
		presenter.Info(mind.Metadata.Description)
		if tools := mind.Frontmatter.SplitAllowedTools(); len(tools) > 0 {
			presenter.Info("Allowed tools: " + strings.Join(tools, ", "))
		}
		if mind.Directory != "" {
			presenter.Info("Directory: " + mind.Directory)
		}
		presenter.Info("")
		fmt.Println(mind.Content)
	},
}

var runCmd = &cobra.Command{
	Use:   "run <name> <script> [args...]",
	Short: "Run a script bundled with a mind",
	Long: `Run a script from the mind's scripts/ directory. The interpreter is
selected by extension (.ts/.js, .sh, .py). The command exits with the
script's exit code.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		registry, err := setupRegistry(cmd)
		if err != nil {
			presenter.Error(err, "failed to set up mind registry")
			os.Exit(1)
		}

		name, script := args[0], args[1]
		result, ok := registry.ExecuteScript(cmd.Context(), name, script, args[2:])
		if !ok {
			presenter.Error(errors.Errorf("mind '%s' not found or does not support scripts", name), "")
			os.Exit(1)
		}

		if result.Stdout != "" {
			fmt.Println(result.Stdout)
		}
		if result.Stderr != "" {
			fmt.Fprintln(os.Stderr, result.Stderr)
		}
		if !result.Success {
			exitCode := result.ExitCode
			if exitCode <= 0 {
				exitCode = 1
			}
			os.Exit(exitCode)
		}
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <name> <path>",
	Short: "Print a resource file bundled with a mind",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		registry, err := setupRegistry(cmd)
		if err != nil {
			presenter.Error(err, "failed to set up mind registry")
			os.Exit(1)
		}

		content, ok := registry.ReadResource(cmd.Context(), args[0], args[1])
		if !ok {
			presenter.Error(errors.Errorf("resource '%s' not found in mind '%s'", args[1], args[0]), "")
			os.Exit(1)
		}
		fmt.Print(content)
	},
}

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a new mind directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		description, _ := cmd.Flags().GetString("description")
		baseDir, _ := cmd.Flags().GetString("dir")

		if err := scaffoldMind(baseDir, args[0], description); err != nil {
			presenter.Error(err, "failed to scaffold mind")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Created mind '%s' in %s", args[0], filepath.Join(baseDir, args[0])))
	},
}

func init() {
	newCmd.Flags().String("description", "Describe what this mind does and when to use it", "Mind description")
	newCmd.Flags().String("dir", "./.mindreg/minds", "Base directory to create the mind in")
}

func scaffoldMind(baseDir, name, description string) error {
	fm := minds.Frontmatter{
		Name:        name,
		Description: description,
	}
	if err := minds.ValidateFrontmatter(fm); err != nil {
		return err
	}

	mindDir := filepath.Join(baseDir, name)
	if _, err := os.Stat(filepath.Join(mindDir, minds.MindFileName)); err == nil {
		return errors.Errorf("mind '%s' already exists in %s", name, baseDir)
	}

	if err := os.MkdirAll(filepath.Join(mindDir, "scripts"), 0o755); err != nil {
		return errors.Wrap(err, "failed to create mind directory")
	}

	frontmatter, err := yaml.Marshal(fm)
	if err != nil {
		return errors.Wrap(err, "failed to marshal frontmatter")
	}

	doc := fmt.Sprintf("---\n%s---\n\n# %s\n\n## Instructions\n\nDescribe the steps an agent should follow here.\n", frontmatter, name)
	return errors.Wrap(os.WriteFile(filepath.Join(mindDir, minds.MindFileName), []byte(doc), 0o644), "failed to write mind file")
}
