package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/huijiwiki/wikimap/pkg/errors"
	"github.com/huijiwiki/wikimap/pkg/markers"
	"github.com/huijiwiki/wikimap/pkg/tiles"
)

// NewGetCommand fetches a map's marker document and prints it.
func (a *App) NewGetCommand() *cobra.Command {
	var page string

	cmd := &cobra.Command{
		Use:   "get <map>",
		Short: "Fetch a map's marker document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, file, err := a.MapByName(args[0])
			if err != nil {
				return err
			}
			client, err := a.WikiClient(file.Wiki.Endpoint)
			if err != nil {
				return err
			}

			markerPage := def.MarkerPage
			if page != "" {
				markerPage = page
			}

			doc, err := client.FetchDocument(cmd.Context(), markerPage)
			if err != nil {
				return err
			}
			a.logger.Info().Str("page", doc.Name).Time("revised", doc.Revised.Time).Msg("Fetched marker document")

			var pretty json.RawMessage = doc.Content
			out, err := json.MarshalIndent(pretty, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&page, "page", "", "override the marker page from the maps file")
	return cmd
}

// NewValidateCommand lints a marker document, from the wiki or a local file.
func (a *App) NewValidateCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "validate [map]",
		Short: "Validate a marker document",
		Long: `Validate parses a marker document the way an embedded map would:
entries that fail validation are listed, and a document with no valid
entries at all fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, source, err := a.readDocument(cmd, args, fromFile)
			if err != nil {
				return err
			}

			valid, dropped, err := markers.ParseDocument(raw)
			if err != nil {
				return err
			}
			for _, dropErr := range dropped {
				fmt.Fprintf(cmd.OutOrStdout(), "invalid: %v\n", dropErr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d valid, %d invalid\n", source, len(valid), len(dropped))

			if len(valid) == 0 {
				return errors.ErrEmptyDocument
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "validate a local file instead of the wiki page")
	return cmd
}

// NewPushCommand saves a local marker document to a map's wiki page.
func (a *App) NewPushCommand() *cobra.Command {
	var (
		summary string
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "push <map> <file>",
		Short: "Save a local marker document to the wiki",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, file, err := a.MapByName(args[0])
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			// Refuse to push a document no map could load.
			valid, dropped, err := markers.ParseDocument(raw)
			if err != nil {
				return err
			}
			if len(dropped) > 0 {
				return fmt.Errorf("%s has %d invalid entries, fix them before pushing", args[1], len(dropped))
			}
			if len(valid) == 0 {
				return errors.ErrEmptyDocument
			}

			if !yes {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Save %d markers to %s", len(valid), def.MarkerPage),
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			client, err := a.WikiClient(file.Wiki.Endpoint)
			if err != nil {
				return err
			}
			if err := client.SaveDocument(cmd.Context(), def.MarkerPage, string(raw), summary); err != nil {
				return err
			}
			a.logger.Info().Str("page", def.MarkerPage).Int("markers", len(valid)).Msg("Saved marker document")
			return nil
		},
	}

	cmd.Flags().StringVarP(&summary, "summary", "m", "Update map markers", "edit summary")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// NewIconsCommand resolves the upload URLs of a map's marker icons.
func (a *App) NewIconsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "icons <map>",
		Short: "Resolve a map's marker icon files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, file, err := a.MapByName(args[0])
			if err != nil {
				return err
			}
			client, err := a.WikiClient(file.Wiki.Endpoint)
			if err != nil {
				return err
			}

			doc, err := client.FetchDocument(cmd.Context(), def.MarkerPage)
			if err != nil {
				return err
			}
			valid, _, err := markers.ParseDocument(doc.Content)
			if err != nil {
				return err
			}

			seen := make(map[string]bool)
			var names []string
			for _, info := range valid {
				if info.MarkerImage != "" && !seen[info.MarkerImage] {
					seen[info.MarkerImage] = true
					names = append(names, info.MarkerImage)
				}
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no custom icons")
				return nil
			}

			metadata, err := client.FetchMediaMetadata(cmd.Context(), names)
			if err != nil {
				return err
			}
			for _, name := range names {
				if info := metadata[name]; info != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%dx%d\t%s\n", name, info.Width, info.Height, info.URL)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\tmissing\n", name)
				}
			}
			return nil
		},
	}
}

// NewTileCommand prints the static-store URL of one tile.
func (a *App) NewTileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tile <map> <x> <y> <z>",
		Short: "Resolve a tile's upload URL",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, file, err := a.MapByName(args[0])
			if err != nil {
				return err
			}

			coords := make([]int, 3)
			for i, arg := range args[1:] {
				coords[i], err = strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("tile coordinate %q is not a number", arg)
				}
			}

			source := tiles.NewSource(def.TileTemplate, file.Wiki.Prefix)
			fmt.Fprintln(cmd.OutOrStdout(), source.URL(coords[0], coords[1], coords[2]))
			return nil
		},
	}
}

// NewTokenCommand fetches a CSRF write token, which doubles as a
// credential check before pushing.
func (a *App) NewTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Fetch a CSRF write token from the wiki",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpoint := a.config.Endpoint
			if endpoint == "" {
				file, err := a.Maps()
				if err != nil {
					return err
				}
				endpoint = file.Wiki.Endpoint
			}
			client, err := a.WikiClient(endpoint)
			if err != nil {
				return err
			}

			token, err := client.CSRFToken(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

// NewVersionCommand prints build information.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wikimap %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}

// readDocument resolves the validate command's input: a local file when
// --file is set, the map's wiki page otherwise.
func (a *App) readDocument(cmd *cobra.Command, args []string, fromFile string) (json.RawMessage, string, error) {
	if fromFile != "" {
		raw, err := os.ReadFile(fromFile)
		if err != nil {
			return nil, "", err
		}
		return raw, fromFile, nil
	}

	if len(args) == 0 {
		return nil, "", errors.NewValidationError("map", nil, "name a map or pass --file")
	}
	def, file, err := a.MapByName(args[0])
	if err != nil {
		return nil, "", err
	}
	client, err := a.WikiClient(file.Wiki.Endpoint)
	if err != nil {
		return nil, "", err
	}
	doc, err := client.FetchDocument(cmd.Context(), def.MarkerPage)
	if err != nil {
		return nil, "", err
	}
	return doc.Content, def.MarkerPage, nil
}
