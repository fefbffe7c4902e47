package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waitumusic/waitumusic/internal/catalogfile"
	"github.com/waitumusic/waitumusic/internal/rbac"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect role catalogs offline",
	Long: `Inspect a role catalog without a running server.

Without --file the built-in catalog is used. With --file the YAML document
is loaded; set include_defaults: true in it to extend the built-in roles.`,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check names, parents, permission ids and cycles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := loadCatalogFile(cmd)
		if err != nil {
			return err
		}
		catalog := file.Catalog()
		if err := catalog.Validate(file.PermissionList()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "catalog ok: %d roles\n", catalog.Len())
		return nil
	},
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check ROLE PERMISSION",
	Short: "Report whether a role holds a permission",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := loadCatalogFile(cmd)
		if err != nil {
			return err
		}
		granted := newCLIResolver(cmd).HasPermission(args[0], args[1], file.Catalog())
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", args[0], args[1], granted)
		return nil
	},
}

var catalogEffectiveCmd = &cobra.Command{
	Use:   "effective ROLE",
	Short: "List a role's effective permissions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := loadCatalogFile(cmd)
		if err != nil {
			return err
		}
		for _, id := range newCLIResolver(cmd).EffectivePermissions(args[0], file.Catalog()).Sorted() {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var catalogSectionsCmd = &cobra.Command{
	Use:   "sections ROLE",
	Short: "List the dashboard sections a role may see",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := loadCatalogFile(cmd)
		if err != nil {
			return err
		}
		for _, s := range newCLIResolver(cmd).AvailableSections(args[0], file.SectionList(), file.Catalog()) {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", s.Order, s.ID, s.Name)
		}
		return nil
	},
}

func init() {
	catalogCmd.PersistentFlags().StringP("file", "f", "", "YAML catalog document")
	catalogCmd.AddCommand(catalogValidateCmd, catalogCheckCmd, catalogEffectiveCmd, catalogSectionsCmd)
	rootCmd.AddCommand(catalogCmd)
}

func loadCatalogFile(cmd *cobra.Command) (catalogfile.File, error) {
	path, _ := cmd.Flags().GetString("file")
	if strings.TrimSpace(path) == "" {
		return catalogfile.File{IncludeDefaults: true}, nil
	}
	return catalogfile.Open(path)
}

// newCLIResolver reports diagnostics on stderr so stdout stays parseable.
func newCLIResolver(cmd *cobra.Command) *rbac.Resolver {
	return rbac.NewResolver(nil, newStderrLogger(cmd.ErrOrStderr()), nil)
}

func newStderrLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
