package commands

import (
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/acsf-client/internal/constants"
)

// NewSitesCommand creates the sites command group.
func NewSitesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sites",
		Aliases: []string{"site"},
		Short:   "Manage sites",
		Long:    "List, inspect, back up and restore factory sites",
	}

	cmd.AddCommand(newSitesListCommand())
	cmd.AddCommand(newSitesGetCommand())
	cmd.AddCommand(newSitesDeleteCommand())
	cmd.AddCommand(newSitesClearCachesCommand())
	cmd.AddCommand(newSitesBackupCommand())
	cmd.AddCommand(newSitesBackupsCommand())
	cmd.AddCommand(newSitesBackupURLCommand())
	cmd.AddCommand(newSitesRestoreCommand())

	return cmd
}

func newSitesListCommand() *cobra.Command {
	var (
		limit          int
		page           int
		canary         bool
		showIncomplete bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sites",
		Long:  "List the sites of the factory one page at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			options := map[string]any{"limit": limit, "page": page}
			if cmd.Flags().Changed("canary") {
				options["canary"] = canary
			}

			if cmd.Flags().Changed("show-incomplete") {
				options["show_incomplete"] = showIncomplete
			}

			resp, err := client.Sites().List(cmd.Context(), options)
			if err != nil {
				return err
			}

			return renderList(cmd.OutOrStdout(), resp, "sites", []string{"id", "site", "db_name", "stack_id", "groups"})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", constants.DefaultPageSize, "results per page (max 100)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().BoolVar(&canary, "canary", false, "list only canary sites")
	cmd.Flags().BoolVar(&showIncomplete, "show-incomplete", false, "include sites still being created")

	return cmd
}

func newSitesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SITE_ID",
		Short: "Get site details",
		Long:  "Display detailed information about a specific site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			siteID, err := parseID(args[0], constants.ErrInvalidSiteID)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			resp, err := client.Site(siteID).Details(cmd.Context())
			if err != nil {
				return err
			}

			return renderResponse(cmd.OutOrStdout(), resp)
		},
	}
}

func newSitesDeleteCommand() *cobra.Command {
	var opts waitOptions

	cmd := &cobra.Command{
		Use:   "delete SITE_ID",
		Short: "Delete a site",
		Long:  "Delete a site. The deletion runs as a WIP task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			siteID, err := parseID(args[0], constants.ErrInvalidSiteID)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			resp, err := client.Site(siteID).Delete(cmd.Context())
			if err != nil {
				return err
			}

			if err := renderResponse(cmd.OutOrStdout(), resp); err != nil {
				return err
			}

			return followTaskResponse(cmd.Context(), cmd.OutOrStdout(), client, resp, opts)
		},
	}

	addWaitFlags(cmd, &opts, true)

	return cmd
}

func newSitesClearCachesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-caches SITE_ID",
		Short: "Clear site caches",
		Long:  "Clear the Varnish and Drupal caches of a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			siteID, err := parseID(args[0], constants.ErrInvalidSiteID)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			resp, err := client.Site(siteID).ClearCaches(cmd.Context())
			if err != nil {
				return err
			}

			return renderResponse(cmd.OutOrStdout(), resp)
		},
	}
}

func newSitesBackupCommand() *cobra.Command {
	var (
		label          string
		components     []string
		callbackURL    string
		callbackMethod string
		opts           waitOptions
	)

	cmd := &cobra.Command{
		Use:   "backup SITE_ID",
		Short: "Back up a site",
		Long:  "Start a backup of a site, optionally waiting for it to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			siteID, err := parseID(args[0], constants.ErrInvalidSiteID)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			options := map[string]any{}
			if label != "" {
				options["label"] = label
			}

			if len(components) > 0 {
				options["components"] = components
			}

			if callbackURL != "" {
				options["callback_url"] = callbackURL
				options["callback_method"] = callbackMethod
			}

			resp, err := client.Site(siteID).Backup(cmd.Context(), options)
			if err != nil {
				return err
			}

			if err := renderResponse(cmd.OutOrStdout(), resp); err != nil {
				return err
			}

			return followTaskResponse(cmd.Context(), cmd.OutOrStdout(), client, resp, opts)
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "backup label")
	cmd.Flags().StringSliceVar(&components, "components", nil,
		"components to back up (codebase, database, public files, private files, themes)")
	cmd.Flags().StringVar(&callbackURL, "callback-url", "", "URL notified when the backup finishes")
	cmd.Flags().StringVar(&callbackMethod, "callback-method", "POST", "HTTP method for the callback (GET or POST)")
	addWaitFlags(cmd, &opts, true)

	return cmd
}

func newSitesBackupsCommand() *cobra.Command {
	var (
		limit int
		page  int
		order string
	)

	cmd := &cobra.Command{
		Use:   "backups SITE_ID",
		Short: "List site backups",
		Long:  "List the backups of a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			siteID, err := parseID(args[0], constants.ErrInvalidSiteID)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			resp, err := client.Site(siteID).ListBackups(cmd.Context(), map[string]any{
				"limit": limit,
				"page":  page,
				"order": order,
			})
			if err != nil {
				return err
			}

			return renderList(cmd.OutOrStdout(), resp, "backups", []string{"id", "label", "timestamp", "componentList"})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", constants.DefaultPageSize, "results per page (max 100)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&order, "order", "desc", "sort order (asc or desc)")

	return cmd
}

func newSitesBackupURLCommand() *cobra.Command {
	var lifetime int

	cmd := &cobra.Command{
		Use:   "backup-url SITE_ID BACKUP_ID",
		Short: "Get a backup download link",
		Long:  "Generate a temporary download URL for a site backup",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			siteID, err := parseID(args[0], constants.ErrInvalidSiteID)
			if err != nil {
				return err
			}

			backupID, err := parseID(args[1], constants.ErrInvalidBackupID)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			options := map[string]any{}
			if cmd.Flags().Changed("lifetime") {
				options["lifetime"] = lifetime
			}

			resp, err := client.Site(siteID).GetBackup(backupID).URL(cmd.Context(), options)
			if err != nil {
				return err
			}

			return renderResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().IntVar(&lifetime, "lifetime", 0, "link lifetime in seconds")

	return cmd
}

func newSitesRestoreCommand() *cobra.Command {
	var (
		targetSiteID int
		components   []string
		opts         waitOptions
	)

	cmd := &cobra.Command{
		Use:   "restore SITE_ID BACKUP_ID",
		Short: "Restore a site backup",
		Long:  "Restore a backup onto its own site or onto --target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			siteID, err := parseID(args[0], constants.ErrInvalidSiteID)
			if err != nil {
				return err
			}

			backupID, err := parseID(args[1], constants.ErrInvalidBackupID)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			options := map[string]any{}
			if targetSiteID > 0 {
				options["target_site_id"] = targetSiteID
			}

			if len(components) > 0 {
				options["components"] = components
			}

			resp, err := client.Site(siteID).GetBackup(backupID).Restore(cmd.Context(), options)
			if err != nil {
				return err
			}

			if err := renderResponse(cmd.OutOrStdout(), resp); err != nil {
				return err
			}

			return followTaskResponse(cmd.Context(), cmd.OutOrStdout(), client, resp, opts)
		},
	}

	cmd.Flags().IntVar(&targetSiteID, "target", 0, "site to restore onto (default: the backup's site)")
	cmd.Flags().StringSliceVar(&components, "components", nil, "components to restore")
	addWaitFlags(cmd, &opts, true)

	return cmd
}
