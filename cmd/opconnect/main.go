package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"example.com/opconnect/connect"
	"example.com/opconnect/onepassword"
)

type spec struct {
	ConnectHost    string        `envconfig:"OP_CONNECT_HOST"`
	ConnectToken   string        `envconfig:"OP_CONNECT_TOKEN"`
	ConnectTimeout time.Duration `envconfig:"OP_CONNECT_TIMEOUT" default:"15s"`
	Debug          bool          `envconfig:"OP_CONNECT_DEBUG"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := new(spec)
	if err := envconfig.Process("", cfg); err != nil {
		return err
	}

	logger := logrus.New()
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	var client *connect.Client

	rootCmd := &cobra.Command{
		Use:          "opconnect",
		Short:        "Browse and edit items on a 1Password Connect server",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			client, err = connect.NewClient(connect.Config{
				BaseURL:    cfg.ConnectHost,
				Token:      cfg.ConnectToken,
				HTTPClient: &http.Client{Timeout: cfg.ConnectTimeout},
				Logger:     logger,
			})
			return err
		},
	}

	rootCmd.AddCommand(
		newVaultsCommand(&client),
		newItemsCommand(&client),
		newGetCommand(&client),
		newCreateCommand(&client),
		newDeleteCommand(&client),
	)

	return rootCmd.Execute()
}

func newVaultsCommand(client **connect.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "vaults",
		Short: "List vaults readable by the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			vaults, err := (*client).ListVaults(cmd.Context())
			if err != nil {
				return err
			}
			for _, vault := range vaults {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", vault.ID, vault.Name)
			}
			return nil
		},
	}
}

func newItemsCommand(client **connect.Client) *cobra.Command {
	var vault string
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List item summaries in a vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			vaultUUID, err := resolveVault(cmd, *client, vault)
			if err != nil {
				return err
			}
			items, err := (*client).ListItems(cmd.Context(), vaultUUID)
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", item.ID, item.Category, item.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&vault, "vault", "", "vault ID or name")
	cmd.MarkFlagRequired("vault")
	return cmd
}

func newGetCommand(client **connect.Client) *cobra.Command {
	var (
		vault  string
		title  string
		id     string
		field  string
		reveal bool
	)
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch a full item by ID or title",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (title == "") == (id == "") {
				return fmt.Errorf("exactly one of --title or --id is required")
			}
			vaultUUID, err := resolveVault(cmd, *client, vault)
			if err != nil {
				return err
			}
			var item *onepassword.Item
			if id != "" {
				item, err = (*client).GetItem(cmd.Context(), vaultUUID, id)
			} else {
				item, err = (*client).GetItemByTitle(cmd.Context(), vaultUUID, title)
			}
			if err != nil {
				return err
			}
			if field != "" {
				value, err := item.FieldValue(field)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}
			printItem(cmd, item, reveal)
			return nil
		},
	}
	cmd.Flags().StringVar(&vault, "vault", "", "vault ID or name")
	cmd.Flags().StringVar(&title, "title", "", "item title")
	cmd.Flags().StringVar(&id, "id", "", "item ID")
	cmd.Flags().StringVar(&field, "field", "", "print a single field value, e.g. \"username\" or \"Section / Label\"")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print concealed field values")
	cmd.MarkFlagRequired("vault")
	return cmd
}

func newCreateCommand(client **connect.Client) *cobra.Command {
	var (
		vault            string
		title            string
		category         string
		username         string
		password         string
		generatePassword bool
		itemURL          string
		tags             []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a login-style item",
		RunE: func(cmd *cobra.Command, args []string) error {
			vaultUUID, err := resolveVault(cmd, *client, vault)
			if err != nil {
				return err
			}

			builder := onepassword.NewItemBuilder().
				SetCategory(onepassword.ItemCategory(strings.ToUpper(category))).
				SetTitle(title)
			for _, tag := range tags {
				builder.AddTag(tag)
			}
			if username != "" {
				builder.AddField(onepassword.ItemField{
					Label:   "username",
					Value:   username,
					Type:    onepassword.FieldTypeString,
					Purpose: onepassword.PurposeUsername,
				})
			}
			if password != "" || generatePassword {
				fb := onepassword.NewFieldBuilder("password").
					Type(onepassword.FieldTypeConcealed).
					Purpose(onepassword.PurposePassword).
					Value(password)
				if generatePassword {
					fb.Generate(onepassword.GeneratorRecipe{
						Length: 32,
						CharacterSets: []string{
							onepassword.CharactersLetters,
							onepassword.CharactersDigits,
							onepassword.CharactersSymbols,
						},
					})
				}
				passwordField, err := fb.Build()
				if err != nil {
					return err
				}
				builder.AddField(passwordField)
			}
			if itemURL != "" {
				builder.AddField(onepassword.ItemField{
					Label: "url",
					Value: itemURL,
					Type:  onepassword.FieldTypeURL,
				})
			}

			item, err := builder.Build()
			if err != nil {
				return err
			}
			created, err := (*client).CreateItem(cmd.Context(), vaultUUID, item)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\t%s\n", created.ID, created.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&vault, "vault", "", "vault ID or name")
	cmd.Flags().StringVar(&title, "title", "", "item title")
	cmd.Flags().StringVar(&category, "category", "login", "item category")
	cmd.Flags().StringVar(&username, "username", "", "username field value")
	cmd.Flags().StringVar(&password, "password", "", "password field value")
	cmd.Flags().BoolVar(&generatePassword, "generate-password", false, "let the server generate the password")
	cmd.Flags().StringVar(&itemURL, "url", "", "url field value")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag to attach, repeatable")
	cmd.MarkFlagRequired("vault")
	return cmd
}

func newDeleteCommand(client **connect.Client) *cobra.Command {
	var (
		vault string
		id    string
	)
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an item by ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			vaultUUID, err := resolveVault(cmd, *client, vault)
			if err != nil {
				return err
			}
			if err := (*client).DeleteItem(cmd.Context(), vaultUUID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&vault, "vault", "", "vault ID or name")
	cmd.Flags().StringVar(&id, "id", "", "item ID")
	cmd.MarkFlagRequired("vault")
	cmd.MarkFlagRequired("id")
	return cmd
}

// resolveVault accepts either a vault UUID or a vault name. Connect
// vault IDs are 26-character base32 strings; anything else is treated
// as a name and resolved with a filtered lookup.
func resolveVault(cmd *cobra.Command, client *connect.Client, vault string) (string, error) {
	if looksLikeUUID(vault) {
		return vault, nil
	}
	resolved, err := client.GetVaultByTitle(cmd.Context(), vault)
	if err != nil {
		return "", err
	}
	return resolved.ID, nil
}

func looksLikeUUID(s string) bool {
	if len(s) != 26 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '2' && r <= '7':
		default:
			return false
		}
	}
	return true
}

func printItem(cmd *cobra.Command, item *onepassword.Item, reveal bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\t%s\t%s\n", item.ID, item.Category, item.Title)
	if len(item.Tags) > 0 {
		fmt.Fprintf(out, "tags: %s\n", strings.Join(item.Tags, ", "))
	}
	labels := make(map[string]string, len(item.Sections))
	for _, section := range item.Sections {
		labels[section.ID] = section.Label
	}
	for _, field := range item.Fields {
		value := field.Value
		if field.Type == onepassword.FieldTypeConcealed && !reveal {
			value = "******"
		}
		name := field.Label
		if field.Section != nil {
			if label := labels[field.Section.ID]; label != "" {
				name = label + " / " + name
			}
		}
		fmt.Fprintf(out, "  %s: %s\n", name, value)
	}
}
