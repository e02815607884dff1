// Command printlabs-admin inspects and edits a shop's custom variant
// definitions from the terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/raushankrgupta/printlabs/config"
	"github.com/raushankrgupta/printlabs/shopify"
	"github.com/raushankrgupta/printlabs/store"
	"github.com/raushankrgupta/printlabs/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type cli struct {
	shop    string
	token   string
	baseURL string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "printlabs-admin",
		Short: "Manage Print Labs custom variants for a shop",
		Long: `printlabs-admin talks to a shop's Admin API with the app's offline token.

The token comes from --token, SHOPIFY_ACCESS_TOKEN, or the session stored
in MongoDB (MONGO_URI) when the app was installed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			c.cfg = cfg

			level := cfg.LogLevel
			if c.verbose {
				level = "debug"
			}
			c.logger, err = utils.NewLogger(level)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.shop, "shop", "", "shop domain, e.g. demo.myshopify.com")
	root.PersistentFlags().StringVar(&c.token, "token", "", "Admin API access token")
	root.PersistentFlags().StringVar(&c.baseURL, "base-url", "", "override the shop's admin host")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	_ = root.PersistentFlags().MarkHidden("base-url")
	_ = root.MarkPersistentFlagRequired("shop")

	root.AddCommand(c.productsCmd(), c.variantsCmd())
	return root
}

// adminClient resolves the shop and its token and returns an Admin API client
func (c *cli) adminClient(ctx context.Context) (*shopify.Client, error) {
	shop, err := utils.NormalizeShopDomain(c.shop)
	if err != nil {
		return nil, err
	}

	token := c.token
	if token == "" {
		token = os.Getenv("SHOPIFY_ACCESS_TOKEN")
	}
	if token == "" {
		if token, err = c.storedToken(ctx, shop); err != nil {
			return nil, err
		}
	}

	base := c.baseURL
	if base == "" {
		base = shopify.ShopURL(shop)
	}
	c.logger.Debug("admin client ready", zap.String("shop", shop), zap.String("apiVersion", c.cfg.ShopifyAPIVersion))
	return shopify.NewClientWithBaseURL(base, shop, token, c.cfg.ShopifyAPIVersion), nil
}

func (c *cli) storedToken(ctx context.Context, shop string) (string, error) {
	if c.cfg.MongoURI == "" {
		return "", fmt.Errorf("no access token: pass --token, set SHOPIFY_ACCESS_TOKEN or configure MONGO_URI")
	}
	client, err := store.Connect(ctx, c.cfg.MongoURI)
	if err != nil {
		return "", err
	}
	defer client.Disconnect(context.Background())

	sessions := store.NewMongoStore(client.Database(c.cfg.MongoDatabase).Collection(store.SessionsCollection))
	session, err := sessions.Get(ctx, shop)
	if err != nil {
		return "", fmt.Errorf("load session for %s: %w", shop, err)
	}
	return session.AccessToken, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
