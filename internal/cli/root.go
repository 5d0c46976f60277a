// Package cli implements sitectl, the command-line admin client for the
// site content API.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hairbystephanie/site/backend/go-services/internal/client"
	"github.com/hairbystephanie/site/backend/go-services/internal/editor"
	"github.com/hairbystephanie/site/backend/go-services/pkg/logger"
)

// Config keys. Each is also read from the environment with the SITE_
// prefix, e.g. SITE_API_BASE_URL.
const (
	keyAPIURL       = "api_base_url"
	keyUsername     = "admin_username"
	keyPassword     = "admin_password"
	keySaveStrategy = "save_strategy"
	keyTimeout      = "timeout"
	keyDebug        = "debug"
)

// Settings is the resolved client configuration for one invocation.
type Settings struct {
	APIURL       string
	Username     string
	Password     string
	SaveStrategy editor.SaveStrategy
	Timeout      time.Duration
	Debug        bool
}

// NewRootCmd builds the sitectl command tree. Every call returns a fresh
// tree with its own configuration.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SITE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyAPIURL, client.DefaultBaseURL)
	v.SetDefault(keyUsername, "admin")
	v.SetDefault(keySaveStrategy, editor.SaveDocument.String())
	v.SetDefault(keyTimeout, time.Duration(0))

	var configFile string

	root := &cobra.Command{
		Use:   "sitectl",
		Short: "Manage the hair stylist site content",
		Long: `sitectl reads and edits the content of the site: the hero and about
texts and the list of services.

Reading is public. Every write logs in first; the token lives only for
the duration of the command.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			if v.GetBool(keyDebug) {
				logger.Init("debug")
			} else {
				logger.Init("warn")
			}
			if configFile == "" {
				return nil
			}
			v.SetConfigFile(configFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("read config %s: %w", configFile, err)
			}
			logger.Debugf("using config file %s", v.ConfigFileUsed())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (TOML or YAML)")
	pf.String("api-url", "", "content API base URL (env SITE_API_BASE_URL)")
	pf.StringP("username", "u", "", "admin username (env SITE_ADMIN_USERNAME)")
	pf.String("password", "", "admin password (env SITE_ADMIN_PASSWORD); prompted when unset")
	pf.String("save-strategy", "", `how edits are written: "document" or "field-by-field"`)
	pf.Duration("timeout", 0, "per-request timeout, 0 for none")
	pf.Bool("debug", false, "log requests and responses")
	_ = v.BindPFlag(keyAPIURL, pf.Lookup("api-url"))
	_ = v.BindPFlag(keyUsername, pf.Lookup("username"))
	_ = v.BindPFlag(keyPassword, pf.Lookup("password"))
	_ = v.BindPFlag(keySaveStrategy, pf.Lookup("save-strategy"))
	_ = v.BindPFlag(keyTimeout, pf.Lookup("timeout"))
	_ = v.BindPFlag(keyDebug, pf.Lookup("debug"))

	root.AddCommand(
		newShowCmd(v),
		newSetCmd(v),
		newSetServiceCmd(v),
		newEditCmd(v),
		newWhoamiCmd(v),
		newVersionCmd(),
	)
	return root
}

// Execute runs sitectl with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func loadSettings(v *viper.Viper) (*Settings, error) {
	strategy, err := editor.ParseSaveStrategy(v.GetString(keySaveStrategy))
	if err != nil {
		return nil, err
	}
	s := &Settings{
		APIURL:       v.GetString(keyAPIURL),
		Username:     v.GetString(keyUsername),
		Password:     v.GetString(keyPassword),
		SaveStrategy: strategy,
		Timeout:      v.GetDuration(keyTimeout),
		Debug:        v.GetBool(keyDebug),
	}
	if s.APIURL == "" {
		s.APIURL = client.DefaultBaseURL
	}
	return s, nil
}

func (s *Settings) client() *client.Client {
	return client.New(s.APIURL, client.WithTimeout(s.Timeout), client.WithDebug(s.Debug))
}
