package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vidinfra/tenbyte-userdata/pkg/catalog"
	"github.com/vidinfra/tenbyte-userdata/pkg/config"
)

// recordFlags are the per-field overrides shared by generate, validate
// and tui.
type recordFlags struct {
	username  string
	password  string
	webServer string
	database  string
	nodejs    bool
	yarn      bool
}

func addRecordFlags(cmd *cobra.Command, f *recordFlags) {
	def := config.Default()
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "login username to create")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "login password")
	cmd.Flags().StringVarP(&f.webServer, "web-server", "w", def.WebServer,
		fmt.Sprintf("web server (%s)", strings.Join(catalog.Values(catalog.CategoryWebServer), ", ")))
	cmd.Flags().StringVarP(&f.database, "database-type", "d", def.Database,
		fmt.Sprintf("database (%s)", strings.Join(catalog.Values(catalog.CategoryDatabase), ", ")))
	cmd.Flags().BoolVar(&f.nodejs, "nodejs", false, "install Node.js")
	cmd.Flags().BoolVar(&f.yarn, "yarn", false, "install Yarn (MERN stack only)")
}

// resolveRecord starts from the defaults, applies the --config file if
// one was given and then every flag the operator set explicitly.
func (a *app) resolveRecord(cmd *cobra.Command, path string, f *recordFlags) (config.Record, error) {
	r := config.Default()
	if path != "" {
		loaded, err := a.loader.LoadFile(cmd.Context(), path)
		if err != nil {
			return config.Record{}, err
		}
		r = loaded
		a.logger.Debug().Str("path", path).Msg("Loaded record file")
	}

	if f == nil {
		return r, nil
	}

	flags := cmd.Flags()
	if flags.Changed("username") {
		r = r.WithUsername(f.username)
	}
	if flags.Changed("password") {
		r = r.WithPassword(f.password)
	}
	if flags.Changed("web-server") || path == "" {
		r = r.WithWebServer(f.webServer)
	}
	if flags.Changed("database-type") || path == "" {
		r = r.WithDatabase(f.database)
	}
	if flags.Changed("nodejs") {
		r = r.WithNodejs(f.nodejs)
	}
	if flags.Changed("yarn") {
		r = r.WithYarn(f.yarn)
	}
	return r, nil
}
