package main

import (
	"io"
	netHttp "net/http"

	"github.com/m-zajac/gitpulse/internal/adapter/backend"
	"github.com/m-zajac/gitpulse/internal/adapter/filterstore"
	"github.com/m-zajac/gitpulse/internal/api/http/limiter"
	"github.com/m-zajac/gitpulse/internal/app"
	"github.com/m-zajac/gitpulse/internal/database"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// env holds dependencies shared by all commands.
type env struct {
	conf Config
	l    *logrus.Logger
	in   io.Reader
	out  io.Writer
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	e := &env{
		in:  in,
		out: out,
	}

	rootCmd := &cobra.Command{
		Use:   "gitpulse",
		Short: "Git activity dashboard",
		Long: `gitpulse shows commit and line statistics of your local git repositories from the last 7 days.

Projects and their stats are served by the gitpulse backend (GITPULSE_BACKEND_ADDRESS).
Run 'gitpulse serve' to keep a dashboard refreshed and exposed over http,
or use other commands for one-shot actions from the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			l, err := newLogger(conf)
			if err != nil {
				return err
			}
			l.Out = cmd.ErrOrStderr()

			e.conf = conf
			e.l = l
			return nil
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)

	rootCmd.AddCommand(newServeCmd(e))
	rootCmd.AddCommand(newStatusCmd(e))
	rootCmd.AddCommand(newAddCmd(e))
	rootCmd.AddCommand(newRemoveCmd(e))
	rootCmd.AddCommand(newFilterCmd(e))

	return rootCmd
}

func newBackendClient(conf Config) app.BackendClient {
	httpClient := &netHttp.Client{
		Timeout: conf.BackendTimeout,
	}
	limitedHTTPClient := limiter.NewHTTPDoer(
		httpClient,
		conf.BackendRateLimit,
		conf.BackendRateBurst,
	)

	return backend.NewClient(limitedHTTPClient, conf.BackendAddress)
}

// openFilterStore opens filter preferences db.
// Returns nil store and noop close func when persistence is disabled.
func (e *env) openFilterStore() (app.FilterStore, func(), error) {
	if e.conf.FiltersDBPath == "" {
		return nil, func() {}, nil
	}

	kvStore, err := database.NewBoltKVStore(
		e.conf.FiltersDBPath,
		e.conf.FiltersDBBucketName,
	)
	if err != nil {
		return nil, nil, err
	}

	store := filterstore.New(kvStore, e.l.WithField("component", "filterStore"))
	return store, func() {
		if err := kvStore.Close(); err != nil {
			e.l.Warnf("closing filters db: %v", err)
		}
	}, nil
}

// newDashboard creates dashboard for one-shot commands.
// Filter preferences are optional here, a db locked by running daemon only disables them.
func (e *env) newDashboard(requireStore bool) (*app.Dashboard, func(), error) {
	store, closeStore, err := e.openFilterStore()
	if err != nil {
		if requireStore {
			return nil, nil, err
		}
		e.l.Warnf("filter preferences unavailable: %v", err)
		store, closeStore = nil, func() {}
	}

	dashboard, err := app.NewDashboard(
		newBackendClient(e.conf),
		store,
		e.conf.RefreshInterval,
		e.l.WithField("component", "dashboard"),
	)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	return dashboard, func() {
		dashboard.Close()
		closeStore()
	}, nil
}
