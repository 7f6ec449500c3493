package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	authproxy "github.com/itbuildgroup/authproxy-go"
	"github.com/itbuildgroup/authproxy-go/config"
	"github.com/itbuildgroup/authproxy-go/logging"
)

var (
	baseURL   string
	stateFile string
	logLevel  string

	log    *slog.Logger
	client *authproxy.Client
)

func Execute() error {
	root := &cobra.Command{
		Use:          "authproxy",
		Short:        "Passwordless AuthProxy client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if baseURL != "" {
				cfg.BaseURL = baseURL
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if stateFile != "" {
				cfg.StateFile = stateFile
			} else if cfg.StateFile == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				cfg.StateFile = filepath.Join(dir, ".authproxy", "state.json")
			}

			log = logging.NewPretty(os.Stderr, cfg.LogLevel, true)

			var err error
			client, err = authproxy.New(cfg, log)
			return err
		},
	}

	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "server base URL (default from AUTHPROXY_BASE_URL)")
	root.PersistentFlags().StringVar(&stateFile, "state-file", "", "device state file (default ~/.authproxy/state.json)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(loginCmd(), enrollCmd(), listenCmd())
	return root.Execute()
}

// prompt reads one trimmed line from stdin.
func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(sc.Text()), nil
}
