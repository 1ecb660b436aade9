package config

import (
	"fmt"
	"io"
)

const HelpMessage = `QGlide admin console.

Usage:
  qglide --mode <console|tickets> [flags]

Modes:
  console   serve the admin JSON API and the /ws/tickets view for the browser dashboard
  tickets   open the terminal support-ticket watcher

Flags:
  --mode string          application mode (required)
  --config-path string   path to the config yaml file (default "config.yaml")
  --log-level string     DEBUG, INFO, WARN or ERROR (default "INFO")
  --log-output string    write logs to this file (tickets mode defaults to qglide-tickets.log)
  -h, --help             show this help

Configuration is read from .env, then the YAML file, then the environment.
Environment variables win. API_BASE_URL is required.
`

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, HelpMessage)
}
