package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Sternrassler/edu-api-proxy/pkg/client"
	"github.com/spf13/cobra"
)

var errNoData = errors.New("no data")

func (app *cli) newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <url> [key=value ...]",
		Short: "Fetch one upstream payload and print it as JSON",
		Example: `  edu-proxy fetch http://202.72.235.218:8000/api/v1/thana/all districtCode=82
  edu-proxy fetch http://202.72.235.218:8082/api/v1/employee/list eiinNo=108070 page=1 size=50`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}

			eduClient, err := app.newClient()
			if err != nil {
				return err
			}

			payload, ok := eduClient.Fetch(cmd.Context(), args[0], params)
			if !ok {
				return fmt.Errorf("%s: %w", args[0], errNoData)
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			encoder.SetEscapeHTML(false)
			return encoder.Encode(payload)
		},
	}
}

// parseParams turns key=value arguments into query parameters. Values are
// kept as strings.
func parseParams(args []string) (client.Params, error) {
	params := client.Params{}
	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", arg)
		}
		params[name] = value
	}
	return params, nil
}
