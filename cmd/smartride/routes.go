package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smartride/smartride-web/internal/api"
	"github.com/smartride/smartride-web/internal/core/guard"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the registered routes and who may reach them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := prometheus.NewRegistry()
			e := api.NewRouter(api.Deps{Registerer: reg, Gatherer: reg, Log: zerolog.Nop()})

			routes := e.Routes()
			sort.Slice(routes, func(i, j int) bool {
				if routes[i].Path == routes[j].Path {
					return routes[i].Method < routes[j].Method
				}
				return routes[i].Path < routes[j].Path
			})

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tACCESS")
			for _, r := range routes {
				access := "-"
				if rt, ok := guard.Lookup(r.Path); ok {
					access = rt.Access.String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Method, r.Path, access)
			}
			return w.Flush()
		},
	}
}
