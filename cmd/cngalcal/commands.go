package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	phttp "cngalcal/internal/platform/net/http"
	pstrings "cngalcal/internal/platform/strings"
	"cngalcal/internal/services/api"

	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "cngalcal",
		Short:         "CnGal upcoming releases as CSV, JSON, iCalendar and Atom",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			a.initLogger()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.now, "now", "", "reference time, RFC3339 or YYYY-MM-DD (default: current time)")
	pf.StringVar(&a.rules, "rules", "", "rules.yaml override (default: CNGAL_RULES_FILE or the embedded pack)")
	pf.StringVar(&a.out, "out", "", "output directory (default: CNGAL_OUTPUT_DIR or output)")

	root.AddCommand(exportCmd(a), normalizeCmd(a), serveCmd(a))
	return root
}

func exportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Fetch the listing once and write every export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.build(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer e.Close()

			b, err := e.releases.Service().Run(cmd.Context())
			if err != nil {
				return err
			}
			s := b.Summary()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "run %s: fetched %d, events %d (%d estimated), unresolved %d, dropped %d -> %s\n",
				s.RunID, s.Fetched, s.Events, s.Estimated, s.Unresolved, len(b.Diagnostics), e.releases.Options().OutputDir)
			return err
		},
	}
}

func normalizeCmd(a *app) *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "normalize <phrase>...",
		Short: "Print the partial and resolved date of each phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.build(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			svc := e.releases.Service()
			now := e.deps.Clock.Now()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "PHRASE\tPARTIAL\tSHAPE\tRESOLVED\tESTIMATED")
			for _, phrase := range args {
				pv, err := svc.Preview(phrase, now)
				if err != nil {
					_, _ = fmt.Fprintf(tw, "%s\t-\terror\t%v\t-\n", phrase, err)
					continue
				}
				resolved := "-"
				if pv.Resolved != nil {
					resolved = pv.Resolved.Format(time.DateOnly)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", phrase, pstrings.Or(pv.Partial, "-"), pv.Shape, resolved, pv.Estimated)
				if explain {
					for _, st := range svc.Norm.Explain(phrase).Steps {
						_, _ = fmt.Fprintf(tw, "  %s\t%q\t\t\t\n", st.Stage, st.Text)
					}
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "print the text after every rewrite stage")
	return cmd
}

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the API and refresh the batch periodically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := a.build(ctx, true)
			if err != nil {
				return err
			}
			defer e.Close()

			srv := phttp.NewServer(a.cfg)
			releases := api.Mount(srv.Router(), api.Options{Config: a.cfg, Deps: e.deps, Releases: e.releases})
			go releases.Feed().Start(ctx)

			return srv.Run(ctx)
		},
	}
}
