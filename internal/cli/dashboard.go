package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/jrsteele09/nexus-console/dashboard"
	"github.com/jrsteele09/nexus-console/internal/metrics"
	"github.com/spf13/cobra"
)

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the aggregated dashboard numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			view, err := dashboard.NewService(client).Build(cmd.Context())
			if err != nil {
				return cliError(err)
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Empresas\t%d\n", view.Stats.TotalCompanies)
			fmt.Fprintf(tw, "Usuarios activos\t%d\n", view.Stats.TotalActiveUsers)
			fmt.Fprintf(tw, "Sesiones activas\t%d\n", view.Stats.TotalActiveSessions)
			fmt.Fprintf(tw, "Solicitudes pendientes\t%d\n", view.Stats.PendingRequests)
			fmt.Fprintf(tw, "Anuncios activos\t%d\n", view.Stats.ActiveAnuncios)
			if err := tw.Flush(); err != nil {
				return err
			}

			if view.Alerts.Show() {
				fmt.Fprintf(out, "\n%d crítica(s), %d en advertencia\n", view.Alerts.Critical, view.Alerts.Warning)
			}
			if len(view.Licenses) > 0 {
				fmt.Fprintln(out)
				tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "EMPRESA\tUSO\tESTADO")
				for _, l := range view.Licenses {
					fmt.Fprintf(tw, "%s\t%d%%\t%s\n", l.EmpresaNombre, l.Pct, l.Status)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			if view.CapacityErrors > 0 {
				fmt.Fprintf(out, "\nNo se pudo cargar la capacidad de %d empresa(s)\n", view.CapacityErrors)
			}
			return nil
		},
	}
}

func (a *app) probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check that the Nexus services answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			prober := dashboard.NewProber(client, a.cfg.GetProbeTimeout(), metrics.Nop())
			results := prober.Probe(cmd.Context(), dashboard.DefaultEndpoints)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SERVICIO\tESTADO\tLATENCIA")
			offline := 0
			for _, r := range results {
				state := "en línea"
				if !r.Online {
					state = "fuera de línea"
					offline++
				}
				fmt.Fprintf(tw, "%s\t%s\t%d ms\n", r.Name, state, r.LatencyMs)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if offline > 0 {
				return fmt.Errorf("%d service(s) offline", offline)
			}
			return nil
		},
	}
}
