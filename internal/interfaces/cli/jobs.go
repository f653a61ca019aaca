package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-ingest-api/internal/application/dto"
)

type jobsListOptions struct {
	StoreID string
	Limit   int
	Offset  int
}

// NewJobsCommand agrupa los subcomandos de consulta de jobs.
func NewJobsCommand(rootOpts *RootOptions, factory ServiceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Consulta jobs de importación",
	}
	cmd.AddCommand(newJobsListCommand(rootOpts, factory))
	return cmd
}

func newJobsListCommand(rootOpts *RootOptions, factory ServiceFactory) *cobra.Command {
	opts := &jobsListOptions{}
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "Lista los jobs recientes de una tienda",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := factory(cmd.Context(), false, commandLogger(cmd, rootOpts))
			if err != nil {
				return err
			}
			defer svc.Close()

			out, err := svc.Jobs.List(cmd.Context(), opts.StoreID, opts.Limit, opts.Offset)
			if err != nil {
				return err
			}
			return printJobs(cmd.OutOrStdout(), rootOpts.Output, out)
		},
	}
	cmd.Flags().StringVar(&opts.StoreID, "store", "", "tienda")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "máximo de jobs")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "desplazamiento")
	_ = cmd.MarkFlagRequired("store")
	return cmd
}

func printJobs(w io.Writer, output string, out *dto.ImportJobListResponse) error {
	if output == "json" {
		return json.NewEncoder(w).Encode(out)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIPO\tESTADO\tPROC\tFALL\tOMIT\tINICIO")
	for _, j := range out.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			j.ID, j.JobType, j.Status, j.RecordsProcessed, j.RecordsFailed, j.RecordsSkipped,
			j.StartedAt.UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}
