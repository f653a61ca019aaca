package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-ingest-api/internal/application/dto"
	"github.com/jhoicas/pos-ingest-api/internal/domain/entity"
	"github.com/jhoicas/pos-ingest-api/internal/infrastructure/posexport"
)

type importOptions struct {
	StoreID string
	JobType string
	Format  string
	Charset string
	DryRun  bool
}

// NewImportCommand crea el comando import.
func NewImportCommand(rootOpts *RootOptions, factory ServiceFactory) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import <archivo>",
		Short: "Importa un archivo de exportación",
		Long: `Importa un archivo de exportación POS. --store y --job-type pisan los valores del sobre;
sin --format se deduce por la extensión (.xml = xml, cualquier otra = json).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, rootOpts, opts, args[0], factory)
		},
	}

	cmd.Flags().StringVar(&opts.StoreID, "store", "", "tienda destino (pisa storeId del archivo)")
	cmd.Flags().StringVar(&opts.JobType, "job-type", string(entity.JobTypeManualImport), "api_import|email_import|manual_import")
	cmd.Flags().StringVar(&opts.Format, "format", "", "json|xml (por defecto según extensión)")
	cmd.Flags().StringVar(&opts.Charset, "charset", "", "ISO-8859-1 o Windows-1252 si el archivo no es UTF-8")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "procesa contra un store en memoria sin tocar la base")
	return cmd
}

func runImport(cmd *cobra.Command, rootOpts *RootOptions, opts *importOptions, path string, factory ServiceFactory) error {
	format, err := inputFormat(opts.Format, path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()

	req, err := posexport.Decode(f, format, opts.Charset)
	if err != nil {
		return fmt.Errorf("leer %s: %w", path, err)
	}
	if opts.StoreID != "" {
		req.StoreID = opts.StoreID
	}
	if req.JobType == "" || cmd.Flags().Changed("job-type") {
		req.JobType = opts.JobType
	}
	if req.SourceFile == nil {
		name := filepath.Base(path)
		req.SourceFile = &name
	}

	log := commandLogger(cmd, rootOpts)
	svc, err := factory(cmd.Context(), opts.DryRun, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	resp, err := svc.Ingest.Ingest(cmd.Context(), *req)
	if err != nil {
		return err
	}
	return printIngest(cmd.OutOrStdout(), rootOpts.Output, resp, opts.DryRun)
}

func inputFormat(flag, path string) (posexport.Format, error) {
	if flag != "" {
		return posexport.ParseFormat(flag)
	}
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return posexport.FormatXML, nil
	}
	return posexport.FormatJSON, nil
}

func printIngest(w io.Writer, output string, resp *dto.IngestResponse, dryRun bool) error {
	if output == "json" {
		return json.NewEncoder(w).Encode(resp)
	}
	prefix := "job"
	if dryRun {
		prefix = "job (dry-run)"
	}
	fmt.Fprintf(w, "%s %s: procesados=%d fallidos=%d omitidos=%d\n",
		prefix, resp.JobID, resp.RecordsProcessed, resp.RecordsFailed, resp.RecordsSkipped)
	for _, e := range resp.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
	return nil
}
