package askctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/askdata/askdata/internal/askclient"
	"github.com/askdata/askdata/internal/config"
	"github.com/askdata/askdata/internal/export"
	"github.com/askdata/askdata/internal/present"
	"github.com/askdata/askdata/internal/storage"
	s3store "github.com/askdata/askdata/internal/storage/s3"
)

// Uploader is an object store that can also name where an object landed.
type Uploader interface {
	storage.ObjectStore
	URL(key string) string
}

type Options struct {
	BaseURL     string
	Timeout     time.Duration
	HTTPClient  *http.Client
	ObjectStore config.ObjectStoreConfig
	OpenStore   func(ctx context.Context, cfg config.ObjectStoreConfig) (Uploader, error)
	Clock       func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
}

type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

// Run executes askctl with args and returns the process exit code:
// 0 on success, 1 when a request or export fails, 2 on usage errors.
func Run(ctx context.Context, args []string, defaults Options) int {
	stdout := defaults.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := defaults.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	root := newRootCommand(defaults, stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	printError(stderr, err.Error())
	var usage usageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

func newRootCommand(defaults Options, stdout io.Writer) *cobra.Command {
	baseURL := firstNonEmpty(defaults.BaseURL, "http://localhost:5000")
	timeout := durationOr(defaults.Timeout, 60*time.Second)

	root := &cobra.Command{
		Use:           "askctl",
		Short:         "Ask business questions against the askdata API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "base-url", baseURL, "askdata API base URL")
	root.PersistentFlags().DurationVar(&timeout, "timeout", timeout, "HTTP timeout (e.g. 30s)")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	newClient := func() *askclient.Client {
		client := askclient.New(baseURL, timeout)
		if defaults.HTTPClient != nil {
			client.HTTPClient = defaults.HTTPClient
		}
		return client
	}

	root.AddCommand(newAskCommand(defaults, stdout, newClient))
	root.AddCommand(&cobra.Command{
		Use:   "health",
		Short: "Check that the API is up",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			health, err := newClient().Health(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(stdout, health)
		},
	})
	return root
}

type askFlags struct {
	format    string
	exportTo  string
	upload    bool
	uploadKey string
}

func newAskCommand(defaults Options, stdout io.Writer, newClient func() *askclient.Client) *cobra.Command {
	var flags askFlags
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Translate a question into SQL and show the answer",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError{err: errors.New("a question is required")}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch flags.format {
			case "table", "json", "csv":
			default:
				return usageError{err: fmt.Errorf("unsupported format %q (want table, json or csv)", flags.format)}
			}
			if (flags.upload || flags.uploadKey != "") && flags.exportTo == "" {
				return usageError{err: errors.New("--upload requires --export")}
			}

			answer, err := newClient().Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if err := printAnswer(stdout, flags.format, answer); err != nil {
				return err
			}
			if flags.exportTo == "" {
				return nil
			}
			return exportAnswer(cmd.Context(), defaults, stdout, flags, answer)
		},
	}
	cmd.Flags().StringVar(&flags.format, "format", "table", "output format: table, json or csv")
	cmd.Flags().StringVar(&flags.exportTo, "export", "", "write the result to a .csv or .parquet file")
	cmd.Flags().BoolVar(&flags.upload, "upload", false, "upload the export to the configured object store")
	cmd.Flags().StringVar(&flags.uploadKey, "upload-key", "", "object key for the upload (implies --upload)")
	return cmd
}

func printAnswer(w io.Writer, format string, answer askclient.Answer) error {
	switch format {
	case "json":
		return writeJSON(w, answer)
	case "csv":
		return export.WriteCSV(w, answer.Results)
	}

	_, _ = fmt.Fprintln(w, "Generated SQL:")
	_, _ = fmt.Fprintln(w, answer.SQL)
	_, _ = fmt.Fprintln(w)

	table, ok := present.BuildTable(answer.Results)
	if !ok {
		_, _ = fmt.Fprintln(w, present.NoDataMessage)
		return nil
	}
	writer := tablewriter.NewWriter(w)
	writer.SetAlignment(tablewriter.ALIGN_LEFT)
	writer.SetAutoWrapText(false)
	writer.SetAutoFormatHeaders(false)
	writer.SetHeader(table.Columns)
	writer.AppendBulk(table.Rows)
	writer.Render()

	if chart, ok := present.BuildChart(answer.Results); ok {
		_, _ = fmt.Fprintln(w, chart.Summary())
	}
	return nil
}

func exportAnswer(ctx context.Context, defaults Options, stdout io.Writer, flags askFlags, answer askclient.Answer) error {
	format, err := export.FormatFromPath(flags.exportTo)
	if err != nil {
		return usageError{err: err}
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, format, answer.Results); err != nil {
		return fmt.Errorf("export result: %w", err)
	}
	if err := os.WriteFile(flags.exportTo, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "exported %d rows to %s\n", len(answer.Results), flags.exportTo)

	if !flags.upload && flags.uploadKey == "" {
		return nil
	}
	openStore := defaults.OpenStore
	if openStore == nil {
		openStore = openS3Store
	}
	store, err := openStore(ctx, defaults.ObjectStore)
	if err != nil {
		return fmt.Errorf("open object store: %w", err)
	}

	key := flags.uploadKey
	if key == "" {
		clock := defaults.Clock
		if clock == nil {
			clock = time.Now
		}
		key, err = storage.BuildExportKey(clock(), answer.SQL, string(format))
		if err != nil {
			return err
		}
	}
	if _, err := storage.Upload(ctx, store, key, buf.Bytes(), storage.PutOptions{
		ContentType: format.ContentType(),
		Metadata:    map[string]string{"rows": fmt.Sprint(len(answer.Results))},
	}); err != nil {
		return fmt.Errorf("upload export: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "uploaded %s\n", store.URL(key))
	return nil
}

func openS3Store(ctx context.Context, cfg config.ObjectStoreConfig) (Uploader, error) {
	store, err := s3store.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError{err: fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))}
	}
	return nil
}

func writeJSON(w io.Writer, value any) error {
	formatted, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(formatted))
	return err
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintln(w, pterm.NewStyle(pterm.FgRed).Sprint(message))
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
