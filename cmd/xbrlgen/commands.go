package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/warp/xbrl-engine/config"
	"github.com/warp/xbrl-engine/factory"
	"github.com/warp/xbrl-engine/solar"
	"github.com/warp/xbrl-engine/xbrl"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "xbrlgen",
		Short: "Render XBRL instance documents from report definitions",
		Long: `xbrlgen renders solar report definitions (installation sheets and
monthly production reports) to XBRL instance documents, either as XML or
as xBRL-JSON.

Definitions are JSON files; // and /* */ comments and trailing commas are
allowed.

Examples:
  xbrlgen sample installation > sheet.json
  xbrlgen render sheet.json --format xml --out sheet.xml
  xbrlgen taxonomies`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(renderCmd(opts), sampleCmd(opts), taxonomiesCmd())
	return cmd
}

// =============================================================================
// RENDER
// =============================================================================

func renderCmd(opts *globalOptions) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "render <report.json|->",
		Short: "Render a report definition",
		Long: `Render a report definition file ("-" reads stdin) and write the
instance document to stdout or --out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := factory.ParseFormat(format)
			if err != nil {
				return err
			}

			data, err := readDefinition(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			rf, logger, err := opts.reportFactory(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logger.Sync()

			report, err := parseDefinition(rf, data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			body, err := report.Render(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}
			if err := os.WriteFile(out, body, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			logger.Info("document written", zap.String("path", out), zap.String("format", string(f)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(factory.FormatXML), "Output format (xml, json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

// readDefinition reads a definition from a path or stdin and strips JSONC
// comments and trailing commas.
func readDefinition(stdin io.Reader, path string) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return jsonc.ToJSON(data), nil
}

func parseDefinition(rf *factory.ReportFactory, data []byte) (*factory.Report, error) {
	rj, err := factory.DecodeReport(data)
	if err != nil {
		return nil, err
	}
	return rf.FromJSON(rj)
}

// reportFactory builds a factory from the config file, logging to w.
func (o *globalOptions) reportFactory(w io.Writer) (*factory.ReportFactory, *zap.Logger, error) {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		loaded, err := config.LoadFromFile(o.configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	logger, err := newCLILogger(w, cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	concepts, units, err := cfg.Mapping.Tables(logger)
	if err != nil {
		return nil, nil, err
	}

	rf := factory.NewReportFactory()
	rf.Concepts = concepts
	rf.Units = units
	rf.Logger = logger
	rf.Entity = cfg.Report.Entity
	rf.Taxonomy = cfg.Report.Taxonomy
	return rf, logger, nil
}

func newCLILogger(w io.Writer, level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// =============================================================================
// SAMPLE
// =============================================================================

func sampleCmd(opts *globalOptions) *cobra.Command {
	var entity string

	cmd := &cobra.Command{
		Use:       "sample <installation|operating>",
		Short:     "Print a sample report definition",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{solar.KindInstallation, solar.KindOperating},
		RunE: func(cmd *cobra.Command, args []string) error {
			if entity == "" {
				entity = factory.DefaultEntity
				if opts.configPath != "" {
					cfg, err := config.LoadFromFile(opts.configPath)
					if err != nil {
						return err
					}
					entity = cfg.Report.Entity
				}
			}

			var definition string
			switch args[0] {
			case solar.KindInstallation:
				definition = solar.SampleInstallationJSON(entity)
			case solar.KindOperating:
				definition = solar.SampleOperatingJSON(entity)
			default:
				return fmt.Errorf("unknown sample %q (want %s)", args[0],
					strings.Join([]string{solar.KindInstallation, solar.KindOperating}, " or "))
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), definition)
			return err
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "Reporting entity (default from config)")
	return cmd
}

// =============================================================================
// TAXONOMIES
// =============================================================================

func taxonomiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomies",
		Short: "List registered taxonomies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, t := range xbrl.ListTaxonomies() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, t.NamespaceURI, t.SchemaRef)
				for _, axis := range sortedKeys(t.TypedDomains) {
					fmt.Fprintf(w, "  %s:%s -> %s\n", t.Prefix, axis, t.TypedDomains[axis])
				}
			}
			return nil
		},
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
