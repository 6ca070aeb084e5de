package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/fragebank/export"
	"github.com/hazyhaar/fragebank/internal/config"
	"github.com/hazyhaar/fragebank/internal/httpapi"
	"github.com/hazyhaar/fragebank/internal/store"
	"github.com/hazyhaar/fragebank/pagesource"
	"github.com/hazyhaar/fragebank/questionbank"
)

const version = "0.1.0"

// app carries what the persistent pre-run resolved for the subcommands.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "fragebank",
		Short:         "Extract question banks from paginated question catalogues",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = a.logLevel
			}
			a.cfg = cfg
			a.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(),
				&slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to fragebank.yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		a.parseCmd(),
		a.solutionsCmd(),
		a.exportCmd(),
		a.serveCmd(),
		a.mcpCmd(),
	)
	return root
}

func (a *app) pipeline() *questionbank.Pipeline {
	pc := a.cfg.Pipeline()
	pc.Logger = a.logger
	return questionbank.New(pc)
}

// source picks the document from args or the config file.
func (a *app) source(args []string) (questionbank.PageSource, error) {
	path := a.cfg.Source
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, fmt.Errorf("no document given (argument or source in config)")
	}
	return pagesource.Opener(a.cfg.PDFToText)(path, a.cfg.PDFBackend)
}

// documentFlags binds the flags shared by parse and solutions.
func (a *app) documentFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("backend", "", "text extractor: pdfcpu, pdftotext or text (default: by extension)")
	f.Int("skip", questionbank.DefaultHeaderPagesToSkip, "header pages before the first question")
	f.String("keyword", questionbank.DefaultSolutionsKeyword, "word after the date stamp on the solutions page")
}

// applyDocumentFlags lets changed flags win over file and env values.
func (a *app) applyDocumentFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Changed("backend") {
		a.cfg.PDFBackend, _ = f.GetString("backend")
	}
	if f.Changed("skip") {
		a.cfg.HeaderPagesToSkip, _ = f.GetInt("skip")
	}
	if f.Changed("keyword") {
		a.cfg.SolutionsKeyword, _ = f.GetString("keyword")
	}
	return a.cfg.Validate()
}

func (a *app) parseCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Extract questions, answers and correctness flags",
		Long: `Reads the catalogue, segments the question pages and attaches the
correct options from the solutions section.

Without --csv or --json the bank is written to stdout as JSON.

Examples:
  fragebank parse katalog.pdf --csv german.csv --delimiter ';'
  fragebank parse katalog.txt --backend text --skip 0 --save`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.applyOutputFlags(cmd); err != nil {
				return err
			}
			if err := a.applyDocumentFlags(cmd); err != nil {
				return err
			}
			src, err := a.source(args)
			if err != nil {
				return err
			}
			bank, err := a.pipeline().Extract(cmd.Context(), src)
			if err != nil {
				return err
			}
			logReport(a.logger, bank)

			if save {
				st, err := store.Open(a.cfg.DBPath)
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.SaveBank(cmd.Context(), bank); err != nil {
					return err
				}
				a.logger.Info("bank saved", "db", a.cfg.DBPath, "import_id", bank.ImportID)
			}
			return a.writeOutputs(cmd.OutOrStdout(), bank, !save)
		},
	}
	a.documentFlags(cmd)
	a.outputFlags(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "store the bank in the database")
	cmd.Flags().String("db", "", "database path (default from config)")
	return cmd
}

func (a *app) solutionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solutions [file]",
		Short: "Locate and print the solutions section",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.applyDocumentFlags(cmd); err != nil {
				return err
			}
			src, err := a.source(args)
			if err != nil {
				return err
			}
			pages, err := src.Pages(cmd.Context())
			if err != nil {
				return err
			}
			page, line, err := questionbank.LocateSolutionsLine(pages, a.cfg.SolutionsKeyword)
			if err != nil {
				return err
			}
			sol := questionbank.ParseSolutions(questionbank.SolutionsSection(pages, page, line))
			return writeIndented(cmd.OutOrStdout(), map[string]any{
				"page":      page,
				"line":      line,
				"questions": len(sol),
				"solutions": sol,
			})
		},
	}
	a.documentFlags(cmd)
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <import-id|latest>",
		Short: "Export a stored bank as CSV or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.applyOutputFlags(cmd); err != nil {
				return err
			}
			st, err := store.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			id := args[0]
			if id == httpapi.Latest {
				imp, err := st.LatestImport(cmd.Context())
				if err != nil {
					return err
				}
				if imp == nil {
					return fmt.Errorf("database %s holds no imports", a.cfg.DBPath)
				}
				id = imp.ID
			}
			bank, err := st.LoadBank(cmd.Context(), id)
			if err != nil {
				return err
			}
			if bank == nil {
				return fmt.Errorf("import %s not found", id)
			}
			return a.writeOutputs(cmd.OutOrStdout(), bank, true)
		},
	}
	a.outputFlags(cmd)
	cmd.Flags().String("db", "", "database path (default from config)")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored banks over a read-only HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			if f.Changed("listen") {
				a.cfg.Listen, _ = f.GetString("listen")
			}
			if f.Changed("db") {
				a.cfg.DBPath, _ = f.GetString("db")
			}
			st, err := store.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()
			h := httpapi.New(st, a.logger).Handler()
			return httpapi.ListenAndServe(cmd.Context(), a.cfg.Listen, h, a.logger)
		},
	}
	cmd.Flags().String("listen", "", "listen address (default from config)")
	cmd.Flags().String("db", "", "database path (default from config)")
	return cmd
}

func (a *app) mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the question bank tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f := cmd.Flags(); f.Changed("root") {
				a.cfg.DocumentsRoot, _ = f.GetString("root")
			}
			srv := mcp.NewServer(&mcp.Implementation{Name: "fragebank", Version: version}, nil)
			open := pagesource.Rooted(a.cfg.DocumentsRoot, pagesource.Opener(a.cfg.PDFToText))
			a.pipeline().RegisterMCP(srv, open)
			a.logger.Info("mcp server starting", "transport", "stdio", "root", a.cfg.DocumentsRoot)
			return srv.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
	cmd.Flags().String("root", "", "only open documents below this directory")
	return cmd
}

// --- output ---

func (a *app) outputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("csv", "", "write the bank as CSV to this path")
	f.String("json", "", "write the bank as a JSON catalogue to this path")
	f.String("delimiter", ",", "CSV field delimiter")
}

func (a *app) applyOutputFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Changed("csv") {
		a.cfg.CSVPath, _ = f.GetString("csv")
	}
	if f.Changed("json") {
		a.cfg.JSONPath, _ = f.GetString("json")
	}
	if f.Changed("delimiter") {
		a.cfg.CSVDelimiter, _ = f.GetString("delimiter")
	}
	if f.Changed("db") {
		a.cfg.DBPath, _ = f.GetString("db")
	}
	return a.cfg.Validate()
}

// writeOutputs writes the configured files, or the bank to stdout when none
// is configured and toStdout is set.
func (a *app) writeOutputs(stdout io.Writer, bank *questionbank.Bank, toStdout bool) error {
	if a.cfg.CSVPath != "" {
		if err := writeFile(a.cfg.CSVPath, func(w io.Writer) error {
			return export.WriteCSV(w, bank.Records, export.CSVOptions{Delimiter: a.cfg.Delimiter()})
		}); err != nil {
			return err
		}
		a.logger.Info("csv written", "path", a.cfg.CSVPath, "questions", len(bank.Records))
	}
	if a.cfg.JSONPath != "" {
		if err := writeFile(a.cfg.JSONPath, func(w io.Writer) error {
			return export.WriteJSON(w, bank)
		}); err != nil {
			return err
		}
		a.logger.Info("json written", "path", a.cfg.JSONPath, "questions", len(bank.Records))
	}
	if toStdout && a.cfg.CSVPath == "" && a.cfg.JSONPath == "" {
		return writeIndented(stdout, bank)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func logReport(logger *slog.Logger, bank *questionbank.Bank) {
	rep := bank.Report
	if rep.Clean() {
		return
	}
	logger.Warn("solutions do not line up with the questions",
		"import_id", bank.ImportID,
		"unsolved", rep.Unsolved,
		"orphans", rep.Orphans,
		"out_of_range", len(rep.OutOfRange),
		"duplicates", rep.Duplicates,
	)
}
