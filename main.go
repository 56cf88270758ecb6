package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/flattener"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
	"github.com/mcncl/jsontab/internal/parser"
	"github.com/mcncl/jsontab/internal/renderer"
	"github.com/mcncl/jsontab/internal/sanitizer"
)

// CLI defines the command-line interface
var CLI struct {
	Input            string `help:"Path to input JSON or JSON-Lines file. If not specified, reads from stdin." arg:"" optional:"" type:"path"`
	Sep              string `help:"Separator joining nested keys into column names." default:"__"`
	Rows             int    `help:"Number of rows shown in the preview." short:"n" default:"10"`
	Output           string `help:"Path to output file. If not specified, a preview is displayed." short:"o" type:"path"`
	Save             bool   `help:"Save to an auto-named file in the output directory instead of displaying." short:"s"`
	Format           string `help:"Output file format." enum:"csv,xlsx" default:"csv"`
	NormalizeColumns bool   `help:"Rewrite column names to snake_case."`
	Config           string `help:"Path to config file." type:"path"`
	Debug            bool   `help:"Enable debug logging." short:"d"`
	Version          bool   `help:"Show version information." short:"v"`
	Interactive      bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug bool
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("jsontab"),
		kong.Description("A tool to flatten JSON and JSON-Lines files into CSV tables"),
		kong.UsageOnError(),
	)

	// Parse the command line arguments
	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Check if no arguments provided and set interactive mode by default.
	// This has to happen after Parse, which resets every flag to its
	// declared default.
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("jsontab version %s\n", Version)
		return
	}

	err = run(&Context{Debug: CLI.Debug})
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		// Show help on error
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsontab --help\n")

		os.Exit(errors.ExitCode(err))
	}
}

// run executes the main program logic
func run(ctx *Context) error {
	// 1. Resolve configuration
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, CLI.Sep, CLI.Rows, CLI.Format, CLI.NormalizeColumns)
	if err != nil {
		return errors.NewInputError("failed to load configuration", err)
	}

	// 2. Set up logging
	level := cfg.Log.Level
	if ctx.Debug {
		level = "debug"
	}
	logging.Setup(level, cfg.Log.Format)
	slog.Debug("configuration resolved", "separator", cfg.Separator, "format", cfg.Format, "config_file", configPath)

	// 3. Parse JSON input
	doc, source, err := parseInput()
	if err != nil {
		// Error is already wrapped by parseInput or the parser
		return err
	}
	slog.Debug("input parsed", "source", source, "json_lines", doc.FromLines)

	// 4. Flatten into a table
	flattenerInst := flattener.NewFlattenerWithConfig(cfg)
	table, err := flattenerInst.Flatten(doc)
	if err != nil {
		return err
	}

	// 5. Sanitize cells for export
	sanitizerInst := sanitizer.NewSanitizer()
	sanitizerInst.Sanitize(table)
	slog.Debug("table built", "rows", len(table.Rows), "columns", len(table.Columns))

	// 6. Report empty results as a notice, not an error
	if table.Empty() {
		fmt.Fprintf(os.Stderr, "No records found in %s.\n", source)
		return nil
	}

	// 7. Output the result
	return writeOutput(table, source, cfg)
}

// parseInput reads JSON from file or stdin and reports the source name
// used in messages and auto-named output files
func parseInput() (models.Document, string, error) {
	if CLI.Input != "" {
		// Parse from file
		doc, err := parser.ParseFile(CLI.Input)
		return doc, CLI.Input, err
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Document{}, "", errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			// Interactive mode
			doc, err := readInteractiveInput()
			return doc, "stdin", err
		}
		// No data provided on stdin and not in interactive mode
		return models.Document{}, "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Document{}, "", errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.Document{}, "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	doc, err := parser.ParseString(string(jsonData))
	return doc, "stdin", err
}

// writeOutput saves the table to a file or renders a preview on stdout
func writeOutput(table *models.Table, source string, cfg *config.Config) error {
	outputPath := CLI.Output
	if outputPath == "" && CLI.Save {
		autoPath, err := autoOutputPath(cfg)
		if err != nil {
			return err
		}
		outputPath = autoPath
	}

	if outputPath != "" {
		if err := writeFile(outputPath, table, cfg.Format); err != nil {
			return err
		}
		slog.Debug("output written", "path", outputPath, "format", cfg.Format)
		fmt.Printf("Success! Flattened data saved to %s (Rows: %d).\n", outputPath, len(table.Rows))
		return nil
	}

	return displayTable(table, source, cfg.PreviewRows)
}

// displayTable prints the summary header and a bounded preview
func displayTable(table *models.Table, source string, previewRows int) error {
	fmt.Printf("--- Data from %s (Total Rows: %d, Columns: %d) ---\n", source, len(table.Rows), len(table.Columns))

	if previewRows >= 0 && previewRows < len(table.Rows) {
		fmt.Printf("Showing the first %d rows:\n", previewRows)
	} else {
		fmt.Println("Showing all rows:")
	}

	if err := renderer.WritePreview(os.Stdout, table, previewRows); err != nil {
		return errors.NewOutputError("failed to write preview", err)
	}
	return nil
}

// writeFile writes the table at path in the configured format
func writeFile(path string, table *models.Table, format string) error {
	if format == config.FormatXLSX {
		if err := renderer.WriteXLSX(path, table); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to create file '%s'", path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close file: %v\n", cerr)
		}
	}()

	if err := renderer.WriteCSV(f, table); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
	}
	return nil
}

// autoOutputPath builds <output_dir>/<stem>_flat.<ext> for --save and
// makes sure the directory exists
func autoOutputPath(cfg *config.Config) (string, error) {
	dir, err := cfg.ResolveOutputDir()
	if err != nil {
		return "", errors.NewOutputError("failed to resolve output directory", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.NewOutputError(fmt.Sprintf("failed to create output directory '%s'", dir), err)
	}

	stem := "stdin"
	if CLI.Input != "" {
		base := filepath.Base(CLI.Input)
		stem = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return filepath.Join(dir, fmt.Sprintf("%s_flat.%s", stem, cfg.Format)), nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.Document, error) {
	fmt.Fprintln(os.Stderr, "jsontab Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			// Keep whatever preceded EOF on an unterminated last line
			jsonBuilder.WriteString(line)
			break
		}
		if err != nil {
			return models.Document{}, errors.NewInputError("error reading input", err)
		}
		jsonBuilder.WriteString(line)
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
