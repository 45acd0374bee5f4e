// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/jsonstream/internal/codec"
	"github.com/sirseerhq/jsonstream/internal/config"
	"github.com/sirseerhq/jsonstream/internal/metadata"
	"github.com/sirseerhq/jsonstream/internal/output"
	"github.com/sirseerhq/jsonstream/internal/sink"
)

const stdio = "-"

type convertOptions struct {
	from        string
	outputFile  string
	indent      int
	compress    string
	color       string
	sequence    bool
	nonFinite   string
	metadataDir string
	digest      bool
	configPath  string
	verbose     bool
}

func newConvertCommand() *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a JSON, JSONC, YAML or CBOR document to JSON",
		Long: `Convert a document to JSON text, streaming it through a validating writer.

The input is read from the given file, or from stdin when no file or "-" is
given. The input format is taken from --from, else from the file extension,
else JSON is assumed. Files ending in .gz, .zst or .lz4 are decompressed.

Settings are read from --config, .jsonstream.yaml, .jsonstream.yml or
~/.jsonstream/config.yaml, then from JSONSTREAM_* environment variables.
Flags override both.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := stdio
			if len(args) == 1 {
				input = args[0]
			}
			return runConvert(cmd, input, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "Input format: json, jsonc, yaml or cbor (default: from file extension)")
	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().IntVar(&opts.indent, "indent", 2, "Spaces per nesting level, 0 for compact output")
	cmd.Flags().StringVar(&opts.compress, "compress", "none", "Output compression: none, gzip, zstd or lz4")
	cmd.Flags().StringVar(&opts.color, "color", config.ColorAuto, "Colorize output: auto, always or never")
	cmd.Flags().BoolVar(&opts.sequence, "sequence", false, "Write every input document, one per line")
	cmd.Flags().StringVar(&opts.nonFinite, "non-finite", "error", "Handling of NaN and Infinity: error, string or literal")
	cmd.Flags().StringVar(&opts.metadataDir, "metadata-dir", "", "Directory for conversion metadata records")
	cmd.Flags().BoolVar(&opts.digest, "digest", false, "Print the BLAKE3 digest of the output to stderr")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Configuration file path")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveFormat picks the input format from the flag, then the extension.
func resolveFormat(from, input string) (codec.Format, error) {
	if from != "" {
		return codec.ParseFormat(from)
	}
	if input != stdio {
		if f, ok := codec.FormatFromPath(input); ok {
			return f, nil
		}
	}
	return codec.FormatJSON, nil
}

// loadSettings layers explicitly set flags over the loaded configuration.
func loadSettings(cmd *cobra.Command, opts *convertOptions, format codec.Format) (*config.Config, error) {
	cfg, err := config.LoadConfigForInput(opts.configPath, format.String())
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("indent") {
		cfg.Format.Indent = opts.indent
	}
	if flags.Changed("non-finite") {
		cfg.Format.NonFinite = opts.nonFinite
	}
	if flags.Changed("sequence") {
		cfg.Format.TopLevel = output.TopLevelSingle.String()
		if opts.sequence {
			cfg.Format.TopLevel = output.TopLevelSequence.String()
		}
	}
	if flags.Changed("compress") {
		cfg.Output.Compression = opts.compress
	}
	if flags.Changed("color") {
		cfg.Output.Color = opts.color
	}
	if flags.Changed("metadata-dir") {
		cfg.MetadataDir = opts.metadataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runConvert(cmd *cobra.Command, input string, opts *convertOptions) error {
	stderr := cmd.ErrOrStderr()
	logger := newLogger(stderr, opts.verbose)

	format, err := resolveFormat(opts.from, input)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(cmd, opts, format)
	if err != nil {
		return err
	}

	writerOpts, err := cfg.WriterOptions()
	if err != nil {
		return err
	}

	compression, err := sink.ParseCompression(cfg.Output.Compression)
	if err != nil {
		return err
	}
	toStdout := opts.outputFile == "" || opts.outputFile == stdio
	if compression == sink.CompressionNone && !toStdout {
		compression = sink.CompressionFromPath(opts.outputFile)
	}

	if useColor(cfg.Output.Color, cmd.OutOrStdout(), toStdout, compression) {
		color.NoColor = false
		writerOpts.Colors = output.NewColors()
	}

	logger.Debug("starting conversion",
		"input", input,
		"format", format,
		"output", outputName(opts.outputFile),
		"compression", compression,
		"indent", writerOpts.Indent,
		"top_level", writerOpts.TopLevel,
		"non_finite", writerOpts.NonFinite)

	src, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	defer src.Close()

	var base io.Writer
	if toStdout {
		base = sink.Nop(cmd.OutOrStdout())
	} else {
		f, fErr := sink.NewFile(opts.outputFile)
		if fErr != nil {
			return fErr
		}
		base = f
	}

	var digest *sink.Digest
	if opts.digest || cfg.MetadataDir != "" {
		digest = sink.NewDigest(base)
		base = digest
	}

	dest, err := sink.Compress(base, compression)
	if err != nil {
		_ = sink.Abort(base)
		return err
	}

	startTime := time.Now()
	w := output.NewWriter(dest, output.WithOptions(writerOpts))
	tracker := metadata.New(w)

	if err := codec.Convert(tracker, src, format); err != nil {
		_ = sink.Abort(dest)
		return fmt.Errorf("failed to convert %s: %w", inputName(input), err)
	}
	if err := tracker.Close(); err != nil {
		if w.Depth() > 0 {
			_ = sink.Abort(dest)
		}
		return fmt.Errorf("failed to write output: %w", err)
	}

	size := w.Offset()
	var sum string
	if digest != nil {
		size = digest.Size()
		sum = digest.Sum()
	}
	tracker.RecordOutput(size, sum)

	stats := tracker.Stats()
	logger.Debug("conversion finished",
		"documents", stats.Documents,
		"values", stats.Values,
		"max_depth", stats.MaxDepth,
		"bytes", size)

	if opts.digest {
		fmt.Fprintf(stderr, "blake3 %s  %s\n", sum, outputName(opts.outputFile))
	}

	if cfg.MetadataDir != "" {
		m := tracker.GenerateMetadata(version, metadata.ConversionParams{
			Input:       inputName(input),
			Format:      format.String(),
			Output:      outputName(opts.outputFile),
			Compression: compression.String(),
			Indent:      writerOpts.Indent,
			TopLevel:    writerOpts.TopLevel.String(),
			NonFinite:   writerOpts.NonFinite.String(),
		})
		path, err := metadata.SaveMetadata(m, cfg.MetadataDir)
		if err != nil {
			return err
		}
		logger.Debug("metadata saved", "path", path)
	}

	if !toStdout {
		fmt.Fprintf(stderr, "Successfully converted %d document(s) to %s in %s\n",
			stats.Documents, opts.outputFile, time.Since(startTime).Round(time.Millisecond))
	}

	return nil
}

// openInput opens the input file, or stdin, and decompresses it when its
// name carries a compression extension.
func openInput(cmd *cobra.Command, input string) (io.ReadCloser, error) {
	if input == stdio {
		return io.NopCloser(cmd.InOrStdin()), nil
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	compression := sink.CompressionFromPath(input)
	if compression == sink.CompressionNone {
		return f, nil
	}

	r, err := sink.NewReader(f, compression)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to open %s input: %w", compression, err)
	}
	return &inputFile{ReadCloser: r, file: f}, nil
}

// inputFile closes both the decompressor and the file under it.
type inputFile struct {
	io.ReadCloser
	file *os.File
}

func (f *inputFile) Close() error {
	err := f.ReadCloser.Close()
	if cerr := f.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// useColor decides whether to paint the output. auto only colours
// uncompressed output written to a terminal.
func useColor(mode string, stdout io.Writer, toStdout bool, compression sink.Compression) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if !toStdout || compression != sink.CompressionNone {
		return false
	}
	f, ok := stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func inputName(input string) string {
	if input == stdio {
		return "stdin"
	}
	return input
}

func outputName(path string) string {
	if path == "" || path == stdio {
		return "stdout"
	}
	return path
}
