// Command seki builds and queries N-gram full-text indexes from the command
// line.
//
// The index lives in a single snapshot file. "seki index" ingests text files
// as documents and writes the snapshot; "seki search" loads it and runs a
// phrase query.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/seki"
	"github.com/arloliu/seki/format"
	"github.com/arloliu/seki/store/memory"
)

var (
	flagIndexPath string
	flagCodec     string
	flagGram      int
	flagCompress  string
	flagVerbose   bool
)

func main() {
	root := &cobra.Command{
		Use:           "seki",
		Short:         "N-gram full-text search indexer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flagIndexPath, "index", "i", "seki.idx", "index snapshot file")
	root.PersistentFlags().StringVarP(&flagCodec, "codec", "c", "golomb", "posting codec: none or golomb")
	root.PersistentFlags().IntVarP(&flagGram, "gram", "n", seki.DefaultGramSize, "N-gram size")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	indexCmd := &cobra.Command{
		Use:   "index <file>...",
		Short: "Index text files as documents",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runIndex,
	}
	indexCmd.Flags().StringVar(&flagCompress, "blob-compress", "none", "at-rest blob compression: none, zstd, s2 or lz4")

	searchCmd := &cobra.Command{
		Use:   "search <phrase>",
		Short: "Run a phrase query against the index",
		Args:  cobra.ExactArgs(1),
		RunE:  runSearch,
	}

	root.AddCommand(indexCmd, searchCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seki:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseCodec(name string) (format.PostingCodec, error) {
	switch strings.ToLower(name) {
	case "none":
		return format.CodecNone, nil
	case "golomb":
		return format.CodecGolomb, nil
	default:
		return 0, fmt.Errorf("unknown posting codec %q", name)
	}
}

func parseCompression(name string) (format.BlobCompression, error) {
	switch strings.ToLower(name) {
	case "none":
		return format.CompressionNone, nil
	case "zstd":
		return format.CompressionZstd, nil
	case "s2":
		return format.CompressionS2, nil
	case "lz4":
		return format.CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown blob compression %q", name)
	}
}

func runIndex(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	codec, err := parseCodec(flagCodec)
	if err != nil {
		return err
	}
	compression, err := parseCompression(flagCompress)
	if err != nil {
		return err
	}

	st, err := memory.New(compression)
	if err != nil {
		return err
	}
	if f, err := os.Open(flagIndexPath); err == nil {
		err = st.LoadSnapshot(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("load index %s: %w", flagIndexPath, err)
		}
		logger.Debug("loaded existing index", "path", flagIndexPath)
	}

	engine, err := seki.New(st,
		seki.WithCodec(codec),
		seki.WithGramSize(flagGram),
		seki.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	for _, path := range args {
		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		docID, err := engine.AddDocument(filepath.Base(path), string(body))
		if err != nil {
			return err
		}
		logger.Info("indexed document", "document_id", docID, "path", path)
	}
	if err := engine.Flush(); err != nil {
		return err
	}

	f, err := os.Create(flagIndexPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := st.SaveSnapshot(f); err != nil {
		return fmt.Errorf("save index %s: %w", flagIndexPath, err)
	}

	count, _ := st.DocumentCount()
	logger.Info("index written", "path", flagIndexPath, "documents", count, "tokens", st.TokenCount())

	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	codec, err := parseCodec(flagCodec)
	if err != nil {
		return err
	}

	st, err := memory.New(format.CompressionNone)
	if err != nil {
		return err
	}
	f, err := os.Open(flagIndexPath)
	if err != nil {
		return fmt.Errorf("open index %s: %w", flagIndexPath, err)
	}
	err = st.LoadSnapshot(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("load index %s: %w", flagIndexPath, err)
	}

	engine, err := seki.New(st,
		seki.WithCodec(codec),
		seki.WithGramSize(flagGram),
		seki.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	matches, err := engine.Search(args[0])
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("no matches")
		return nil
	}

	for _, m := range matches {
		fmt.Printf("doc %d\t%s\t(%d hits)\n", m.DocumentID, m.Title, m.Count)
	}

	return nil
}
