package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"bookreview/internal/ingest"
	"bookreview/internal/logging"
	"bookreview/internal/platform/openlibrary"

	"github.com/spf13/cobra"
)

func importCommand() *cobra.Command {
	var (
		file      string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "import [ISBN...]",
		Short: "create books and authors from Open Library by ISBN",
		RunE: func(cmd *cobra.Command, args []string) error {
			isbns := args
			if file != "" {
				fromFile, err := readISBNFile(file)
				if err != nil {
					return err
				}
				isbns = append(isbns, fromFile...)
			}
			if len(ingest.NormalizeISBNs(isbns)) == 0 {
				return errors.New("no ISBNs given")
			}

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			client := openlibrary.NewClient(openlibrary.Config{
				UserAgent: e.cfg.OpenLibraryUserAgent,
				RPS:       e.cfg.OpenLibraryRPS,
			})
			importer := ingest.NewService(client, ingest.NewPostgresRepo(e.pool, e.cfg.DBTimeout), ingest.Config{BatchSize: batchSize})

			res, err := importer.Import(cmd.Context(), isbns)
			logImportResult(res)
			return err
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "read ISBNs from a file, one per line")
	cmd.Flags().IntVar(&batchSize, "batch", 20, "ISBNs per Open Library request")
	return cmd
}

func readISBNFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open isbn file: %w", err)
	}
	defer f.Close()
	return parseISBNList(f)
}

// parseISBNList reads one ISBN per line. Blank lines and lines starting
// with # are ignored.
func parseISBNList(r io.Reader) ([]string, error) {
	var isbns []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		isbns = append(isbns, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read isbn list: %w", err)
	}
	return isbns, nil
}

func logImportResult(res ingest.Result) {
	logging.Info().
		Int("authors_created", res.AuthorsCreated).
		Int("books_created", res.BooksCreated).
		Strs("skipped", res.Skipped).
		Strs("not_found", res.NotFound).
		Strs("failed", res.Failed).
		Msg("import finished")
}
