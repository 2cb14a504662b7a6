package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"library-api/internal/library/books"
)

func newImportBooksCmd(a *app) *cobra.Command {
	var (
		encoding string
		format   string
	)
	cmd := &cobra.Command{
		Use:   "import-books FILE.csv",
		Short: "Register books from a CSV with a title,author,isbn header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			r, err := decodeReader(f, encoding)
			if err != nil {
				return err
			}
			rows, err := readBookRows(r)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			conn, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			res := books.NewService(conn).Import(cmd.Context(), rows)

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			for _, rr := range res.Results {
				if rr.Ok {
					fmt.Fprintf(out, "row %d OK   isbn=%s id=%d\n", rr.Row, rr.Isbn, *rr.BookID)
				} else {
					fmt.Fprintf(out, "row %d NG   isbn=%s: %s\n", rr.Row, rr.Isbn, *rr.Error)
				}
			}
			fmt.Fprintf(out, "total=%d ok=%d ng=%d\n", res.Total, res.OkCount, res.NgCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", encUTF8, "input encoding: utf8|sjis")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text|json")
	return cmd
}

var bookColumns = []string{"title", "author", "isbn"}

// readBookRows reads a CSV whose header names the title, author and isbn columns in any order.
// 余分な列は無視する。
func readBookRows(r io.Reader) ([]books.ImportRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range bookColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("header must contain %s", strings.Join(bookColumns, ","))
		}
	}

	cell := func(rec []string, col string) string {
		i := idx[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []books.ImportRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		rows = append(rows, books.ImportRow{
			Title:  cell(rec, "title"),
			Author: cell(rec, "author"),
			Isbn:   cell(rec, "isbn"),
		})
	}
	return rows, nil
}
