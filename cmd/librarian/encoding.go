package main

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	encUTF8 = "utf8"
	encSJIS = "sjis"
)

// decodeReader wraps r so it yields UTF-8. utf8 は先頭の BOM を落とす。
func decodeReader(r io.Reader, enc string) (io.Reader, error) {
	switch strings.ToLower(enc) {
	case "", encUTF8, "utf-8":
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	case encSJIS, "shift_jis", "cp932":
		return transform.NewReader(r, japanese.ShiftJIS.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unknown encoding %q (utf8|sjis)", enc)
	}
}

// encodeWriter wraps w so UTF-8 input is written in enc. Excel 向けは sjis（CP932 相当）。
// Close で変換途中のバイトを書き出す（w 自体は閉じない）。
func encodeWriter(w io.Writer, enc string) (io.WriteCloser, error) {
	switch strings.ToLower(enc) {
	case "", encUTF8, "utf-8":
		return nopCloser{w}, nil
	case encSJIS, "shift_jis", "cp932":
		return transform.NewWriter(w, japanese.ShiftJIS.NewEncoder()), nil
	default:
		return nil, fmt.Errorf("unknown encoding %q (utf8|sjis)", enc)
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
