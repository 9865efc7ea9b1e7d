package catalogue

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/ceramics-catalogue/pkg/dict"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ErrNoHeader is returned for a dataset without a header row.
var ErrNoHeader = errors.New("dataset has no header row")

// Format describes how a dataset file is laid out.
type Format struct {
	Delimiter string `yaml:"delimiter" json:"delimiter,omitempty"`
	Encoding  string `yaml:"encoding" json:"encoding,omitempty"`
	Sheet     string `yaml:"sheet" json:"sheet,omitempty"` // xlsx only; default first sheet
}

var utf8BOM = []byte("\xef\xbb\xbf")

// ReadCSV parses a delimited dataset. The first record is the header.
func ReadCSV(r io.Reader, f Format) (*Table, error) {
	if enc := f.Encoding; enc != "" && !dict.IsUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		r = transform.NewReader(r, e.NewDecoder())
	}

	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	if f.Delimiter != "" {
		cr.Comma = []rune(f.Delimiter)[0]
	}
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	raw, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{Header: NewHeader(raw)}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		t.Rows = append(t.Rows, NewRow(t.Header, line, record))
	}
	return t, nil
}

// ReadXLSX parses the named sheet (or the first one) of a workbook. The
// first row is the header.
func ReadXLSX(r io.Reader, f Format) (*Table, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheet := f.Sheet
	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoHeader
		}
		sheet = sheets[0]
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	t := &Table{Header: NewHeader(rows[0])}
	for i, record := range rows[1:] {
		if isBlank(record) {
			continue
		}
		t.Rows = append(t.Rows, NewRow(t.Header, i+2, record))
	}
	return t, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Load reads a dataset from a local path or an http(s) URL. Workbooks are
// recognised by their .xlsx extension. A failed fetch is returned as is: the
// caller reports it and publishes nothing.
func Load(ctx context.Context, src string, f Format) (*Table, error) {
	rc, err := open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var t *Table
	if strings.EqualFold(filepath.Ext(strings.SplitN(src, "?", 2)[0]), ".xlsx") {
		t, err = ReadXLSX(rc, f)
	} else {
		t, err = ReadCSV(rc, f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src, err)
	}
	return t, nil
}

var httpClient = &http.Client{Timeout: 2 * time.Minute}

func open(ctx context.Context, src string) (io.ReadCloser, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch dataset: HTTP %d for %s", resp.StatusCode, src)
	}
	return resp.Body, nil
}
