package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// table wraps one CSV object. The entire object is read or rewritten on
// every operation; there are no partial writes.
type table struct {
	bucket *storage.BucketHandle
	object string
}

// read returns the header row and all data rows. A missing object yields an
// empty table with a nil header so callers can decide how to treat it.
func (t *table) read(ctx context.Context) (header []string, rows [][]string, err error) {
	r, err := t.bucket.Object(t.object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil, nil
		}
		return nil, nil, goerr.Wrap(err, "failed to open table object", goerr.V("object", t.object))
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil && err == nil {
			err = goerr.Wrap(closeErr, "failed to close table reader", goerr.V("object", t.object))
		}
	}()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	for {
		record, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, nil, goerr.Wrap(readErr, "failed to parse table CSV", goerr.V("object", t.object))
		}
		if header == nil {
			header = record
			continue
		}
		rows = append(rows, record)
	}
	return header, rows, nil
}

// write replaces the whole object with header + rows
func (t *table) write(ctx context.Context, header []string, rows [][]string) error {
	w := t.bucket.Object(t.object).NewWriter(ctx)
	w.ContentType = "text/csv"

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write table header", goerr.V("object", t.object))
	}
	if err := cw.WriteAll(rows); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write table rows", goerr.V("object", t.object))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to flush table CSV", goerr.V("object", t.object))
	}

	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to commit table object", goerr.V("object", t.object))
	}
	return nil
}

// columnIndex maps header names to their positions
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

// cell returns the value of the named column in a row, or "" when the row is
// short or the column is absent
func cell(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
