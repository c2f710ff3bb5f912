// Package importer loads plain menu items from a spreadsheet export.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"delicias-urbanas/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product, position int) error
}

// CSVImporter reads rows with the columns id, name, description, price,
// category and image. Bundles need flavor groups and are managed through
// the YAML menu instead.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	position    int
}

// NewCSVImporter places imported products starting at firstPosition.
func NewCSVImporter(r io.Reader, repo ProductWriter, firstPosition int) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		position:    firstPosition,
	}
}

// Run upserts every row in file order and returns how many were stored.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range []string{"id", "name", "price", "category"} {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			line, _ := i.reader.FieldPos(0)
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if err := i.productRepo.Upsert(ctx, p, i.position); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.ID, err)
		}
		i.position++
		imported++
	}
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		ID:          pick(record, index, "id"),
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		Image:       pick(record, index, "image"),
	}
	if p.ID == "" || p.Name == "" {
		return domain.Product{}, errors.New("id and name are required")
	}

	// Prices may come formatted as "$15.000".
	raw := strings.NewReplacer("$", "", ".", "", " ", "").Replace(pick(record, index, "price"))
	price, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || price <= 0 {
		return domain.Product{}, fmt.Errorf("invalid price for %q", p.ID)
	}
	p.Price = price

	cat, ok := domain.ParseCategory(pick(record, index, "category"))
	if !ok {
		return domain.Product{}, fmt.Errorf("unknown category for %q", p.ID)
	}
	p.Category = cat
	return p, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
