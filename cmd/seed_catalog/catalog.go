package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Columnas esperadas (separador ';'):
// nombre;unidad;precio_venta;precio_costo;iva;stock_central
const catalogColumns = 6

type catalogProduct struct {
	Name       string
	Unit       string
	SellPrice  decimal.Decimal
	CostPrice  decimal.Decimal
	TaxRate    decimal.Decimal
	TotalStock int64
}

// catalogReader decodifica ISO-8859-1 cuando el archivo no es UTF-8 válido
// (exportaciones de Excel en Windows).
func catalogReader(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

func parseCatalog(raw []byte) ([]catalogProduct, error) {
	r := csv.NewReader(catalogReader(raw))
	r.Comma = ';'
	r.FieldsPerRecord = catalogColumns
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catálogo vacío")
	}

	var out []catalogProduct
	for i, rec := range records[1:] { // primera fila = encabezado
		lineNo := i + 2
		p, err := parseProductRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", lineNo, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseProductRecord(rec []string) (catalogProduct, error) {
	name := norm.NFC.String(strings.TrimSpace(rec[0]))
	if name == "" {
		return catalogProduct{}, fmt.Errorf("nombre vacío")
	}
	unit := strings.TrimSpace(rec[1])
	if unit == "" {
		unit = "unidad"
	}
	sell, err := parseAmount(rec[2])
	if err != nil {
		return catalogProduct{}, fmt.Errorf("precio_venta: %w", err)
	}
	cost, err := parseAmount(rec[3])
	if err != nil {
		return catalogProduct{}, fmt.Errorf("precio_costo: %w", err)
	}
	tax, err := parseAmount(rec[4])
	if err != nil {
		return catalogProduct{}, fmt.Errorf("iva: %w", err)
	}
	stock, err := strconv.ParseInt(strings.TrimSpace(rec[5]), 10, 64)
	if err != nil || stock < 0 {
		return catalogProduct{}, fmt.Errorf("stock_central inválido %q", rec[5])
	}
	return catalogProduct{
		Name:       name,
		Unit:       unit,
		SellPrice:  sell,
		CostPrice:  cost,
		TaxRate:    tax,
		TotalStock: stock,
	}, nil
}

// parseAmount acepta coma o punto decimal ("1.250,50" o "1250.50").
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("monto inválido %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("monto negativo %q", s)
	}
	return d, nil
}

func writeSeedSQL(w io.Writer, products []catalogProduct) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de productos\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")
	if len(products) == 0 {
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("INSERT INTO products (name, unit, sell_price, cost_price, tax_rate, total_stock) VALUES\n")
	for i, p := range products {
		fmt.Fprintf(&b, "  ('%s', '%s', %s, %s, %s, %d)",
			escapeSQL(p.Name), escapeSQL(p.Unit),
			p.SellPrice.String(), p.CostPrice.String(), p.TaxRate.String(), p.TotalStock)
		if i < len(products)-1 {
			b.WriteString(",\n")
		} else {
			b.WriteString(";\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
