package extraction

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

var headerPatterns = map[string]*regexp.Regexp{
	"invoice_number":  regexp.MustCompile(`Invoice Number[:]?\s*(\w+)`),
	"invoice_date":    regexp.MustCompile(`Invoice Date[:]?\s*([A-Za-z]+\s+\d{1,2},\s+\d{4})`),
	"vendor_name":     regexp.MustCompile(`Vendor \(Bill from\)\s+([A-Za-z\s.]+?)\s*(?:\n|$)`),
	"sub_total":       regexp.MustCompile(`SUBTOTAL[:]?\s*([\d,.]+)`),
	"discount":        regexp.MustCompile(`DISCOUNT[:]?\s*([\d,.]+)`),
	"grand_total":     regexp.MustCompile(`GRAND TOTAL[:]?\s*([\d,.]+)`),
	"ewaybill_number": regexp.MustCompile(`E-Waybill Number[:]?\s*([A-Z0-9-]+)`),
}

// ExtractFile pulls header fields and line items out of an invoice PDF on
// disk. The plain-text reader flattens a page into one unbroken string,
// which loses the row structure the item patterns depend on, so rows are
// reassembled from the positioned text fragments of each page instead.
func ExtractFile(path string) (Result, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	var lines []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		lines = append(lines, contentLines(page.Content())...)
	}
	return ParseText(strings.Join(lines, "\n")), nil
}

// rowTolerance is the baseline distance, in points, within which two
// fragments count as the same row.
const rowTolerance = 2.0

// contentLines rebuilds text rows from a page's positioned fragments:
// fragments sharing a baseline form one row, rows run top to bottom, and
// a horizontal gap between fragments becomes a space.
func contentLines(content pdf.Content) []string {
	texts := make([]pdf.Text, len(content.Text))
	copy(texts, content.Text)
	sort.SliceStable(texts, func(i, j int) bool {
		if math.Abs(texts[i].Y-texts[j].Y) > rowTolerance {
			return texts[i].Y > texts[j].Y
		}
		return texts[i].X < texts[j].X
	})

	var lines []string
	var line strings.Builder
	var lastY, lastEnd float64
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if line.Len() > 0 {
			if math.Abs(t.Y-lastY) > rowTolerance {
				lines = append(lines, line.String())
				line.Reset()
			} else if t.X-lastEnd > 1 {
				line.WriteByte(' ')
			}
		}
		line.WriteString(t.S)
		lastY = t.Y
		lastEnd = t.X + t.W
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// ParseText applies the invoice field patterns to extracted PDF text.
// Header fields that do not match are carried as nil; the client-side
// normalizer turns those into empty strings.
func ParseText(text string) Result {
	invoiceData := make(map[string]any, len(headerPatterns))
	for field, pattern := range headerPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			invoiceData[field] = nil
			continue
		}
		invoiceData[field] = strings.ReplaceAll(strings.TrimSpace(match[1]), "\n", "")
	}

	items := make([]map[string]any, 0)
	for _, line := range strings.Split(text, "\n") {
		if item, ok := parseItemLine(line); ok {
			items = append(items, item)
		}
	}

	return Result{InvoiceData: invoiceData, Items: items}
}

// parseItemLine recognizes a tabular item row: a description of one or
// more words, an HSN/SAC code, an expiry, then the seven numeric columns
// quantity, deal, total_quantity, mrp, tax, discount_percent, amount.
func parseItemLine(line string) (map[string]any, bool) {
	tokens := strings.Fields(line)
	if len(tokens) < 10 {
		return nil, false
	}

	numeric := make([]float64, 7)
	for i := 0; i < 7; i++ {
		value, err := strconv.ParseFloat(tokens[len(tokens)-7+i], 64)
		if err != nil {
			return nil, false
		}
		numeric[i] = value
	}

	expiry := tokens[len(tokens)-8]
	hsnSAC := tokens[len(tokens)-9]
	description := strings.Join(tokens[:len(tokens)-9], " ")

	return map[string]any{
		"description":      description,
		"hsn_sac":          hsnSAC,
		"expiry":           expiry,
		"quantity":         numeric[0],
		"deal":             numeric[1],
		"total_quantity":   numeric[2],
		"mrp":              numeric[3],
		"tax":              numeric[4],
		"discount_percent": numeric[5],
		"amount":           numeric[6],
	}, true
}
