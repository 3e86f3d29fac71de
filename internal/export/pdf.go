package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/store"
)

const (
	fontFamily = "Arial"
	marginMM   = 15.0
)

var orderColumns = []struct {
	label string
	width float64
	align string
}{
	{"Product", 70, "L"},
	{"SKU", 35, "L"},
	{"Qty", 15, "R"},
	{"Unit", 30, "R"},
	{"Total", 30, "R"},
}

// WriteOrderSummary renders order as a one-page A4 PDF.
func WriteOrderSummary(w io.Writer, order store.Order) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, 20, marginMM)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle("Order "+order.ID, true)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, "Order Summary", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "", 10)
	details := [][2]string{
		{"Order", order.ID},
		{"Customer", order.CustomerName},
		{"Manufacturer", order.Manufacturer},
		{"Status", order.Status},
		{"Created", order.CreatedAt.UTC().Format(time.RFC1123)},
	}
	for _, detail := range details {
		pdf.SetFont(fontFamily, "B", 10)
		pdf.CellFormat(35, 6, detail[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 10)
		pdf.CellFormat(0, 6, detail[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range orderColumns {
		pdf.CellFormat(col.width, 8, col.label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, item := range order.Items {
		fill := i%2 == 1
		pdf.SetFillColor(242, 242, 242)
		cells := []string{
			item.Name,
			item.SKU,
			fmt.Sprint(item.Quantity),
			Money(item.UnitPriceCents),
			Money(item.TotalCents()),
		}
		for j, col := range orderColumns {
			pdf.CellFormat(col.width, 7, cells[j], "1", 0, col.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var labelWidth float64
	for _, col := range orderColumns[:len(orderColumns)-1] {
		labelWidth += col.width
	}
	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(labelWidth, 8, "Order total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(orderColumns[len(orderColumns)-1].width, 8, Money(order.TotalCents()), "1", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}

// Money formats cents as dollars.
func Money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
