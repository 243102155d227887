package renderer

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/hrrarya/order-pdf-export/internal/service/models/faults"
	"github.com/hrrarya/order-pdf-export/internal/service/models/order"
)

const (
	pageLeft   = 15.0
	pageWidth  = 180.0
	breakAt    = 265.0
	lineHeight = 5.0
)

var itemColumns = []struct {
	title string
	width float64
}{
	{"Product", 90},
	{"Qty", 20},
	{"Unit Price", 35},
	{"Total", 35},
}

// PDFRenderer serializes built documents onto A4 portrait pages.
type PDFRenderer struct {
	builder *Builder
}

func NewPDFRenderer(builder *Builder) *PDFRenderer {
	return &PDFRenderer{builder: builder}
}

// Render produces the binary document and its suggested filename.
// Engine panics are converted to render faults with the cause retained
// for logs only.
func (r *PDFRenderer) Render(snap *order.Snapshot) (out []byte, filename string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, filename = nil, ""
			err = faults.Wrap(faults.KindRender, "document engine panic", fmt.Errorf("%v", rec))
		}
	}()

	doc := r.builder.Build(snap)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetMargins(pageLeft, 15, pageLeft)
	pdf.SetAutoPageBreak(false, 15)
	pdf.AddPage()

	drawHeader(pdf, doc.Header)
	drawCustomer(pdf, doc.Customer)
	drawItems(pdf, doc.Items)
	drawTotals(pdf, doc.Totals)
	if doc.Payment != nil {
		drawPayment(pdf, *doc.Payment)
	}
	if doc.Notes != nil {
		drawNotes(pdf, *doc.Notes)
	}
	drawFooter(pdf, doc.Footer)

	if pdf.Err() {
		return nil, "", faults.Wrap(faults.KindRender, "document engine failed", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", faults.Wrap(faults.KindRender, "document output failed", err)
	}
	if buf.Len() == 0 {
		return nil, "", faults.New(faults.KindRender, "document assembly produced empty output")
	}

	return buf.Bytes(), Filename(snap.ID), nil
}

func drawHeader(pdf *fpdf.Fpdf, h HeaderSection) {
	pdf.SetTextColor(51, 51, 51)

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(pageWidth/2, 8, h.StoreName, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(pageWidth/2, 8, h.OrderRef, "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(pageWidth/2, 5, h.StoreDescription, "", 0, "L", false, 0, "")
	pdf.CellFormat(pageWidth/2, 5, "Date: "+h.Date, "", 1, "R", false, 0, "")
	pdf.CellFormat(pageWidth/2, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(pageWidth/2, 5, "Status: "+h.Status, "", 1, "R", false, 0, "")

	pdf.Ln(3)
	y := pdf.GetY()
	pdf.SetLineWidth(0.6)
	pdf.Line(pageLeft, y, pageLeft+pageWidth, y)
	pdf.SetLineWidth(0.2)
	pdf.Ln(6)
}

func drawCustomer(pdf *fpdf.Fpdf, c CustomerSection) {
	top := pdf.GetY()

	bottom := drawAddressBlock(pdf, c.Billing, pageLeft, top, 85)
	if c.Shipping != nil {
		if y := drawAddressBlock(pdf, *c.Shipping, pageLeft+95, top, 85); y > bottom {
			bottom = y
		}
	}

	pdf.SetY(bottom + 8)
}

func drawAddressBlock(pdf *fpdf.Fpdf, block AddressBlock, x, y, w float64) float64 {
	pdf.SetXY(x, y)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(w, 6, block.Title, "B", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	write := func(s string) {
		pdf.SetX(x)
		pdf.CellFormat(w, lineHeight, s, "", 2, "L", false, 0, "")
	}

	// The name line is always drawn; an order with neither name nor
	// email shows an empty line, never a placeholder.
	write(block.Name)
	for _, line := range block.Lines {
		write(line)
	}
	if block.Email != "" {
		write("Email: " + block.Email)
	}
	if block.Phone != "" {
		write("Phone: " + block.Phone)
	}

	return pdf.GetY()
}

func itemsHeaderRow(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(245, 245, 245)
	for i, col := range itemColumns {
		align := "L"
		ln := 0
		if i > 0 {
			align = "R"
		}
		if i == len(itemColumns)-1 {
			ln = 1
		}
		pdf.CellFormat(col.width, 7, col.title, "1", ln, align, true, 0, "")
	}
}

func drawItems(pdf *fpdf.Fpdf, items ItemsSection) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(pageWidth, 6, "Order Items", "B", 1, "L", false, 0, "")
	pdf.Ln(2)

	itemsHeaderRow(pdf)

	for _, row := range items.Rows {
		lines := 1
		if row.SKU != "" {
			lines++
		}
		lines += len(row.Meta)
		rowH := float64(lines)*(lineHeight-1) + 3

		y := pdf.GetY()
		if y+rowH > breakAt {
			pdf.AddPage()
			itemsHeaderRow(pdf)
			y = pdf.GetY()
		}

		x := pageLeft
		for _, col := range itemColumns {
			pdf.Rect(x, y, col.width, rowH, "D")
			x += col.width
		}

		pdf.SetXY(pageLeft+2, y+1.5)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(itemColumns[0].width-4, lineHeight-1, row.Name, "", 2, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		if row.SKU != "" {
			pdf.SetX(pageLeft + 2)
			pdf.CellFormat(itemColumns[0].width-4, lineHeight-1, row.SKU, "", 2, "L", false, 0, "")
		}
		for _, meta := range row.Meta {
			pdf.SetX(pageLeft + 2)
			pdf.CellFormat(itemColumns[0].width-4, lineHeight-1, meta, "", 2, "L", false, 0, "")
		}

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(pageLeft+itemColumns[0].width, y+1.5)
		pdf.CellFormat(itemColumns[1].width-2, lineHeight-1, row.Quantity, "", 0, "R", false, 0, "")
		pdf.SetX(pageLeft + itemColumns[0].width + itemColumns[1].width)
		pdf.CellFormat(itemColumns[2].width-2, lineHeight-1, row.UnitPrice, "", 0, "R", false, 0, "")
		pdf.SetX(pageLeft + itemColumns[0].width + itemColumns[1].width + itemColumns[2].width)
		pdf.CellFormat(itemColumns[3].width-2, lineHeight-1, row.LineTotal, "", 0, "R", false, 0, "")

		pdf.SetY(y + rowH)
	}

	pdf.Ln(8)
}

func drawTotals(pdf *fpdf.Fpdf, totals TotalsSection) {
	const labelW, valueW = 40.0, 35.0
	x := pageLeft + pageWidth - labelW - valueW

	for _, row := range totals.Rows {
		if pdf.GetY()+8 > breakAt {
			pdf.AddPage()
		}
		pdf.SetX(x)
		if row.Emphasis {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(labelW, 8, row.Label, "TB", 0, "R", false, 0, "")
			pdf.CellFormat(valueW, 8, row.Value, "TB", 1, "R", false, 0, "")
			continue
		}
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(labelW, 7, row.Label, "B", 0, "R", false, 0, "")
		pdf.CellFormat(valueW, 7, row.Value, "B", 1, "R", false, 0, "")
	}

	pdf.Ln(8)
}

func drawPayment(pdf *fpdf.Fpdf, p PaymentSection) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(pageWidth, 6, "Payment Information", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(pageWidth, lineHeight, "Payment Method: "+p.Method, "", 1, "L", false, 0, "")
	if p.TransactionID != "" {
		pdf.CellFormat(pageWidth, lineHeight, "Transaction ID: "+p.TransactionID, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func drawNotes(pdf *fpdf.Fpdf, n NotesSection) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(pageWidth, 6, "Order Notes", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(pageWidth, lineHeight, n.Note, "", "L", false)
	pdf.Ln(4)
}

func drawFooter(pdf *fpdf.Fpdf, f FooterSection) {
	if pdf.GetY()+15 > breakAt {
		pdf.AddPage()
	}
	pdf.Ln(6)
	y := pdf.GetY()
	pdf.SetDrawColor(221, 221, 221)
	pdf.Line(pageLeft, y, pageLeft+pageWidth, y)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(pageWidth, 4, f.GeneratedAt, "", 1, "C", false, 0, "")
	pdf.SetTextColor(51, 51, 51)
}
