package fare

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// BillDocument carries everything needed to render an itemized bill.
type BillDocument struct {
	PNR         string
	TrainNumber int
	TrainName   string
	ClassCode   string
	SourceCode  string
	DestCode    string
	DepartureAt time.Time
	Passengers  []string
	Breakdown   BillBreakdown
}

// RenderBillPDF renders the itemized bill as a single-page PDF with a QR
// code of the PNR for gate scanning.
func RenderBillPDF(doc BillDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Itemized Bill %s", doc.PNR), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Itemized Fare Bill", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("PNR: %s", doc.PNR), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Train: %d %s (%s)", doc.TrainNumber, doc.TrainName, doc.ClassCode), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Route: %s -> %s", doc.SourceCode, doc.DestCode), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Departure: %s", doc.DepartureAt.Format("02 Jan 2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Passengers: %d", doc.Breakdown.Passengers), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Line item table
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range doc.Breakdown.Items {
		pdf.CellFormat(120, 8, item.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", item.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.CellFormat(120, 8, "Tax", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", doc.Breakdown.Tax), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", doc.Breakdown.Total), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	// PNR QR code for gate scanning
	qrPNG, err := qrcode.Encode(doc.PNR, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNR QR code: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("pnr-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("pnr-qr", 160, 20, 30, 30, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render bill PDF: %w", err)
	}
	return buf.Bytes(), nil
}
