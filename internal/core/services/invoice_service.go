package services

import (
	"bytes"
	"context"
	"fmt"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/core/domain"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// InvoiceService renders payment bills as PDF documents
type InvoiceService struct {
	payments *PaymentService
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(payments *PaymentService) *InvoiceService {
	return &InvoiceService{payments: payments}
}

// PaymentReference is the printed and QR-encoded identifier of a payment
func PaymentReference(id uint) string {
	return fmt.Sprintf("PAY-%06d", id)
}

// Invoice returns the PDF bill of a payment visible to the caller
func (s *InvoiceService) Invoice(ctx context.Context, userID uint, role domain.Role, paymentID uint) ([]byte, string, error) {
	payment, err := s.payments.GetPayment(ctx, userID, role, paymentID)
	if err != nil {
		return nil, "", err
	}

	pdf, err := RenderInvoice(payment)
	if err != nil {
		return nil, "", err
	}
	return pdf, PaymentReference(payment.ID) + ".pdf", nil
}

// RenderInvoice draws one A4 page with the amounts and a QR code of the reference
func RenderInvoice(p *models.Payment) ([]byte, error) {
	ref := PaymentReference(p.ID)

	qrPng, err := qrcode.Encode(ref, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, "Crop Service Invoice", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Reference: "+ref, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+p.CreatedAt.Format("2006-01-02"), "", 1, "L", false, 0, "")

	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr", imgOptions, bytes.NewReader(qrPng))
	pdf.ImageOptions("qr", 160, 15, 30, 30, false, imgOptions, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Billed to", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if p.Farmer != nil {
		pdf.CellFormat(0, 6, p.Farmer.Name, "", 1, "L", false, 0, "")
		if p.Farmer.FarmerCode != nil {
			pdf.CellFormat(0, 6, "Farmer ID: "+*p.Farmer.FarmerCode, "", 1, "L", false, 0, "")
		}
		if p.Farmer.Phone != "" {
			pdf.CellFormat(0, 6, "Phone: "+p.Farmer.Phone, "", 1, "L", false, 0, "")
		}
	}
	if p.Crop != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Crop: %s (%.2f acres)", p.Crop.Name, p.Crop.Acres), "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	rows := [][2]string{
		{"Estimated cost", money(p.EstimatedCost)},
		{fmt.Sprintf("Service fee (%.0f%%)", domain.ServiceFeeRate*100), money(p.ServiceFee)},
		{fmt.Sprintf("Profit share (%.0f%% of final price)", domain.ProfitShareRate*100), money(p.ProfitShare)},
	}
	if p.FinalPrice != nil {
		rows = append([][2]string{{"Final price", money(*p.FinalPrice)}}, rows...)
	}

	pdf.SetFillColor(235, 242, 235)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.CellFormat(120, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, row[1], "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 9, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 9, money(p.Total), "1", 1, "R", true, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
