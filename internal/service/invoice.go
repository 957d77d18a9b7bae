package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"

	"github.com/dmarkhas/storefront/internal/logging"
	"github.com/dmarkhas/storefront/internal/models"
	"github.com/dmarkhas/storefront/internal/repo"
	"github.com/dmarkhas/storefront/internal/util"
)

// InvoiceService reconstructs a PDF invoice from a stored order
// snapshot and streams it to the response and to disk in one pass.
type InvoiceService struct {
	Repo *repo.GormRepo
	Dir  string
}

func InvoiceName(orderID uint) string {
	return fmt.Sprintf("invoice-%d.pdf", orderID)
}

// Generate writes the invoice for orderID to sink and to
// Dir/invoice-<orderID>.pdf. The file sink is best-effort: its errors
// are logged and swallowed so sink always receives the full document.
func (s *InvoiceService) Generate(ctx context.Context, orderID, requesterID uint, sink io.Writer) (string, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return "", fmt.Errorf("load order: %w", err)
	}
	if order.UserID != requesterID {
		return "", fmt.Errorf("%w: order %d", ErrForbidden, orderID)
	}

	name := InvoiceName(orderID)
	out := sink

	l := logging.FromContext(ctx)
	var file *os.File
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		l.Warn("invoice_dir_failed", "dir", s.Dir, "error", err)
	} else if file, err = os.Create(filepath.Join(s.Dir, name)); err != nil {
		l.Warn("invoice_file_failed", "name", name, "error", err)
	}

	var fileSink *bestEffortWriter
	if file != nil {
		fileSink = &bestEffortWriter{w: file}
		out = io.MultiWriter(fileSink, sink)
	}

	err = buildInvoicePDF(order).Output(out)

	if file != nil {
		if cerr := file.Close(); cerr != nil && fileSink.err == nil {
			fileSink.err = cerr
		}
		if fileSink.err != nil {
			l.Warn("invoice_file_write_failed", "name", name, "error", fileSink.err)
		}
	}
	if err != nil {
		return "", fmt.Errorf("write invoice: %w", err)
	}
	return name, nil
}

func buildInvoicePDF(order *models.Order) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "U", 26)
	pdf.Cell(0, 12, "Invoice")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 14)
	pdf.Cell(0, 8, "---------------------")
	pdf.Ln(8)

	var total float64
	for _, it := range order.Items {
		total += float64(it.Quantity) * it.Price
		pdf.Cell(0, 8, fmt.Sprintf("%s - %d x $%s", it.Title, it.Quantity, util.FormatMoney(it.Price)))
		pdf.Ln(8)
	}

	pdf.Cell(0, 8, "---------------------")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 20)
	pdf.Cell(0, 10, "Total price: $"+util.FormatMoney(total))
	return pdf
}

// bestEffortWriter keeps accepting writes after the first failure so a
// broken file sink cannot abort the multi-writer fan-out.
type bestEffortWriter struct {
	w   io.Writer
	err error
}

func (b *bestEffortWriter) Write(p []byte) (int, error) {
	if b.err == nil {
		if _, err := b.w.Write(p); err != nil {
			b.err = err
		}
	}
	return len(p), nil
}
