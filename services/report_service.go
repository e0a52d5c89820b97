package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"campsite-backend/models"

	"github.com/xuri/excelize/v2"
)

const bookingSheet = "Bookings"

var bookingExportHeader = []interface{}{
	"Booking Code", "Guest Email", "Campsite", "Check-in", "Check-out",
	"Nights", "People", "Tents", "Price/Night", "Subtotal", "Tax", "Total",
	"Status", "Created At",
}

// ReportService produces admin exports.
type ReportService struct {
	Bookings *BookingService
}

func NewReportService(bookings *BookingService) *ReportService {
	return &ReportService{Bookings: bookings}
}

// ExportBookings writes every booking to a single-sheet workbook.
func (s *ReportService) ExportBookings(ctx context.Context, actor models.Principal) ([]byte, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	list, err := s.Bookings.ListAllBookings(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bookingSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(bookingSheet, "A1", &bookingExportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, bk := range list {
		price, _ := bk.PricePerNight.Float64()
		subtotal, _ := bk.Subtotal.Float64()
		tax, _ := bk.TaxAmount.Float64()
		total, _ := bk.TotalPrice.Float64()

		row := []interface{}{
			bk.BookingCode,
			bk.User.Email,
			bk.Campsite.Name,
			time.Time(bk.CheckInDate).Format(DateLayout),
			time.Time(bk.CheckOutDate).Format(DateLayout),
			bk.TotalNights,
			bk.NumPeople,
			bk.NumTents,
			price,
			subtotal,
			tax,
			total,
			string(bk.Status),
			bk.CreatedAt.Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(bookingSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
