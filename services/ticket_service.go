package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"campsite-backend/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// TicketService renders booking confirmations as PDF with a signed QR code.
type TicketService struct {
	Bookings *BookingService
	secret   []byte
}

func NewTicketService(bookings *BookingService, secret string) *TicketService {
	return &TicketService{Bookings: bookings, secret: []byte(secret)}
}

func (s *TicketService) sign(data string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Payload returns booking_code|campsite_id|signature.
func (s *TicketService) Payload(bk *models.Booking) string {
	data := fmt.Sprintf("%s|%d", bk.BookingCode, bk.CampsiteID)
	return data + "|" + s.sign(data)
}

// Verify checks a scanned payload and returns the booking code it carries.
func (s *TicketService) Verify(payload string) (string, bool) {
	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return "", false
	}
	if _, err := strconv.ParseUint(parts[1], 10, 64); err != nil {
		return "", false
	}
	want := s.sign(parts[0] + "|" + parts[1])
	if !hmac.Equal([]byte(want), []byte(parts[2])) {
		return "", false
	}
	return parts[0], true
}

// Ticket loads the booking for actor and renders it. The returned name is
// suitable for Content-Disposition.
func (s *TicketService) Ticket(ctx context.Context, actor models.Principal, bookingID uint) ([]byte, string, error) {
	bk, err := s.Bookings.GetBookingFor(ctx, actor, bookingID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.Render(bk)
	if err != nil {
		return nil, "", err
	}
	return pdf, "ticket-" + bk.BookingCode + ".pdf", nil
}

func (s *TicketService) Render(bk *models.Booking) ([]byte, error) {
	qrPNG, err := qrcode.Encode(s.Payload(bk), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking "+bk.BookingCode, true)
	pdf.AddPage()
	// Core fonts are cp1252; user-supplied text must be re-encoded.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Campsite Booking Confirmation")
	pdf.Ln(14)

	lines := [][2]string{
		{"Booking code", bk.BookingCode},
		{"Guest", guestName(bk)},
		{"Campsite", bk.Campsite.Name},
		{"Location", bk.Campsite.LocationName},
		{"Check-in", time.Time(bk.CheckInDate).Format(DateLayout)},
		{"Check-out", time.Time(bk.CheckOutDate).Format(DateLayout)},
		{"Nights", strconv.Itoa(bk.TotalNights)},
		{"People / tents", fmt.Sprintf("%d / %d", bk.NumPeople, bk.NumTents)},
		{"Price per night", bk.PricePerNight.StringFixed(2)},
		{"Subtotal", bk.Subtotal.StringFixed(2)},
		{"Tax (10%)", bk.TaxAmount.StringFixed(2)},
		{"Total", bk.TotalPrice.StringFixed(2)},
		{"Status", string(bk.Status)},
	}
	for _, l := range lines {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(45, 8, l[0]+":")
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, tr(l[1]))
		pdf.Ln(8)
	}

	if bk.SpecialRequests != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 11)
		pdf.MultiCell(120, 6, tr("Requests: "+bk.SpecialRequests), "", "L", false)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 45, 45, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket: %w", err)
	}
	return buf.Bytes(), nil
}

func guestName(bk *models.Booking) string {
	if bk.User.FullName != "" {
		return bk.User.FullName
	}
	return bk.User.Email
}
