package booking

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"playpal/apperr"
	"playpal/utils"
)

// ReceiptHandler renders a PDF receipt for a persisted booking. The QR
// payload is HMAC-signed so a receipt can be verified offline.
type ReceiptHandler struct {
	svc    *Service
	secret []byte
}

func NewReceiptHandler(svc *Service, secret []byte) *ReceiptHandler {
	return &ReceiptHandler{svc: svc, secret: secret}
}

func (h *ReceiptHandler) qrPayload(bookingID, playerID, trainerID string) string {
	data := fmt.Sprintf("%s|%s|%s", bookingID, playerID, trainerID)
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

func (h *ReceiptHandler) PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	bookingID := ps.ByName("id")
	if bookingID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing id")
		return
	}

	b, err := h.svc.store.FindBookingByID(r.Context(), bookingID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	// Only the two parties may print the receipt.
	if userID != b.PlayerID && userID != b.TrainerID {
		utils.RespondWithAppError(w, apperr.NotFound("booking"))
		return
	}

	qrPNG, err := qrcode.Encode(h.qrPayload(b.BookingID, b.PlayerID, b.TrainerID), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Booking ID: %s", b.BookingID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Player: %s", b.PlayerID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Trainer: %s", b.TrainerID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Amount: %s", b.Amount))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", b.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("receipt-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("receipt-qr", 10, 90, 60, 60, false, opts, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, b.BookingID[:8]))
	if err := pdf.Output(w); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to render PDF")
	}
}
