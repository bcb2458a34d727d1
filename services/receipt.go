package services

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// ReceiptGenerator renders the QR code printed on a paid order's receipt
type ReceiptGenerator interface {
	Generate(orderID uint) ([]byte, error)
}

// QRReceiptGenerator encodes a receipt link as a 256px PNG
type QRReceiptGenerator struct {
	BaseURL string
}

// ReceiptURL returns the link embedded in the QR code
func (g QRReceiptGenerator) ReceiptURL(orderID uint) string {
	return fmt.Sprintf("%s/receipts/%d", g.BaseURL, orderID)
}

func (g QRReceiptGenerator) Generate(orderID uint) ([]byte, error) {
	return qrcode.Encode(g.ReceiptURL(orderID), qrcode.Medium, 256)
}
