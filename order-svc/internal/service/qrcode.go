package service

import (
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(branchPhone, tableName string) ([]byte, error)
}

// DefaultQRGenerator encodes a wa.me deep link that opens a chat with the
// branch assistant, pre-filled with the table the guest is sitting at.
type DefaultQRGenerator struct{}

func (g DefaultQRGenerator) Generate(branchPhone, tableName string) ([]byte, error) {
	text := url.QueryEscape(fmt.Sprintf("Hola, estoy en la mesa %s", tableName))
	link := fmt.Sprintf("https://wa.me/%s?text=%s", branchPhone, text)
	return qrcode.Encode(link, qrcode.Medium, 256)
}
