// internal/core/domain/barcode.go
package domain

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MinBarcodeLength is the shortest raw scan the classifier accepts.
const MinBarcodeLength = 7

// scalePriceDigits is the required width of the embedded price field: a
// 5-digit integer counting thousandths of the currency unit.
const scalePriceDigits = 5

var scalePricePattern = regexp.MustCompile(`^\d{5}$`)

// ScaleField locates one fixed-width field inside a scale barcode.
type ScaleField struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

func (f ScaleField) end() int { return f.Start + f.Length }

// ScaleConfig describes one weighing-scale barcode layout for a store. The
// balance code is a literal prefix identifying the layout.
type ScaleConfig struct {
	BarcodeLength int        `json:"barcode_length"`
	BalanceCode   string     `json:"balance_code"`
	Product       ScaleField `json:"product"`
	Price         ScaleField `json:"price"`
	Seller        ScaleField `json:"seller,omitempty"`
}

// Validate checks the layout is internally consistent. The price field width
// is fixed by the scale firmware.
func (c ScaleConfig) Validate() error {
	if c.BarcodeLength < MinBarcodeLength {
		return Reject(RejectBarcodeTooShort, "barcode length %d below minimum %d", c.BarcodeLength, MinBarcodeLength)
	}
	if c.BalanceCode == "" {
		return Reject(RejectInvalidPriceField, "balance code is required")
	}
	if c.Price.Length != scalePriceDigits {
		return Reject(RejectInvalidPriceField, "price field must be %d digits, got %d", scalePriceDigits, c.Price.Length)
	}
	if c.Product.Start < 0 || c.Price.Start < 0 || c.Product.end() > c.BarcodeLength || c.Price.end() > c.BarcodeLength {
		return Reject(RejectInvalidPriceField, "field positions exceed barcode length %d", c.BarcodeLength)
	}
	return nil
}

// ScanResult is the closed set of classification outcomes.
type ScanResult interface {
	scanResult()
}

// StandardCode is a barcode with no matching scale layout, passed through
// unchanged for catalog lookup.
type StandardCode struct {
	Code string
}

// ScaleReading is a decoded weighing-scale barcode. TicketPrice is the total
// printed on the scale ticket, not a per-unit price.
type ScaleReading struct {
	ProductCode string
	SellerCode  string
	TicketPrice decimal.Decimal
	BalanceCode string
}

func (StandardCode) scanResult() {}
func (ScaleReading) scanResult() {}

// Classify decides whether raw is a standard product code or a scale-embedded
// code. Configs are tried in the order supplied; the first whose length and
// balance-code prefix match wins. Pure function; rejections are returned, not
// thrown, so callers can show a targeted message.
func Classify(raw string, configs []ScaleConfig) (ScanResult, error) {
	code := strings.TrimSpace(raw)
	if len(code) < MinBarcodeLength {
		return nil, Reject(RejectBarcodeTooShort, "barcode %q is shorter than %d characters", code, MinBarcodeLength)
	}

	for _, cfg := range configs {
		if cfg.BarcodeLength != len(code) {
			continue
		}
		if !strings.HasPrefix(code, cfg.BalanceCode) {
			continue
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return decodeScale(code, cfg)
	}

	return StandardCode{Code: code}, nil
}

func decodeScale(code string, cfg ScaleConfig) (ScanResult, error) {
	priceField := code[cfg.Price.Start:cfg.Price.end()]
	if !scalePricePattern.MatchString(priceField) {
		return nil, Reject(RejectInvalidPriceField, "price field %q is not a %d-digit integer", priceField, scalePriceDigits)
	}

	// The 5-digit field counts thousandths of the currency unit.
	cents, err := strconv.ParseInt(priceField, 10, 64)
	if err != nil {
		return nil, Reject(RejectInvalidPriceField, "price field %q: %v", priceField, err)
	}

	reading := ScaleReading{
		ProductCode: code[cfg.Product.Start:cfg.Product.end()],
		TicketPrice: decimal.New(cents, -CurrencyScale),
		BalanceCode: cfg.BalanceCode,
	}
	if cfg.Seller.Length > 0 && cfg.Seller.end() <= len(code) {
		reading.SellerCode = code[cfg.Seller.Start:cfg.Seller.end()]
	}
	return reading, nil
}

// WeighedQuantity back-computes the quantity sold from the total printed on
// the scale ticket and the catalog unit price with tax. This reconciles the
// physical scale's total with the system's unit pricing.
func WeighedQuantity(ticketPrice, unitPriceWithTax decimal.Decimal) (decimal.Decimal, error) {
	if !unitPriceWithTax.IsPositive() {
		return decimal.Zero, Reject(RejectNonPositiveAmount, "unit price with tax must be positive, got %s", unitPriceWithTax)
	}
	return RoundQuantity(ticketPrice.DivRound(unitPriceWithTax, CurrencyScale+2)), nil
}
