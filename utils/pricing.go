package utils

import (
	"math"
	"strings"

	"lead-relay/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DeliveryCostNote replaces the delivery price, which is quoted by phone.
const DeliveryCostNote = "Рассчитаем стоимость доставки и сообщим вам по телефону"

const (
	totalCostSuffix = " ₽ + стоимость доставки"
	volumeSuffix    = " м³"
)

var rubPrinter = message.NewPrinter(language.Russian)

// spaceReplacer turns the locale's no-break group separators into plain spaces.
var spaceReplacer = strings.NewReplacer("\u00a0", " ", "\u202f", " ")

// MaterialCost is price per м³ times volume. NaN or negative volumes cost nothing.
func MaterialCost(m models.Material, volume float64) float64 {
	if math.IsNaN(volume) || math.IsInf(volume, 0) || volume < 0 {
		return 0
	}
	return float64(m.Price) * volume
}

// FormatRubles groups digits the Russian way: 1700 -> "1 700", 2125.5 -> "2 125,5".
func FormatRubles(amount float64) string {
	s := rubPrinter.Sprintf("%v", number.Decimal(amount, number.MaxFractionDigits(3)))
	return spaceReplacer.Replace(s)
}

// TotalCostDisplay is the informational total sent with a calculation request.
func TotalCostDisplay(materialCost float64) string {
	return FormatRubles(materialCost) + totalCostSuffix
}

// FormatVolume appends the cubic metre unit to the volume the user typed.
func FormatVolume(raw string) string {
	return strings.TrimSpace(raw) + volumeSuffix
}
