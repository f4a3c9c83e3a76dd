// Package emoji maps domain values to markers for the audit trail.
package emoji

import (
	"github.com/drakos74/free-fall/internal/model"
)

// https://unicode.org/emoji/charts/full-emoji-list.html
const (
	FullMoon     = "🌕"
	FirstEclipse = "🌔"
	HalfEclipse  = "🌓"
	ThirdEclipse = "🌒"
	FullEclipse  = "🌑"

	Up    = "🥦"
	Down  = "🌶"
	Money = "💰"
	Error = "🚫"
)

// MapSignal returns the marker for the given signal.
func MapSignal(signal model.Signal) string {
	switch signal {
	case model.StrongBuy:
		return FullMoon
	case model.Buy:
		return FirstEclipse
	case model.Hold:
		return HalfEclipse
	case model.Sell:
		return ThirdEclipse
	case model.StrongSell:
		return FullEclipse
	default:
		return Error
	}
}

// MapSide returns the marker for the given order side.
func MapSide(side model.Side) string {
	switch side {
	case model.Long:
		return Up
	case model.Short:
		return Down
	default:
		return Error
	}
}
