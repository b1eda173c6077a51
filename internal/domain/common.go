package domain

// Direction is the side of a planned trade, derived from where the stop sits
// relative to the entry.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// DirectionOf returns Long when the stop is below the entry, otherwise Short.
func DirectionOf(entryPrice, stopLossPrice float64) Direction {
	if entryPrice > stopLossPrice {
		return Long
	}
	return Short
}

// Multiplier returns the sign applied to price offsets from the entry when
// walking towards the stop (-1 for longs, +1 for shorts).
func (d Direction) Multiplier() float64 {
	if d == Long {
		return -1
	}
	return 1
}

// InputField names an editable field of PositionSizeInputs.
type InputField string

const (
	FieldAccountSize    InputField = "account"
	FieldRiskPercentage InputField = "risk"
	FieldEntryPrice     InputField = "entry"
	FieldStopLossPrice  InputField = "stop"
)
