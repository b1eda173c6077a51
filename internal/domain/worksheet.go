package domain

import "time"

// Worksheet is a saved snapshot of what the user entered: the sizing inputs
// and the target list. It carries no fills or outcomes.
type Worksheet struct {
	ID        string             // UUID assigned on first save
	Name      string             // Unique, user-chosen name
	Symbol    string             // Optional ticker the plan was made for
	Inputs    PositionSizeInputs
	Targets   []TradeTarget
	CreatedAt time.Time
	UpdatedAt time.Time
}
