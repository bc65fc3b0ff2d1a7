package domain

// TimerOutcome is the deferred decision for a product block whose successor
// is chosen later (bought/didn't-buy) rather than by immediate option click.
type TimerOutcome string

const (
	OutcomeBought   TimerOutcome = "bought"
	OutcomeDidntBuy TimerOutcome = "didnt_buy"
)

// Valid reports whether the outcome is one of the two known values.
func (o TimerOutcome) Valid() bool {
	return o == OutcomeBought || o == OutcomeDidntBuy
}
