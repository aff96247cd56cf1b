package tracker

import (
	"fmt"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// lot represents a single purchase of an instrument, used for cost basis
// calculations. Brokerage paid on the buy is spread over the units, so a
// partial sale of the lot carries its share of the fee.
type lot struct {
	Date     calendar.Date
	Quantity Quantity
	UnitCost Money // purchase price plus brokerage per unit
}

type lots []lot

// buy appends a new lot to the queue. The trade's brokerage is folded into
// the per-unit cost.
func (l lots) buy(t Trade) lots {
	unitCost := t.Price.Add(t.Brokerage.Div(t.Quantity))
	return append(l, lot{Date: t.Date, Quantity: t.Quantity, UnitCost: unitCost})
}

// quantity returns the total units held across all lots.
func (l lots) quantity() Quantity {
	var total Quantity
	for _, currentLot := range l {
		total = total.Add(currentLot.Quantity)
	}
	return total
}

// costBasis returns the total cost of all surviving lots, fees included.
func (l lots) costBasis() Money {
	var total Money
	for _, currentLot := range l {
		total = total.Add(currentLot.UnitCost.Mul(currentLot.Quantity))
	}
	return total
}

// sell consumes quantityToSell from the head of the queue, oldest lot first,
// and returns the surviving lots together with the profit realized against
// sellPrice. Selling more than the queue holds is ErrOversell.
func (l lots) sell(quantityToSell Quantity, sellPrice Money) (remaining lots, realized Money, err error) {
	if l.quantity().LessThan(quantityToSell) {
		return l, realized, fmt.Errorf("selling %s of %s held: %w", quantityToSell, l.quantity(), ErrOversell)
	}

	for _, currentLot := range l {
		if quantityToSell.IsZero() {
			remaining = append(remaining, currentLot)
			continue
		}

		if currentLot.Quantity.GreaterThan(quantityToSell) {
			// Partial sale from this lot
			realized = realized.Add(sellPrice.Sub(currentLot.UnitCost).Mul(quantityToSell))
			newLot := lot{
				Date:     currentLot.Date,
				Quantity: currentLot.Quantity.Sub(quantityToSell),
				UnitCost: currentLot.UnitCost,
			}
			remaining = append(remaining, newLot)
			quantityToSell = Q(0)
		} else {
			// Full sale of this lot
			realized = realized.Add(sellPrice.Sub(currentLot.UnitCost).Mul(currentLot.Quantity))
			quantityToSell = quantityToSell.Sub(currentLot.Quantity)
		}
	}
	return remaining, realized, nil
}
