package strategy

import "fmt"

type Signal int

const (
	SigBuy  Signal = 1
	SigHold Signal = 0
	SigSell Signal = -1
)

func (s Signal) String() string {
	switch s {
	case 1:
		return "BUY"
	case 0:
		return "HOLD"
	case -1:
		return "SELL"
	default:
		return fmt.Sprintf("SIG_%d", s)
	}
}
