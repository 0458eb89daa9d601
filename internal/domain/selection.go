package domain

type SelectionMode string

const (
	SelectionModeFullCart SelectionMode = "full_cart"
	SelectionModeBuyNow   SelectionMode = "buy_now"
)

// Selection is the frozen set of lines a checkout attempt purchases.
type Selection struct {
	Mode      SelectionMode
	ProductID string // set only in buy-now mode
	Lines     []CartLine
	Total     Money
}

func (s Selection) IsEmpty() bool {
	return len(s.Lines) == 0
}

func (s Selection) Clone() Selection {
	s.Lines = CloneLines(s.Lines)
	return s
}
