package deck

// Hand represents a collection of cards
type Hand []*Card

// AddCard adds a card to the hand
func (h *Hand) AddCard(card *Card) {
	*h = append(*h, card)
}

// NumberCards returns only the number cards
func (h Hand) NumberCards() Hand {
	numbers := make(Hand, 0, len(h))
	for _, c := range h {
		if c.IsNumber() {
			numbers = append(numbers, c)
		}
	}

	return numbers
}

// CountNumbers returns the number of number cards in the hand
func (h Hand) CountNumbers() int {
	n := 0
	for _, c := range h {
		if c.IsNumber() {
			n++
		}
	}

	return n
}

// HasOperation returns true if the hand holds an operation card of the given type
func (h Hand) HasOperation(op Operation) bool {
	for _, c := range h {
		if c.IsOperation(op) {
			return true
		}
	}

	return false
}

// Lowest returns the lowest valued number card
// When values match, the card with the lowest color rank is returned
func (h Hand) Lowest() *Card {
	var lowest *Card
	for _, c := range h {
		if !c.IsNumber() {
			continue
		}

		if lowest == nil || c.Value < lowest.Value || (c.Value == lowest.Value && c.Color.Rank() < lowest.Color.Rank()) {
			lowest = c
		}
	}

	return lowest
}

// Highest returns the highest valued number card
// When values match, the card with the highest color rank is returned
func (h Hand) Highest() *Card {
	var highest *Card
	for _, c := range h {
		if !c.IsNumber() {
			continue
		}

		if highest == nil || c.Value > highest.Value || (c.Value == highest.Value && c.Color.Rank() > highest.Color.Rank()) {
			highest = c
		}
	}

	return highest
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}
