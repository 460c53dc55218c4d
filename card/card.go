package card

import (
	"fmt"
	"strings"
)

// Card is a single card of the 40-card Spanish deck.
//
// Encoding:
//   - high nibble: suit (0:Espadas, 1:Bastos, 2:Oros, 3:Copas)
//   - low nibble: rank (1-7, 10, 11, 12; no 8 or 9 exists)
type Card byte

func (c Card) String() string {
	if c == CardInvalid {
		return "Invalid"
	}
	return fmt.Sprintf("%d de %s", c.Rank(), c.Suit())
}

// Rank returns the face value of the card: one of 1-7, 10, 11, 12.
func (c Card) Rank() byte {
	if c == CardInvalid {
		return 0
	}
	return byte(c & 0x0F)
}

// Suit returns the card's suit.
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) IsAce() bool {
	return c.Rank() == 1
}

// ParseCard parses strings like "1e", "12b", "7o", "10c" (rank + suit
// initial: e=Espadas, b=Bastos, o=Oros, c=Copas) into a Card constant.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid card string: %s", s)
	}

	suitChar := s[len(s)-1]
	var suitBase Card
	switch suitChar {
	case 'e', 'E':
		suitBase = 0x00
	case 'b', 'B':
		suitBase = 0x10
	case 'o', 'O':
		suitBase = 0x20
	case 'c', 'C':
		suitBase = 0x30
	default:
		return 0, fmt.Errorf("invalid suit: %c", suitChar)
	}

	rankStr := s[:len(s)-1]
	var rankVal Card
	switch rankStr {
	case "1":
		rankVal = 0x01
	case "2":
		rankVal = 0x02
	case "3":
		rankVal = 0x03
	case "4":
		rankVal = 0x04
	case "5":
		rankVal = 0x05
	case "6":
		rankVal = 0x06
	case "7":
		rankVal = 0x07
	case "10":
		rankVal = 0x0A
	case "11":
		rankVal = 0x0B
	case "12":
		rankVal = 0x0C
	default:
		return 0, fmt.Errorf("invalid rank: %s", rankStr)
	}

	c := suitBase + rankVal
	for _, valid := range FullDeck {
		if valid == c {
			return c, nil
		}
	}
	return 0, fmt.Errorf("card not in deck: %s", s)
}
