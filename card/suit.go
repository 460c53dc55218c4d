package card

type Suit byte

const (
	Espadas Suit = iota // swords
	Bastos              // clubs
	Oros                // coins
	Copas               // cups
)

func (s Suit) String() string {
	switch s {
	case Espadas:
		return "Espadas"
	case Bastos:
		return "Bastos"
	case Oros:
		return "Oros"
	case Copas:
		return "Copas"
	}
	return "?"
}
