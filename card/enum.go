package card

const CardInvalid Card = 0

// Espadas (swords)
const (
	CardEspadas1 Card = 0x01 + iota
	CardEspadas2
	CardEspadas3
	CardEspadas4
	CardEspadas5
	CardEspadas6
	CardEspadas7
)

const (
	CardEspadas10 Card = 0x0A
	CardEspadas11 Card = 0x0B
	CardEspadas12 Card = 0x0C
)

// Bastos (clubs)
const (
	CardBastos1 Card = 0x11 + iota
	CardBastos2
	CardBastos3
	CardBastos4
	CardBastos5
	CardBastos6
	CardBastos7
)

const (
	CardBastos10 Card = 0x1A
	CardBastos11 Card = 0x1B
	CardBastos12 Card = 0x1C
)

// Oros (coins)
const (
	CardOros1 Card = 0x21 + iota
	CardOros2
	CardOros3
	CardOros4
	CardOros5
	CardOros6
	CardOros7
)

const (
	CardOros10 Card = 0x2A
	CardOros11 Card = 0x2B
	CardOros12 Card = 0x2C
)

// Copas (cups)
const (
	CardCopas1 Card = 0x31 + iota
	CardCopas2
	CardCopas3
	CardCopas4
	CardCopas5
	CardCopas6
	CardCopas7
)

const (
	CardCopas10 Card = 0x3A
	CardCopas11 Card = 0x3B
	CardCopas12 Card = 0x3C
)

// FullDeck is the closed 40-card Spanish deck used by the game. There is no
// 8 or 9 of any suit.
var FullDeck = []Card{
	CardEspadas1, CardEspadas2, CardEspadas3, CardEspadas4, CardEspadas5, CardEspadas6, CardEspadas7,
	CardEspadas10, CardEspadas11, CardEspadas12,
	CardBastos1, CardBastos2, CardBastos3, CardBastos4, CardBastos5, CardBastos6, CardBastos7,
	CardBastos10, CardBastos11, CardBastos12,
	CardOros1, CardOros2, CardOros3, CardOros4, CardOros5, CardOros6, CardOros7,
	CardOros10, CardOros11, CardOros12,
	CardCopas1, CardCopas2, CardCopas3, CardCopas4, CardCopas5, CardCopas6, CardCopas7,
	CardCopas10, CardCopas11, CardCopas12,
}
