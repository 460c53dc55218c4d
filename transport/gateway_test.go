package transport

import (
	"encoding/json"
	"testing"

	"truco-lite/card"
	"truco-lite/truco"
)

func TestParseEnvidoCall(t *testing.T) {
	c, err := parseEnvidoCall("REAL_ENVIDO")
	if err != nil {
		t.Fatalf("parseEnvidoCall: %v", err)
	}
	if c != truco.RealEnvido {
		t.Fatalf("got %v, want RealEnvido", c)
	}

	if _, err := parseEnvidoCall("NOT_A_CALL"); err == nil {
		t.Fatalf("expected error for unknown envido call")
	}
}

func TestParseTrucoCall(t *testing.T) {
	c, err := parseTrucoCall("VALE_CUATRO")
	if err != nil {
		t.Fatalf("parseTrucoCall: %v", err)
	}
	if c != truco.ValeCuatro {
		t.Fatalf("got %v, want ValeCuatro", c)
	}
}

func TestMarshalFiltered_HidesOpponentHand(t *testing.T) {
	p1, p2 := truco.PlayerId(1), truco.PlayerId(2)
	ev := truco.NextRoundEvent{
		Round: 2,
		Cards: map[truco.PlayerId][]card.Card{
			p1: {card.CardEspadas1},
			p2: {card.CardOros7},
		},
		NextPlayerId: p1,
	}

	raw, err := marshalFiltered(ev, p1)
	if err != nil {
		t.Fatalf("marshalFiltered: %v", err)
	}

	var decoded struct {
		Cards map[truco.PlayerId][]card.Card `json:"cards"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, leaked := decoded.Cards[p2]; leaked {
		t.Fatalf("expected opponent hand to be filtered out of the addressee's payload")
	}
	if len(decoded.Cards[p1]) != 1 {
		t.Fatalf("expected addressee's own hand to survive filtering")
	}
}
