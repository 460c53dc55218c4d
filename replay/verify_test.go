package replay

import (
	"encoding/json"
	"testing"

	"truco-lite/truco"
)

func encodeTape(t *testing.T, events []truco.GameEvent) []json.RawMessage {
	out := make([]json.RawMessage, len(events))
	for i, e := range events {
		raw, err := json.Marshal(e)
		if err != nil {
			t.Fatalf("marshal event %d: %v", i, err)
		}
		out[i] = raw
	}
	return out
}

func TestVerify_InProgressTapeHasNoResult(t *testing.T) {
	g, err := truco.New("mesa", 1, truco.Config{Seed: 42})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g, err = g.Join(2)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	g, err = g.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Play one trick so the tape carries THROW_CARD events after START and
	// the first NEXT_ROUND; the round is still undecided. Full match-end
	// tapes are exercised in truco's own tests, this only checks the
	// replay/decode plumbing.
	p1, p2 := g.Players[0], g.Players[1]
	g, err = g.ThrowCard(p1, g.State.Cards[p1][0])
	if err != nil {
		t.Fatalf("throw: %v", err)
	}
	g, err = g.ThrowCard(p2, g.State.Cards[p2][0])
	if err != nil {
		t.Fatalf("throw: %v", err)
	}

	tape := encodeTape(t, g.Events)
	if _, ok := DeriveOutcome(g.Events); ok {
		t.Fatalf("expected no RESULT yet for an in-progress match")
	}

	// Decoding must round-trip even without a RESULT; Verify against a
	// fabricated outcome should fail with no_result, not a decode error.
	err = Verify(tape, Outcome{Winner: p1, Points: map[truco.PlayerId]int{p1: 15, p2: 0}})
	if err == nil {
		t.Fatalf("expected verification to fail, match has no RESULT yet")
	}
	ve, ok := err.(*VerifyError)
	if !ok || ve.Reason != "no_result" {
		t.Fatalf("expected no_result VerifyError, got %v", err)
	}
}

func TestVerify_DecodeFailure(t *testing.T) {
	bad := []json.RawMessage{json.RawMessage(`{"type":"NOT_A_REAL_EVENT"}`)}
	err := Verify(bad, Outcome{})
	if err == nil {
		t.Fatalf("expected decode failure")
	}
	ve, ok := err.(*VerifyError)
	if !ok || ve.Reason != "decode_failed" {
		t.Fatalf("expected decode_failed VerifyError, got %v", err)
	}
}
