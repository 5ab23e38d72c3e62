package errcode

import (
	"errors"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":                OK,
		"invalid_params":    InvalidParams,
		"unsupported":       Unsupported,
		"unknown_pin":       UnknownPin,
		"pin_in_use":        PinInUse,
		"pin_consumed":      PinConsumed,
		"token_consumed":    TokenConsumed,
		"wrong_peripheral":  WrongPeripheral,
		"wrong_pin_state":   WrongPinState,
		"peripherals_taken": PeripheralsTaken,
		"state_mismatch":    StateMismatch,
		"hw_fault":          Fault,
		"error":             Error,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestOf(t *testing.T) {
	if Of(nil) != OK {
		t.Fatalf("Of(nil) != OK")
	}
	if Of(PinInUse) != PinInUse {
		t.Fatalf("Of(Code) lost the code")
	}
	if got := Of(New(WrongPinState, "spim.New", "sck")); got != WrongPinState {
		t.Fatalf("Of(*E)=%q", got)
	}
	if got := Of(errors.New("boom")); got != Error {
		t.Fatalf("Of(plain)=%q", got)
	}
}

func TestEWrapsCause(t *testing.T) {
	cause := errors.New("line stuck")
	e := Wrap(Fault, "led.Enable", cause)
	if !errors.Is(e, cause) {
		t.Fatalf("cause not reachable through Unwrap")
	}
	if !errors.Is(e, Fault) {
		t.Fatalf("errors.Is did not match the code")
	}
	if errors.Is(e, PinInUse) {
		t.Fatalf("errors.Is matched the wrong code")
	}
	if got := e.Error(); got != "led.Enable: hw_fault: line stuck" {
		t.Fatalf("Error()=%q", got)
	}
	if got := New(UnknownPin, "", "").Error(); got != "unknown_pin" {
		t.Fatalf("bare Error()=%q", got)
	}
}
