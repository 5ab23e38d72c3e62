package types

// ---- Kinds of board resources ----

type Kind string

const (
	KindLED    Kind = "led"
	KindButton Kind = "button"
	KindPin    Kind = "pin"
	KindSPI    Kind = "spi"
	KindUART   Kind = "uart"
	KindCS     Kind = "chip_select"
)

// ---- LED / button values ----

type LEDValue struct {
	On bool `json:"on"`
}

type ButtonValue struct {
	Pressed bool `json:"pressed"`
}

// ---- Board snapshot ----

// PinInfo describes one line held by a board handle.
type PinInfo struct {
	Name  string `json:"name"`            // header label or role, e.g. "a0", "flash.sck"
	Line  string `json:"line"`            // "P0.19"
	Kind  Kind   `json:"kind"`            // who owns the line
	State string `json:"state"`           // "disconnected", "output_push_pull", ...
	Level *bool  `json:"level,omitempty"` // driven level for outputs, pad level for inputs
}

// BusInfo describes a bus handle held by a board handle.
type BusInfo struct {
	Name       string `json:"name"`
	Peripheral string `json:"peripheral"`
	Kind       Kind   `json:"kind"`
	Detail     string `json:"detail"` // "500 kHz mode 0", "115200 8N1"
}

// BoardInfo is a point-in-time view of everything a board handle owns.
type BoardInfo struct {
	Name        string    `json:"name"`
	Pins        []PinInfo `json:"pins"`
	Buses       []BusInfo `json:"buses"`
	Core        []string  `json:"core"`
	Peripherals []string  `json:"peripherals"`
}
