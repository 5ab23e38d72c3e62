package pac

// ID names one peripheral block: a Cortex-M4 core facility or an nRF52840
// device peripheral.
type ID uint8

// Core facilities.
const (
	CBP ID = iota
	CPUID
	DCB
	DWT
	FPB
	CoreFPU
	ITM
	MPU
	NVIC
	SCB
	SYST
	TPIU

	numCore
)

// Device peripherals, in PAC order.
const (
	FICR ID = numCore + iota
	UICR
	CLOCK
	POWER
	P0
	P1
	RADIO
	UARTE0
	UART0
	SPIM0
	SPIS0
	TWIM0
	TWIS0
	SPI0
	TWI0
	SPIM1
	SPIS1
	TWIM1
	TWIS1
	SPI1
	TWI1
	NFCT
	GPIOTE
	SAADC
	TIMER0
	TIMER1
	TIMER2
	RTC0
	TEMP
	RNG
	ECB
	AAR
	CCM
	WDT
	RTC1
	QDEC
	COMP
	LPCOMP
	EGU0
	SWI0
	EGU1
	SWI1
	EGU2
	SWI2
	EGU3
	SWI3
	EGU4
	SWI4
	EGU5
	SWI5
	TIMER3
	TIMER4
	PWM0
	PDM
	ACL
	NVMC
	PPI
	MWU
	PWM1
	PWM2
	SPIM2
	SPIS2
	SPI2
	RTC2
	I2S
	FPU
	USBD
	UARTE1
	QSPI
	CC_HOST_RGF
	CRYPTOCELL
	PWM3
	SPIM3

	numIDs
)

var idNames = [numIDs]string{
	CBP: "CBP", CPUID: "CPUID", DCB: "DCB", DWT: "DWT", FPB: "FPB", CoreFPU: "CORE_FPU",
	ITM: "ITM", MPU: "MPU", NVIC: "NVIC", SCB: "SCB", SYST: "SYST", TPIU: "TPIU",

	FICR: "FICR", UICR: "UICR", CLOCK: "CLOCK", POWER: "POWER", P0: "P0", P1: "P1",
	RADIO: "RADIO", UARTE0: "UARTE0", UART0: "UART0",
	SPIM0: "SPIM0", SPIS0: "SPIS0", TWIM0: "TWIM0", TWIS0: "TWIS0", SPI0: "SPI0", TWI0: "TWI0",
	SPIM1: "SPIM1", SPIS1: "SPIS1", TWIM1: "TWIM1", TWIS1: "TWIS1", SPI1: "SPI1", TWI1: "TWI1",
	NFCT: "NFCT", GPIOTE: "GPIOTE", SAADC: "SAADC",
	TIMER0: "TIMER0", TIMER1: "TIMER1", TIMER2: "TIMER2", RTC0: "RTC0", TEMP: "TEMP",
	RNG: "RNG", ECB: "ECB", AAR: "AAR", CCM: "CCM", WDT: "WDT", RTC1: "RTC1",
	QDEC: "QDEC", COMP: "COMP", LPCOMP: "LPCOMP",
	EGU0: "EGU0", SWI0: "SWI0", EGU1: "EGU1", SWI1: "SWI1", EGU2: "EGU2", SWI2: "SWI2",
	EGU3: "EGU3", SWI3: "SWI3", EGU4: "EGU4", SWI4: "SWI4", EGU5: "EGU5", SWI5: "SWI5",
	TIMER3: "TIMER3", TIMER4: "TIMER4", PWM0: "PWM0", PDM: "PDM", ACL: "ACL",
	NVMC: "NVMC", PPI: "PPI", MWU: "MWU", PWM1: "PWM1", PWM2: "PWM2",
	SPIM2: "SPIM2", SPIS2: "SPIS2", SPI2: "SPI2", RTC2: "RTC2", I2S: "I2S",
	FPU: "FPU", USBD: "USBD", UARTE1: "UARTE1", QSPI: "QSPI",
	CC_HOST_RGF: "CC_HOST_RGF", CRYPTOCELL: "CRYPTOCELL", PWM3: "PWM3", SPIM3: "SPIM3",
}

func (id ID) String() string {
	if id < numIDs {
		return idNames[id]
	}
	return "ID(?)"
}

// IsCore reports whether id is a Cortex-M4 core facility.
func (id ID) IsCore() bool { return id < numCore }

// Valid reports whether id names a known block.
func (id ID) Valid() bool { return id < numIDs }

// CoreIDs lists every core facility.
func CoreIDs() []ID { return span(0, numCore) }

// DeviceIDs lists every device peripheral.
func DeviceIDs() []ID { return span(numCore, numIDs) }

func span(from, to ID) []ID {
	out := make([]ID, 0, int(to-from))
	for id := from; id < to; id++ {
		out = append(out, id)
	}
	return out
}
