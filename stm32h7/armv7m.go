package stm32h7

// ARMv7-M fixed vector table geometry. The processor reads the initial
// stack pointer from the first word of the table and the reset vector
// from the second; the table must therefore sit at the very start of the
// bank the core boots from.
const (
	vectorWordSize = 4

	InitialSPOffset   = 0x0
	ResetVectorOffset = 0x4

	// System exception entries, initial SP slot included.
	SystemVectorEntries = 16
)

// MinVectorTableSize returns the smallest legal vector table for a part
// with the given number of device interrupt lines.
func MinVectorTableSize(irqs int) uint32 {
	return uint32((SystemVectorEntries + irqs) * vectorWordSize)
}

// stm32h750IRQs lists the device interrupt lines of the STM32H750 in
// vector order. Empty entries are reserved positions in the table.
var stm32h750IRQs = []string{
	"WWDG", "PVD_AVD", "TAMP_STAMP", "RTC_WKUP", "FLASH", "RCC",
	"EXTI0", "EXTI1", "EXTI2", "EXTI3", "EXTI4",
	"DMA1_Stream0", "DMA1_Stream1", "DMA1_Stream2", "DMA1_Stream3",
	"DMA1_Stream4", "DMA1_Stream5", "DMA1_Stream6",
	"ADC", "FDCAN1_IT0", "FDCAN2_IT0", "FDCAN1_IT1", "FDCAN2_IT1",
	"EXTI9_5", "TIM1_BRK", "TIM1_UP", "TIM1_TRG_COM", "TIM1_CC",
	"TIM2", "TIM3", "TIM4",
	"I2C1_EV", "I2C1_ER", "I2C2_EV", "I2C2_ER",
	"SPI1", "SPI2", "USART1", "USART2", "USART3",
	"EXTI15_10", "RTC_Alarm", "",
	"TIM8_BRK_TIM12", "TIM8_UP_TIM13", "TIM8_TRG_COM_TIM14", "TIM8_CC",
	"DMA1_Stream7", "FMC", "SDMMC1", "TIM5", "SPI3", "UART4", "UART5",
	"TIM6_DAC", "TIM7",
	"DMA2_Stream0", "DMA2_Stream1", "DMA2_Stream2", "DMA2_Stream3",
	"DMA2_Stream4",
	"ETH", "ETH_WKUP", "FDCAN_CAL", "", "", "", "",
	"DMA2_Stream5", "DMA2_Stream6", "DMA2_Stream7",
	"USART6", "I2C3_EV", "I2C3_ER",
	"OTG_HS_EP1_OUT", "OTG_HS_EP1_IN", "OTG_HS_WKUP", "OTG_HS",
	"DCMI", "CRYP", "HASH_RNG", "FPU",
	"UART7", "UART8", "SPI4", "SPI5", "SPI6",
	"SAI1", "LTDC", "LTDC_ER", "DMA2D", "SAI2", "QUADSPI",
	"LPTIM1", "CEC", "I2C4_EV", "I2C4_ER", "SPDIF_RX",
	"OTG_FS_EP1_OUT", "OTG_FS_EP1_IN", "OTG_FS_WKUP", "OTG_FS",
	"DMAMUX1_OVR",
	"HRTIM1_Master", "HRTIM1_TIMA", "HRTIM1_TIMB", "HRTIM1_TIMC",
	"HRTIM1_TIMD", "HRTIM1_TIME", "HRTIM1_FLT",
	"DFSDM1_FLT0", "DFSDM1_FLT1", "DFSDM1_FLT2", "DFSDM1_FLT3",
	"SAI3", "SWPMI1", "TIM15", "TIM16", "TIM17",
	"MDIOS_WKUP", "MDIOS", "JPEG", "MDMA", "",
	"SDMMC2", "HSEM1", "", "ADC3", "DMAMUX2_OVR",
	"BDMA_Channel0", "BDMA_Channel1", "BDMA_Channel2", "BDMA_Channel3",
	"BDMA_Channel4", "BDMA_Channel5", "BDMA_Channel6", "BDMA_Channel7",
	"COMP", "LPTIM2", "LPTIM3", "LPTIM4", "LPTIM5", "LPUART1", "",
	"CRS", "ECC", "SAI4", "", "", "WAKEUP_PIN",
}

// IRQCount is the number of device interrupt lines on the STM32H750,
// reserved positions included.
var IRQCount = len(stm32h750IRQs)

// STM32H750IRQs returns the device interrupt lines in vector order.
func STM32H750IRQs() []string {
	out := make([]string, len(stm32h750IRQs))
	copy(out, stm32h750IRQs)
	return out
}
