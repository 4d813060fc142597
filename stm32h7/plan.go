package stm32h7

// SectionSizes carries the per-build sizes measured by the external
// compilation step. Zero-size optional sections are omitted from the
// plan; Stack is the minimum reserve the build demands.
type SectionSizes struct {
	Code            uint32
	ReadOnlyData    uint32
	InitializedData uint32
	ZeroedData      uint32
	Heap            uint32
	Stack           uint32

	// Buffers that peripherals reach over DMA; placed in a
	// DMA-reachable bank, never in DTCM.
	DMABuffers uint32

	// State kept across power cycles in the battery-backed bank.
	Retained uint32

	// Size of position-independent-code tables in the build output.
	// Anything non-zero fails validation.
	RelocMetadata uint32
}

// DaisySectionPlan builds the standard section plan for this target:
// vector table, code and read-only data in internal flash, initialized
// data copied from flash into DTCM, zeroed data and heap in DTCM, stack
// pinned to the top of DTCM. DMA buffers and retained state get their
// own affinity-selected banks when present.
func DaisySectionPlan(cat *RegionCatalog, sizes SectionSizes) (*SectionPlan, error) {
	sections := []Section{
		{Kind: VectorTable, Name: ".isr_vector", Size: MinVectorTableSize(IRQCount), Align: 8, Region: "FLASH"},
		{Kind: Code, Name: ".text", Size: sizes.Code, Align: 4, Region: "FLASH"},
		{Kind: ReadOnlyData, Name: ".rodata", Size: sizes.ReadOnlyData, Align: 4, Region: "FLASH"},
		{Kind: InitializedData, Name: ".data", Size: sizes.InitializedData, Align: 8, Region: "DTCMRAM", LoadRegion: "FLASH"},
		{Kind: ZeroedData, Name: ".bss", Size: sizes.ZeroedData, Align: 8, Region: "DTCMRAM"},
		{Kind: UninitializedOrHeap, Name: ".heap", Size: sizes.Heap, Align: 8, Region: "DTCMRAM"},
		{Kind: Stack, Name: ".stack", Size: sizes.Stack, Align: 8, Region: "DTCMRAM"},
		{Kind: RelocMetadata, Name: ".got", Size: sizes.RelocMetadata, Align: 4, Region: "FLASH"},
	}
	if sizes.DMABuffers > 0 {
		sections = append(sections, Section{
			Kind: UninitializedOrHeap, Name: ".dma_bss",
			Size: sizes.DMABuffers, Align: 32, Affinity: DMAAffinity,
		})
	}
	if sizes.Retained > 0 {
		sections = append(sections, Section{
			Kind: ZeroedData, Name: ".backup_sram",
			Size: sizes.Retained, Align: 8, Affinity: RetainedAffinity,
		})
	}
	return NewSectionPlan(cat, sections)
}
