// Package r5900 decodes EE (MIPS R5900) instruction words, including the
// 128-bit MMI extension and the COP2/VU0 macro-mode encodings.
package r5900

// Primary opcodes (bits 31:26).
const (
	OpSpecial = 0x00
	OpRegimm  = 0x01
	OpJ       = 0x02
	OpJAL     = 0x03
	OpBEQ     = 0x04
	OpBNE     = 0x05
	OpBLEZ    = 0x06
	OpBGTZ    = 0x07
	OpADDI    = 0x08
	OpADDIU   = 0x09
	OpSLTI    = 0x0A
	OpSLTIU   = 0x0B
	OpANDI    = 0x0C
	OpORI     = 0x0D
	OpXORI    = 0x0E
	OpLUI     = 0x0F
	OpCOP0    = 0x10
	OpCOP1    = 0x11
	OpCOP2    = 0x12
	OpBEQL    = 0x14
	OpBNEL    = 0x15
	OpBLEZL   = 0x16
	OpBGTZL   = 0x17
	OpDADDI   = 0x18
	OpDADDIU  = 0x19
	OpLDL     = 0x1A
	OpLDR     = 0x1B
	OpMMI     = 0x1C
	OpLQ      = 0x1E
	OpSQ      = 0x1F
	OpLB      = 0x20
	OpLH      = 0x21
	OpLWL     = 0x22
	OpLW      = 0x23
	OpLBU     = 0x24
	OpLHU     = 0x25
	OpLWR     = 0x26
	OpLWU     = 0x27
	OpSB      = 0x28
	OpSH      = 0x29
	OpSWL     = 0x2A
	OpSW      = 0x2B
	OpSDL     = 0x2C
	OpSDR     = 0x2D
	OpSWR     = 0x2E
	OpCACHE   = 0x2F
	OpLWC1    = 0x31
	OpPREF    = 0x33
	OpLDC2    = 0x36 // quadword load into a VU0 vector register
	OpLD      = 0x37
	OpSWC1    = 0x39
	OpSDC2    = 0x3E // quadword store from a VU0 vector register
	OpSD      = 0x3F
)

// SPECIAL function codes (bits 5:0).
const (
	SpSLL     = 0x00
	SpSRL     = 0x02
	SpSRA     = 0x03
	SpSLLV    = 0x04
	SpSRLV    = 0x06
	SpSRAV    = 0x07
	SpJR      = 0x08
	SpJALR    = 0x09
	SpMOVZ    = 0x0A
	SpMOVN    = 0x0B
	SpSYSCALL = 0x0C
	SpBREAK   = 0x0D
	SpSYNC    = 0x0F
	SpMFHI    = 0x10
	SpMTHI    = 0x11
	SpMFLO    = 0x12
	SpMTLO    = 0x13
	SpDSLLV   = 0x14
	SpDSRLV   = 0x16
	SpDSRAV   = 0x17
	SpMULT    = 0x18
	SpMULTU   = 0x19
	SpDIV     = 0x1A
	SpDIVU    = 0x1B
	SpADD     = 0x20
	SpADDU    = 0x21
	SpSUB     = 0x22
	SpSUBU    = 0x23
	SpAND     = 0x24
	SpOR      = 0x25
	SpXOR     = 0x26
	SpNOR     = 0x27
	SpMFSA    = 0x28
	SpMTSA    = 0x29
	SpSLT     = 0x2A
	SpSLTU    = 0x2B
	SpDADD    = 0x2C
	SpDADDU   = 0x2D
	SpDSUB    = 0x2E
	SpDSUBU   = 0x2F
	SpTGE     = 0x30
	SpTGEU    = 0x31
	SpTLT     = 0x32
	SpTLTU    = 0x33
	SpTEQ     = 0x34
	SpTNE     = 0x36
	SpDSLL    = 0x38
	SpDSRL    = 0x3A
	SpDSRA    = 0x3B
	SpDSLL32  = 0x3C
	SpDSRL32  = 0x3E
	SpDSRA32  = 0x3F
)

// REGIMM rt codes.
const (
	RiBLTZ    = 0x00
	RiBGEZ    = 0x01
	RiBLTZL   = 0x02
	RiBGEZL   = 0x03
	RiTGEI    = 0x08
	RiTGEIU   = 0x09
	RiTLTI    = 0x0A
	RiTLTIU   = 0x0B
	RiTEQI    = 0x0C
	RiTNEI    = 0x0E
	RiBLTZAL  = 0x10
	RiBGEZAL  = 0x11
	RiBLTZALL = 0x12
	RiBGEZALL = 0x13
	RiMTSAB   = 0x18
	RiMTSAH   = 0x19
)

// MMI function codes (bits 5:0).
const (
	MmiMADD   = 0x00
	MmiMADDU  = 0x01
	MmiPLZCW  = 0x04
	MmiMMI0   = 0x08
	MmiMMI2   = 0x09
	MmiMFHI1  = 0x10
	MmiMTHI1  = 0x11
	MmiMFLO1  = 0x12
	MmiMTLO1  = 0x13
	MmiMULT1  = 0x18
	MmiMULTU1 = 0x19
	MmiDIV1   = 0x1A
	MmiDIVU1  = 0x1B
	MmiMADD1  = 0x20
	MmiMADDU1 = 0x21
	MmiMMI1   = 0x28
	MmiMMI3   = 0x29
	MmiPMFHL  = 0x30
	MmiPMTHL  = 0x31
	MmiPSLLH  = 0x34
	MmiPSRLH  = 0x36
	MmiPSRAH  = 0x37
	MmiPSLLW  = 0x3C
	MmiPSRLW  = 0x3E
	MmiPSRAW  = 0x3F
)

// MMI0 sub-functions (sa field).
const (
	Mmi0PADDW  = 0x00
	Mmi0PSUBW  = 0x01
	Mmi0PCGTW  = 0x02
	Mmi0PMAXW  = 0x03
	Mmi0PADDH  = 0x04
	Mmi0PSUBH  = 0x05
	Mmi0PCGTH  = 0x06
	Mmi0PMAXH  = 0x07
	Mmi0PADDB  = 0x08
	Mmi0PSUBB  = 0x09
	Mmi0PCGTB  = 0x0A
	Mmi0PADDSW = 0x10
	Mmi0PSUBSW = 0x11
	Mmi0PEXTLW = 0x12
	Mmi0PPACW  = 0x13
	Mmi0PADDSH = 0x14
	Mmi0PSUBSH = 0x15
	Mmi0PEXTLH = 0x16
	Mmi0PPACH  = 0x17
	Mmi0PADDSB = 0x18
	Mmi0PSUBSB = 0x19
	Mmi0PEXTLB = 0x1A
	Mmi0PPACB  = 0x1B
	Mmi0PEXT5  = 0x1E
	Mmi0PPAC5  = 0x1F
)

// MMI1 sub-functions (sa field).
const (
	Mmi1PABSW  = 0x01
	Mmi1PCEQW  = 0x02
	Mmi1PMINW  = 0x03
	Mmi1PADSBH = 0x04
	Mmi1PABSH  = 0x05
	Mmi1PCEQH  = 0x06
	Mmi1PMINH  = 0x07
	Mmi1PCEQB  = 0x0A
	Mmi1PADDUW = 0x10
	Mmi1PSUBUW = 0x11
	Mmi1PEXTUW = 0x12
	Mmi1PADDUH = 0x14
	Mmi1PSUBUH = 0x15
	Mmi1PEXTUH = 0x16
	Mmi1PADDUB = 0x18
	Mmi1PSUBUB = 0x19
	Mmi1PEXTUB = 0x1A
	Mmi1QFSRV  = 0x1B
)

// MMI2 sub-functions (sa field).
const (
	Mmi2PMADDW = 0x00
	Mmi2PSLLVW = 0x02
	Mmi2PSRLVW = 0x03
	Mmi2PMSUBW = 0x04
	Mmi2PMFHI  = 0x08
	Mmi2PMFLO  = 0x09
	Mmi2PINTH  = 0x0A
	Mmi2PMULTW = 0x0C
	Mmi2PDIVW  = 0x0D
	Mmi2PCPYLD = 0x0E
	Mmi2PMADDH = 0x10
	Mmi2PHMADH = 0x11
	Mmi2PAND   = 0x12
	Mmi2PXOR   = 0x13
	Mmi2PMSUBH = 0x14
	Mmi2PHMSBH = 0x15
	Mmi2PEXEH  = 0x1A
	Mmi2PREVH  = 0x1B
	Mmi2PMULTH = 0x1C
	Mmi2PDIVBW = 0x1D
	Mmi2PEXEW  = 0x1E
	Mmi2PROT3W = 0x1F
)

// MMI3 sub-functions (sa field).
const (
	Mmi3PMADDUW = 0x00
	Mmi3PSRAVW  = 0x03
	Mmi3PMTHI   = 0x08
	Mmi3PMTLO   = 0x09
	Mmi3PINTEH  = 0x0A
	Mmi3PMULTUW = 0x0C
	Mmi3PDIVUW  = 0x0D
	Mmi3PCPYUD  = 0x0E
	Mmi3POR     = 0x12
	Mmi3PNOR    = 0x13
	Mmi3PEXCH   = 0x1A
	Mmi3PCPYH   = 0x1B
	Mmi3PEXCW   = 0x1E
)

// PMFHL/PMTHL lane selectors (sa field).
const (
	PmfhlLW  = 0x00
	PmfhlUW  = 0x01
	PmfhlSLW = 0x02
	PmfhlLH  = 0x03
	PmfhlSH  = 0x04
)

// Coprocessor rs formats.
const (
	CopMF = 0x00
	CopCF = 0x02
	CopMT = 0x04
	CopCT = 0x06
	CopBC = 0x08
	CopCO = 0x10 // 0x10-0x1F

	Cop2QMFC2 = 0x01
	Cop2QMTC2 = 0x05
)

// BC condition codes (rt field).
const (
	BcF  = 0x00
	BcT  = 0x01
	BcFL = 0x02
	BcTL = 0x03
)

// COP0 register numbers (rd field).
const (
	Cop0Index    = 0
	Cop0Random   = 1
	Cop0EntryLo0 = 2
	Cop0EntryLo1 = 3
	Cop0Context  = 4
	Cop0PageMask = 5
	Cop0Wired    = 6
	Cop0BadVAddr = 8
	Cop0Count    = 9
	Cop0EntryHi  = 10
	Cop0Compare  = 11
	Cop0Status   = 12
	Cop0Cause    = 13
	Cop0EPC      = 14
	Cop0PRId     = 15
	Cop0Config   = 16
	Cop0BadPAddr = 23
	Cop0Debug    = 24
	Cop0Perf     = 25
	Cop0TagLo    = 28
	Cop0TagHi    = 29
	Cop0ErrorEPC = 30
)

// COP0 CO function codes.
const (
	Cop0TLBR  = 0x01
	Cop0TLBWI = 0x02
	Cop0TLBWR = 0x06
	Cop0TLBP  = 0x08
	Cop0ERET  = 0x18
	Cop0EI    = 0x38
	Cop0DI    = 0x39
)

// COP1 single-format function codes.
const (
	FpuADD    = 0x00
	FpuSUB    = 0x01
	FpuMUL    = 0x02
	FpuDIV    = 0x03
	FpuSQRT   = 0x04
	FpuABS    = 0x05
	FpuMOV    = 0x06
	FpuNEG    = 0x07
	FpuROUNDW = 0x0C
	FpuTRUNCW = 0x0D
	FpuCEILW  = 0x0E
	FpuFLOORW = 0x0F
	FpuRSQRT  = 0x16
	FpuADDA   = 0x18
	FpuSUBA   = 0x19
	FpuMULA   = 0x1A
	FpuMADD   = 0x1C
	FpuMSUB   = 0x1D
	FpuMADDA  = 0x1E
	FpuMSUBA  = 0x1F
	FpuCVTW   = 0x24
	FpuMAX    = 0x28
	FpuMIN    = 0x29
	FpuCF     = 0x30
	FpuCUN    = 0x31
	FpuCEQ    = 0x32
	FpuCUEQ   = 0x33
	FpuCOLT   = 0x34
	FpuCULT   = 0x35
	FpuCOLE   = 0x36
	FpuCULE   = 0x37
	FpuCSF    = 0x38
	FpuCNGLE  = 0x39
	FpuCSEQ   = 0x3A
	FpuCNGL   = 0x3B
	FpuCLT    = 0x3C
	FpuCNGE   = 0x3D
	FpuCLE    = 0x3E
	FpuCNGT   = 0x3F

	FpuFmtS = 0x10
	FpuFmtW = 0x14
	FpuCVTS = 0x20
)

// VU0 macro special-1 function codes (bits 5:0).
const (
	VuVADDx    = 0x00
	VuVADDy    = 0x01
	VuVADDz    = 0x02
	VuVADDw    = 0x03
	VuVSUBx    = 0x04
	VuVSUBy    = 0x05
	VuVSUBz    = 0x06
	VuVSUBw    = 0x07
	VuVMADDx   = 0x08
	VuVMADDy   = 0x09
	VuVMADDz   = 0x0A
	VuVMADDw   = 0x0B
	VuVMAXx    = 0x10
	VuVMAXy    = 0x11
	VuVMAXz    = 0x12
	VuVMAXw    = 0x13
	VuVMINIx   = 0x14
	VuVMINIy   = 0x15
	VuVMINIz   = 0x16
	VuVMINIw   = 0x17
	VuVMULx    = 0x18
	VuVMULy    = 0x19
	VuVMULz    = 0x1A
	VuVMULw    = 0x1B
	VuVMULq    = 0x1C
	VuVMULi    = 0x1E
	VuVADDq    = 0x20
	VuVADDi    = 0x22
	VuVSUBq    = 0x24
	VuVSUBi    = 0x26
	VuVADD     = 0x28
	VuVMADD    = 0x29
	VuVMUL     = 0x2A
	VuVMAX     = 0x2B
	VuVSUB     = 0x2C
	VuVOPMSUB  = 0x2E
	VuVMINI    = 0x2F
	VuVIADD    = 0x30
	VuVISUB    = 0x31
	VuVIADDI   = 0x32
	VuVIAND    = 0x34
	VuVIOR     = 0x35
	VuVCALLMS  = 0x38
	VuVCALLMSR = 0x39
)

// VU0 macro special-2 codes: for function fields 0x3C-0x3F the opcode
// extends into bits 10:6 (code = flo<<2 | fn&3).
const (
	Vu2VABS   = 0x1D
	Vu2VNOP   = 0x2F
	Vu2VMOVE  = 0x30
	Vu2VMR32  = 0x31
	Vu2VDIV   = 0x38
	Vu2VSQRT  = 0x39
	Vu2VRSQRT = 0x3A
	Vu2VWAITQ = 0x3B
	Vu2VMTIR  = 0x3C
	Vu2VMFIR  = 0x3D
	Vu2VILWR  = 0x3E
	Vu2VISWR  = 0x3F
	Vu2VRNEXT = 0x40
	Vu2VRGET  = 0x41
	Vu2VRINIT = 0x42
	Vu2VRXOR  = 0x43
)

// VU0 control register numbers seen by CFC2/CTC2. Numbers 0-15 address
// the VI integer registers; 16-31 are the control file.
const (
	VuCrStatus  = 16
	VuCrMAC     = 17
	VuCrClip    = 18
	VuCrACC     = 19
	VuCrR       = 20
	VuCrI       = 21
	VuCrQ       = 22
	VuCrP       = 23
	VuCrITOP    = 24
	VuCrXITOP   = 25
	VuCrTPC     = 26
	VuCrCMSAR0  = 27
	VuCrFBRST   = 28
	VuCrVPUStat = 29
	VuCrInfo    = 30
	VuCrCMSAR1  = 31
)
