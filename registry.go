package iec104

import "fmt"

/*
TypeID (Type Identification, 1 byte) selects the information-object layout
carried by an ASDU. Presently 58 specific types are defined by the
standard; this engine recognizes the closed subset needed for telecontrol
monitoring and control traffic (process data, commands, setpoints, system
and parameter activation) and rejects anything else as a protocol error.
*/
type TypeID uint8

const (
	MSpNa1    TypeID = 1   // single-point information
	MSpTa1    TypeID = 2   // single-point information + CP24Time2a
	MDpNa1    TypeID = 3   // double-point information
	MDpTa1    TypeID = 4   // double-point information + CP24Time2a
	MStNa1    TypeID = 5   // step position information
	MBoNa1    TypeID = 7   // bitstring of 32 bit
	MMeNa1    TypeID = 9   // measured value, normalized
	MMeTa1    TypeID = 10  // measured value, normalized + CP24Time2a
	MMeNb1    TypeID = 11  // measured value, scaled
	MMeTb1    TypeID = 12  // measured value, scaled + CP24Time2a
	MMeNc1    TypeID = 13  // measured value, short floating point
	MMeTc1    TypeID = 14  // measured value, short floating point + CP24Time2a
	MItNa1    TypeID = 15  // integrated totals
	MSpTb1    TypeID = 30  // single-point information + CP56Time2a
	MDpTb1    TypeID = 31  // double-point information + CP56Time2a
	MMeTf1    TypeID = 36  // measured value, short floating point + CP56Time2a
	CScNa1    TypeID = 45  // single command
	CDcNa1    TypeID = 46  // double command
	CRcNa1    TypeID = 47  // regulating step command
	CSeNa1    TypeID = 48  // setpoint command, normalized
	CSeNb1    TypeID = 49  // setpoint command, scaled
	CSeNc1    TypeID = 50  // setpoint command, short floating point
	CBoNa1    TypeID = 51  // bitstring command
	CScTa1    TypeID = 58  // single command + CP56Time2a
	CDcTa1    TypeID = 59  // double command + CP56Time2a
	CSeTc1    TypeID = 63  // setpoint command, short floating point + CP56Time2a
	MEiNa1    TypeID = 70  // end of initialization
	CIcNa1    TypeID = 100 // general interrogation command
	CCiNa1    TypeID = 101 // counter interrogation command
	CRdNa1    TypeID = 102 // read command
	CCsNa1    TypeID = 103 // clock synchronization command
	CTsNa1    TypeID = 104 // test command
	CRpNa1    TypeID = 105 // reset process command
	CTsTa1    TypeID = 107 // test command + CP56Time2a
)

var typeIDNames = map[TypeID]string{
	MSpNa1: "M_SP_NA_1", MSpTa1: "M_SP_TA_1", MDpNa1: "M_DP_NA_1", MDpTa1: "M_DP_TA_1",
	MStNa1: "M_ST_NA_1", MBoNa1: "M_BO_NA_1", MMeNa1: "M_ME_NA_1", MMeTa1: "M_ME_TA_1",
	MMeNb1: "M_ME_NB_1", MMeTb1: "M_ME_TB_1", MMeNc1: "M_ME_NC_1", MMeTc1: "M_ME_TC_1",
	MItNa1: "M_IT_NA_1", MSpTb1: "M_SP_TB_1", MDpTb1: "M_DP_TB_1", MMeTf1: "M_ME_TF_1",
	CScNa1: "C_SC_NA_1", CDcNa1: "C_DC_NA_1", CRcNa1: "C_RC_NA_1", CSeNa1: "C_SE_NA_1",
	CSeNb1: "C_SE_NB_1", CSeNc1: "C_SE_NC_1", CBoNa1: "C_BO_NA_1", CScTa1: "C_SC_TA_1",
	CDcTa1: "C_DC_TA_1", CSeTc1: "C_SE_TC_1", MEiNa1: "M_EI_NA_1", CIcNa1: "C_IC_NA_1",
	CCiNa1: "C_CI_NA_1", CRdNa1: "C_RD_NA_1", CCsNa1: "C_CS_NA_1", CTsNa1: "C_TS_NA_1",
	CRpNa1: "C_RP_NA_1", CTsTa1: "C_TS_TA_1",
}

// String renders the standard mnemonic, or a numeric fallback for an
// unrecognized value (which IsSupported will already have rejected upstream
// of normal parsing).
func (t TypeID) String() string {
	if name, ok := typeIDNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TypeID(%d)", uint8(t))
}

// IsSupported reports whether t is one of the type identifiers this engine
// recognizes.
func (t TypeID) IsSupported() bool {
	_, ok := typeIDNames[t]
	return ok
}

/*
COT (Cause of Transmission, 6 bits) explains why an ASDU was sent. Combined
with the test and negative bits (top two bits of the same wire byte) it
lets a receiver route, and a command confirmation interpret, each ASDU.
*/
type COT uint8

const (
	CotPeriodic     COT = 1
	CotBackground   COT = 2
	CotSpontaneous  COT = 3
	CotInitialized  COT = 4
	CotRequest      COT = 5
	CotActivation   COT = 6
	CotActConfirm   COT = 7
	CotDeactivation COT = 8
	CotDeactConfirm COT = 9
	CotActTerm      COT = 10
	CotRemoteCmd    COT = 11
	CotLocalCmd     COT = 12
	CotFileTransfer COT = 13

	CotInterrogated   COT = 20 // station interrogation
	CotInterrogated1  COT = 21
	CotInterrogated2  COT = 22
	CotInterrogated3  COT = 23
	CotInterrogated4  COT = 24
	CotInterrogated5  COT = 25
	CotInterrogated6  COT = 26
	CotInterrogated7  COT = 27
	CotInterrogated8  COT = 28
	CotInterrogated9  COT = 29
	CotInterrogated10 COT = 30
	CotInterrogated11 COT = 31
	CotInterrogated12 COT = 32
	CotInterrogated13 COT = 33
	CotInterrogated14 COT = 34
	CotInterrogated15 COT = 35
	CotInterrogated16 COT = 36

	CotCounterGeneral COT = 37
	CotCounter1       COT = 38
	CotCounter2       COT = 39
	CotCounter3       COT = 40
	CotCounter4       COT = 41

	CotUnknownType   COT = 44
	CotUnknownCause  COT = 45
	CotUnknownAsdu   COT = 46
	CotUnknownObject COT = 47
)

// IsSupported reports whether c falls in the closed set of COT values this
// engine accepts (1-13, 20-41, 44-47); everything else is a protocol error.
func (c COT) IsSupported() bool {
	switch {
	case c >= 1 && c <= 13:
		return true
	case c >= 20 && c <= 41:
		return true
	case c >= 44 && c <= 47:
		return true
	default:
		return false
	}
}

// IsNegativeConfirm reports whether c is one of the diagnostic-negative
// causes (44-47) that always indicate a rejected command.
func (c COT) IsNegativeConfirm() bool {
	return c >= 44 && c <= 47
}

// isCommandType reports whether t is a control-direction command type sent
// against a single addressable IOA (as opposed to a system-info type like
// interrogation, clock sync or a file transfer type).
func isCommandType(t TypeID) bool {
	switch t {
	case CScNa1, CDcNa1, CRcNa1, CSeNa1, CSeNb1, CSeNc1, CBoNa1, CScTa1, CDcTa1, CSeTc1:
		return true
	default:
		return false
	}
}

// isInterrogationType reports whether t is a general or counter
// interrogation command, the two types that carry an act-term.
func isInterrogationType(t TypeID) bool {
	return t == CIcNa1 || t == CCiNa1
}
