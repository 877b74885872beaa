package sgfplib

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
)

// Status is the result code returned by every SDK call.
type Status uint32

const (
	ErrorNone              Status = 0
	ErrorCreationFailed    Status = 1
	ErrorFunctionFailed    Status = 2
	ErrorInvalidParam      Status = 3
	ErrorNotUsed           Status = 4
	ErrorDLLLoadFailed     Status = 5
	ErrorDLLLoadFailedDrv  Status = 6
	ErrorDLLLoadFailedAlgo Status = 7
	ErrorSysLoadFailed     Status = 51
	ErrorInitializeFailed  Status = 52
	ErrorLineDropped       Status = 53
	ErrorTimeOut           Status = 54
	ErrorDeviceNotFound    Status = 55
	ErrorDrvLoadFailed     Status = 56
	ErrorWrongImage        Status = 57
	ErrorLackOfBandwidth   Status = 58
	ErrorDevAlreadyOpen    Status = 59
	ErrorGetSNFailed       Status = 60
	ErrorUnsupportedDev    Status = 61
	ErrorFeatNumber        Status = 101
	ErrorInvalidTemplType  Status = 102
	ErrorInvalidTemplate1  Status = 103
	ErrorInvalidTemplate2  Status = 104
	ErrorExtractFail       Status = 105
	ErrorMatchFail         Status = 106
)

// statusNames is keyed by int(Status) so Statuses can walk it in code order.
var statusNames = treemap.NewWithIntComparator()

func init() {
	for s, name := range map[Status]string{
		ErrorNone:              "SGFDX_ERROR_NONE",
		ErrorCreationFailed:    "SGFDX_ERROR_CREATION_FAILED",
		ErrorFunctionFailed:    "SGFDX_ERROR_FUNCTION_FAILED",
		ErrorInvalidParam:      "SGFDX_ERROR_INVALID_PARAM",
		ErrorNotUsed:           "SGFDX_ERROR_NOT_USED",
		ErrorDLLLoadFailed:     "SGFDX_ERROR_DLLLOAD_FAILED",
		ErrorDLLLoadFailedDrv:  "SGFDX_ERROR_DLLLOAD_FAILED_DRV",
		ErrorDLLLoadFailedAlgo: "SGFDX_ERROR_DLLLOAD_FAILED_ALGO",
		ErrorSysLoadFailed:     "SGFDX_ERROR_SYSLOAD_FAILED",
		ErrorInitializeFailed:  "SGFDX_ERROR_INITIALIZE_FAILED",
		ErrorLineDropped:       "SGFDX_ERROR_LINE_DROPPED",
		ErrorTimeOut:           "SGFDX_ERROR_TIME_OUT",
		ErrorDeviceNotFound:    "SGFDX_ERROR_DEVICE_NOT_FOUND",
		ErrorDrvLoadFailed:     "SGFDX_ERROR_DRVLOAD_FAILED",
		ErrorWrongImage:        "SGFDX_ERROR_WRONG_IMAGE",
		ErrorLackOfBandwidth:   "SGFDX_ERROR_LACK_OF_BANDWIDTH",
		ErrorDevAlreadyOpen:    "SGFDX_ERROR_DEV_ALREADY_OPEN",
		ErrorGetSNFailed:       "SGFDX_ERROR_GETSN_FAILED",
		ErrorUnsupportedDev:    "SGFDX_ERROR_UNSUPPORTED_DEV",
		ErrorFeatNumber:        "SGFDX_ERROR_FEAT_NUMBER",
		ErrorInvalidTemplType:  "SGFDX_ERROR_INVALID_TEMPLATE_TYPE",
		ErrorInvalidTemplate1:  "SGFDX_ERROR_INVALID_TEMPLATE1",
		ErrorInvalidTemplate2:  "SGFDX_ERROR_INVALID_TEMPLATE2",
		ErrorExtractFail:       "SGFDX_ERROR_EXTRACT_FAIL",
		ErrorMatchFail:         "SGFDX_ERROR_MATCH_FAIL",
	} {
		statusNames.Put(int(s), name)
	}
}

// OK reports whether s is the SDK's "no error" status.
func (s Status) OK() bool { return s == ErrorNone }

func (s Status) String() string {
	if name, found := statusNames.Get(int(s)); found {
		return name.(string)
	}
	return fmt.Sprintf("SGFDX_ERROR_%d", uint32(s))
}

// Statuses lists every known status in ascending code order.
func Statuses() []Status {
	keys := statusNames.Keys()
	out := make([]Status, 0, len(keys))
	for _, k := range keys {
		out = append(out, Status(k.(int)))
	}
	return out
}

// StatusError wraps a non-zero SDK status returned from call.
type StatusError struct {
	Call   string
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sgfplib: %s: %s (%d)", e.Call, e.Status, uint32(e.Status))
}

// Check returns nil for ErrorNone and a *StatusError otherwise.
func Check(call string, s Status) error {
	if s.OK() {
		return nil
	}
	return &StatusError{Call: call, Status: s}
}
