package observability

import (
	"testing"

	"github.com/Smart-Ag/corncobs/internal/testutil/testlog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordFrameRead(12)
	RecordFrameWritten(7)
	RecordNoFrame("desync")
	RecordNoFrame("eof")
	RecordDecodeError()
	RecordChecksumError()
}
