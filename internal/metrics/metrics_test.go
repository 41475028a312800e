package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRecordOperation(t *testing.T) {
	before := counterValue(t, OperationsTotal.WithLabelValues("crop-90", "ok"))
	RecordOperation("crop-90", "", 20*time.Millisecond, Outcome{Outputs: 3, Failed: 1})

	if got := counterValue(t, OperationsTotal.WithLabelValues("crop-90", "ok")); got != before+1 {
		t.Errorf("operations_total: got %v, want %v", got, before+1)
	}
	if got := counterValue(t, FilesTotal.WithLabelValues("crop-90", "output")); got < 3 {
		t.Errorf("files_total output: got %v", got)
	}
}

func TestRecordOperationErrorStatus(t *testing.T) {
	RecordOperation("encrypt-pdf", "NoCredential", time.Millisecond, Outcome{})
	if got := counterValue(t, OperationsTotal.WithLabelValues("encrypt-pdf", "NoCredential")); got < 1 {
		t.Errorf("error status not recorded: %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordOperation("colors", "", time.Millisecond, Outcome{Outputs: 1})

	path := filepath.Join(t.TempDir(), "docbatch.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "docbatch_operations_total") {
		t.Errorf("textfile missing operations counter:\n%s", data)
	}
}
