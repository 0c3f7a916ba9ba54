package observability

import (
	"testing"
	"time"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	t.Run("NewMetrics", func(t *testing.T) {
		if m == nil {
			t.Fatal("NewMetrics returned nil")
		}
		if m.RequestsTotal == nil {
			t.Error("RequestsTotal not initialized")
		}
		if m.VectorsInserted == nil {
			t.Error("VectorsInserted not initialized")
		}
		if m.SearchRecall == nil {
			t.Error("SearchRecall not initialized")
		}
	})

	t.Run("RecordRequest", func(t *testing.T) {
		m.RecordRequest("Insert", "success", 100*time.Millisecond)
		m.RecordRequest("Search", "error", 50*time.Millisecond)
	})

	t.Run("RecordError", func(t *testing.T) {
		m.RecordError("Insert", "validation_error")
		m.RecordError("Search", "timeout")
	})

	t.Run("RecordInsertDeleteUpdate", func(t *testing.T) {
		m.RecordInsert(1)
		m.RecordInsert(1000)
		m.RecordDelete(1)
		m.RecordUpdate(1)
	})

	t.Run("RecordSearch", func(t *testing.T) {
		m.RecordSearch(50*time.Millisecond, 10)
		m.RecordRecall(0.97)
	})

	t.Run("UpdateIndexSize", func(t *testing.T) {
		m.UpdateIndexSize(1000)
		m.UpdateIndexMaxLayer(5)
	})

	t.Run("RecordBatch", func(t *testing.T) {
		m.RecordBatchInsert(500*time.Millisecond, 100)
		m.RecordBatchDelete(200*time.Millisecond, 50)
	})

	t.Run("UpdateSystemMetrics", func(t *testing.T) {
		m.UpdateGoroutineCount(100)
		m.UpdateMemoryUsage(1024 * 1024 * 512)
	})
}
