package json

import (
	"bytes"
	"encoding/json"
	"testing"

	gojson "github.com/goccy/go-json"
)

// Test data shaped like one serialized grid component record.
type testRecord struct {
	ID       int       `json:"id"`
	Node     int       `json:"node"`
	Status   int       `json:"status"`
	P        float64   `json:"p_specified"`
	Q        []float64 `json:"q_specified"`
	Extra    string    `json:"extra"`
	DataType string    `json:"data_type"`
}

func generateTestRecords(n int) []*testRecord {
	records := make([]*testRecord, n)
	for i := 0; i < n; i++ {
		records[i] = &testRecord{
			ID:       i,
			Node:     i + 100,
			Status:   1,
			P:        float64(i) * 1.5e6,
			Q:        []float64{1e5, 2e5, 3e5},
			Extra:    "feeder-7",
			DataType: "input",
		}
	}
	return records
}

// Benchmark standard library json.Marshal
func BenchmarkStdMarshal(b *testing.B) {
	records := generateTestRecords(100)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for _, record := range records {
			_, err := json.Marshal(record)
			if err != nil {
				b.Fatal(err)
			}
		}
	}

	b.ReportMetric(float64(len(records)*b.N), "records/op")
}

// Benchmark goccy/go-json Marshal
func BenchmarkGoccyMarshal(b *testing.B) {
	records := generateTestRecords(100)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for _, record := range records {
			_, err := gojson.Marshal(record)
			if err != nil {
				b.Fatal(err)
			}
		}
	}

	b.ReportMetric(float64(len(records)*b.N), "records/op")
}

// Benchmark pooled encoder
func BenchmarkPooledEncoder(b *testing.B) {
	records := generateTestRecords(100)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		buf := GetBuffer()
		enc := GetEncoder(buf)

		for _, record := range records {
			if err := enc.Encode(record); err != nil {
				b.Fatal(err)
			}
		}

		PutEncoder(enc)
		PutBuffer(buf)
	}

	b.ReportMetric(float64(len(records)*b.N), "records/op")
}

// Test correctness against the standard library
func TestMarshalCorrectness(t *testing.T) {
	record := &testRecord{
		ID:       7,
		Node:     3,
		Status:   1,
		P:        42.5e6,
		Q:        []float64{1, 2, 3},
		Extra:    "substation north",
		DataType: "update",
	}

	stdData, err := json.Marshal(record)
	if err != nil {
		t.Fatal(err)
	}

	optData, err := Marshal(record)
	if err != nil {
		t.Fatal(err)
	}

	// The output should be functionally equivalent
	var stdResult, optResult map[string]interface{}
	if err := json.Unmarshal(stdData, &stdResult); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(optData, &optResult); err != nil {
		t.Fatal(err)
	}

	if stdResult["id"] != optResult["id"] {
		t.Errorf("ID mismatch: %v != %v", stdResult["id"], optResult["id"])
	}
	if stdResult["extra"] != optResult["extra"] {
		t.Errorf("Extra mismatch: %v != %v", stdResult["extra"], optResult["extra"])
	}
}

// Pooled decoders must decode numbers to json.Number, not float64.
func TestDecoderUseNumber(t *testing.T) {
	dec := GetDecoder(bytes.NewReader([]byte(`{"id": 5, "u_rated": 10500.0}`)))
	defer PutDecoder(dec)

	var out map[string]interface{}
	if err := dec.Decode(&out); err != nil {
		t.Fatal(err)
	}

	id, ok := out["id"].(json.Number)
	if !ok {
		t.Fatalf("expected json.Number for id, got %T", out["id"])
	}
	if v, err := id.Int64(); err != nil || v != 5 {
		t.Errorf("id = %v (err %v), want 5", v, err)
	}
}

func TestMarshalToBuffer(t *testing.T) {
	buf, err := MarshalToBuffer(map[string]int{"node": 3})
	if err != nil {
		t.Fatal(err)
	}
	defer PutBuffer(buf)

	var out map[string]int
	if err := Unmarshal(bytes.TrimSpace(buf.Bytes()), &out); err != nil {
		t.Fatal(err)
	}
	if out["node"] != 3 {
		t.Errorf("node = %d, want 3", out["node"])
	}
}
