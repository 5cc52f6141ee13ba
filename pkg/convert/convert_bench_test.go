package convert

import (
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/FrankKr/power-grid-model/pkg/meta"
	"github.com/FrankKr/power-grid-model/pkg/models"
)

func benchConverter() *Converter {
	log := zap.NewNop()
	return New(meta.NewRegistry(log), log)
}

func benchRecordSet(nodes int) models.RecordSet {
	records := make([]models.Record, nodes)
	for i := range records {
		records[i] = models.Record{"id": i, "u_rated": 10500.0}
	}
	return models.RecordSet{"node": records}
}

func BenchmarkEncodeSingle(b *testing.B) {
	c := benchConverter()
	rs := benchRecordSet(1000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.EncodeSingle(meta.DataTypeInput, rs); err != nil {
			b.Fatal(err)
		}
	}
	b.ReportMetric(float64(1000*b.N), "records/op")
}

func BenchmarkDecodeSingle(b *testing.B) {
	c := benchConverter()
	ds, err := c.EncodeSingle(meta.DataTypeInput, benchRecordSet(1000))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.DecodeSingle(ds); err != nil {
			b.Fatal(err)
		}
	}
	b.ReportMetric(float64(1000*b.N), "records/op")
}

func BenchmarkEncodeBatchSparse(b *testing.B) {
	c := benchConverter()
	sets := make([]models.RecordSet, 100)
	for i := range sets {
		records := make([]models.Record, i%7+1)
		for j := range records {
			records[j] = models.Record{"id": j, "p_specified": float64(i)}
		}
		sets[i] = models.RecordSet{"sym_load": records}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.EncodeBatch(meta.DataTypeUpdate, sets); err != nil {
			b.Fatal(err)
		}
	}
}

func ExampleConverter() {
	c := New(meta.NewRegistry(zap.NewNop()), zap.NewNop())

	rs := models.RecordSet{"node": {
		{"id": 1, "u_rated": 10500.0},
		{"id": 2},
	}}
	ds, err := c.EncodeSingle(meta.DataTypeInput, rs)
	if err != nil {
		panic(err)
	}

	decoded, err := c.DecodeSingle(ds)
	if err != nil {
		panic(err)
	}
	fmt.Println(decoded["node"][0])
	fmt.Println(decoded["node"][1])
	// Output:
	// map[id:1 u_rated:10500]
	// map[id:2]
}
