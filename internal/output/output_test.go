package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/featset"
)

func fptr(v float64) *float64 { return &v }

func sampleRows() []domain.FeatureRow {
	return []domain.FeatureRow{
		{
			Symbol:   "BTCUSDT",
			BucketMs: 60_000,
			NTrades:  fptr(12),
			Mid:      fptr(100.25),
			Label:    1,
		},
		{
			Symbol:   "ETHUSDT",
			BucketMs: 120_000,
			Mid:      fptr(10.5),
			Ret1m:    fptr(-0.001),
			Label:    -1,
		},
	}
}

func TestWriteCSV_HeaderAndNullCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")

	if err := WriteCSV(path, sampleRows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	header := records[0]
	if header[0] != "symbol" || header[1] != "bucket_start_ms" {
		t.Errorf("unexpected index header %v", header[:2])
	}
	if header[len(header)-1] != featset.LabelColumn {
		t.Errorf("expected label column last, got %q", header[len(header)-1])
	}
	if len(header) != 2+len(featset.Features)+1 {
		t.Errorf("expected %d columns, got %d", 2+len(featset.Features)+1, len(header))
	}

	row := records[1]
	if row[0] != "BTCUSDT" || row[1] != "60000" {
		t.Errorf("unexpected index cells %v", row[:2])
	}
	if row[2] != "12" {
		t.Errorf("expected n_trades cell 12, got %q", row[2])
	}
	// qty_sum is null on the first row.
	if row[3] != "" {
		t.Errorf("expected empty cell for null value, got %q", row[3])
	}
	if row[len(row)-1] != "1" {
		t.Errorf("expected label cell 1, got %q", row[len(row)-1])
	}
}

func TestWriteParquet_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.parquet")
	rows := sampleRows()

	if err := WriteParquet(path, rows); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	got, err := parquet.ReadFile[domain.FeatureRow](path)
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Symbol != "BTCUSDT" || got[0].BucketMs != 60_000 {
		t.Errorf("unexpected first row key (%s, %d)", got[0].Symbol, got[0].BucketMs)
	}
	if got[0].NTrades == nil || *got[0].NTrades != 12 {
		t.Errorf("expected n_trades 12, got %v", got[0].NTrades)
	}
	if got[0].QtySum != nil {
		t.Errorf("expected null qty_sum to survive the round trip, got %f", *got[0].QtySum)
	}
	if got[1].Label != -1 {
		t.Errorf("expected label -1, got %d", got[1].Label)
	}
}

func TestWriteDescriptor_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	rows := sampleRows()
	desc := featset.BuildDescriptor(rows, 30)

	if err := WriteDescriptor(path, desc); err != nil {
		t.Fatalf("WriteDescriptor: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got featset.Descriptor
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Version != featset.SchemaVersion || got.RowCount != 2 || got.HorizonSeconds != 30 {
		t.Errorf("descriptor fields did not round-trip: %+v", got)
	}
	if len(got.FeatureCols) != len(featset.Features) {
		t.Errorf("expected %d feature cols, got %d", len(featset.Features), len(got.FeatureCols))
	}
}

func TestWriteAtomic_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()

	if err := WriteCSV(filepath.Join(dir, "features.csv"), sampleRows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly the committed file, got %d entries", len(entries))
	}
}

func TestWriteAtomic_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")

	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if err := WriteCSV(path, sampleRows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), "stale") {
		t.Error("expected old contents replaced")
	}
}
