package records

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadSnapshot reads the consolidated tabular file (plain or gzip CSV) into
// memory. Called once at process start; the returned slice is treated as
// immutable for the process lifetime.
func LoadSnapshot(path string) ([]ProjectRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open snapshot gzip: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return ParseSnapshot(reader)
}

// ParseSnapshot decodes snapshot CSV content. Unknown columns are ignored and
// unparsable numeric cells read as zero; schema drift degrades prediction
// quality, it must not take the process down.
func ParseSnapshot(r io.Reader) ([]ProjectRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[Normalize(name)] = i
	}
	if _, ok := idx["id_obra"]; !ok {
		return nil, fmt.Errorf("snapshot missing id_obra column")
	}

	var out []ProjectRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot row: %w", err)
		}

		cell := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		num := func(name string) float64 {
			v, _ := strconv.ParseFloat(strings.TrimSpace(cell(name)), 64)
			return v
		}

		rec := ProjectRecord{
			Identifier:          cell("id_obra"),
			City:                cell("cidade"),
			SoilType:            cell("tipo_solo"),
			Stage:               cell("etapa"),
			Material:            cell("material"),
			RainLevel:           num("nivel_chuva"),
			Budget:              num("orcamento_estimado"),
			SupplierRating:      num("rating_confiabilidade"),
			SupplierFailureRate: num("taxa_insucesso_fornecedor"),
			Complexity:          num("complexidade_obra"),
			StageRisk:           num("risco_etapa"),
		}
		out = append(out, rec.normalized())
	}
	return out, nil
}
