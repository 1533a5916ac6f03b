// Package manifest reads the client pose mapping table and writes the
// delivery manifest that accompanies each proof sheet.
//
// The mapping table (chunk_mappings.csv) is maintained by production in
// a spreadsheet and correlates internal acquisition pose codes with the
// client's shape names. The client column is frequently blank, in which
// case the internal name is delivered as-is. Note the header spells
// "AQUISITION" the way the spreadsheet does.
package manifest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Mapping header columns as they appear in chunk_mappings.csv.
const (
	colPXName     = "PX AQUISITION"
	colClientName = "CLIENT SHAPE NAMES"
)

// Mapping resolves internal pose codes to client-facing names.
type Mapping struct {
	clientByPX map[string]string
}

// EmptyMapping returns a mapping with no entries; every lookup falls
// back to the internal name.
func EmptyMapping() *Mapping {
	return &Mapping{clientByPX: map[string]string{}}
}

// LoadMapping parses chunk_mappings.csv. Columns are located by header
// name so production can reorder or add columns freely.
func LoadMapping(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // spreadsheet exports ragged rows

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	if len(records) == 0 {
		return EmptyMapping(), nil
	}

	pxCol, clientCol := -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(name) {
		case colPXName:
			pxCol = i
		case colClientName:
			clientCol = i
		}
	}
	if pxCol < 0 || clientCol < 0 {
		return nil, fmt.Errorf("mapping %s: missing %q or %q column", path, colPXName, colClientName)
	}

	m := EmptyMapping()
	for _, row := range records[1:] {
		if pxCol >= len(row) {
			continue
		}
		px := strings.TrimSpace(row[pxCol])
		if px == "" {
			continue
		}
		client := ""
		if clientCol < len(row) {
			client = strings.TrimSpace(row[clientCol])
		}
		m.clientByPX[px] = client
	}
	return m, nil
}

// Label returns the client name for a pose code. Blank client names and
// poses outside the table fall back to the internal code.
func (m *Mapping) Label(px string) string {
	if client, ok := m.clientByPX[px]; ok && client != "" {
		return client
	}
	return px
}

// Entry is one row of the delivery manifest.
type Entry struct {
	TakeName   string // client-facing pose label
	Take       string // take token, e.g. "tk2"
	PXTakeName string // full internal take directory name
	Order      int
}

// WriteDelivery writes the delivery manifest CSV for a proof sheet.
func WriteDelivery(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"take name", "take", "px take name", "order"}); err != nil {
		return fmt.Errorf("write manifest header: %w", err)
	}
	for _, e := range entries {
		row := []string{e.TakeName, e.Take, e.PXTakeName, strconv.Itoa(e.Order)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write manifest row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush manifest: %w", err)
	}
	return f.Close()
}
