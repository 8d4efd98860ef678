package velocity

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/siggen-go/siggen/sim"
)

// RawTable is a parsed drift velocity file: measured speeds at the reference
// temperature plus the temperature-model parameters for each carrier.
type RawTable struct {
	Rows     []Row
	Electron TemperatureModel
	Hole     TemperatureModel
}

// LoadRawTable reads a drift velocity file from disk.
func LoadRawTable(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open velocity table: %v", sim.ErrMalformedTable, err)
	}
	defer f.Close()
	return ParseRawTable(f, path)
}

func parseFloats(fields []string) ([]float64, error) {
	vals := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// ParseRawTable parses a drift velocity table. Each data line holds seven numbers,
// "E e100 e110 e111 h100 h110 h111", with E strictly increasing. Lines starting with
// '#' are comments. The data may be followed by temperature-model lines
// "e mu0 pwr b theta" and "h mu0 pwr b theta"; missing ones keep the defaults.
func ParseRawTable(r io.Reader, name string) (*RawTable, error) {
	raw := &RawTable{Electron: DefaultElectronModel(), Hole: DefaultHoleModel()}
	sc := bufio.NewScanner(r)
	lineno := 0
	inParams := false
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if line[0] == 'e' || line[0] == 'h' {
			inParams = true
			if err := raw.parseModelLine(fields); err != nil {
				return nil, fmt.Errorf("%w: %s line %d: %v", sim.ErrMalformedTable, name, lineno, err)
			}
			continue
		}
		if inParams {
			return nil, fmt.Errorf("%w: %s line %d: velocity data after temperature parameters", sim.ErrMalformedTable, name, lineno)
		}
		if len(fields) != 7 {
			return nil, fmt.Errorf("%w: %s line %d: want 7 fields, got %d", sim.ErrMalformedTable, name, lineno, len(fields))
		}
		v, err := parseFloats(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", sim.ErrMalformedTable, name, lineno, err)
		}
		row := Row{E: v[0], E100: v[1], E110: v[2], E111: v[3], H100: v[4], H110: v[5], H111: v[6]}
		if n := len(raw.Rows); n > 0 && row.E <= raw.Rows[n-1].E {
			return nil, fmt.Errorf("%w: %s line %d: field %v does not increase (previous %v)", sim.ErrMalformedTable, name, lineno, row.E, raw.Rows[n-1].E)
		}
		raw.Rows = append(raw.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", sim.ErrMalformedTable, name, err)
	}
	if len(raw.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no velocity data", sim.ErrMalformedTable, name)
	}

	logrus.Infof("Drift velocity table %s has %d rows of data", name, len(raw.Rows))
	logrus.Debugf("  %10s %8s %8s %8s %8s %8s %8s", "e", "e100", "e110", "e111", "h100", "h110", "h111")
	for _, row := range raw.Rows {
		logrus.Debugf("  %10.3f %8.3f %8.3f %8.3f %8.3f %8.3f %8.3f", row.E, row.E100, row.E110, row.E111, row.H100, row.H110, row.H111)
	}
	return raw, nil
}

func (raw *RawTable) parseModelLine(fields []string) error {
	if len(fields) != 5 || (fields[0] != "e" && fields[0] != "h") {
		return fmt.Errorf("temperature parameters must be \"e|h mu0 pwr b theta\", got %q", strings.Join(fields, " "))
	}
	v, err := parseFloats(fields[1:])
	if err != nil {
		return err
	}
	m := TemperatureModel{Mu0: v[0], Pwr: v[1], B: v[2], Theta: v[3]}
	if fields[0] == "e" {
		raw.Electron = m
		logrus.Debugf("electrons: mu_0 = %.2e x T^%.4f  B = %.2e  Theta = %.0f", m.Mu0, m.Pwr, m.B, m.Theta)
	} else {
		raw.Hole = m
		logrus.Debugf("    holes: mu_0 = %.2e x T^%.4f  B = %.2e  Theta = %.0f", m.Mu0, m.Pwr, m.B, m.Theta)
	}
	return nil
}
