package field

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"

	"github.com/siggen-go/siggen/sim"
)

// zstdFile closes both the decoder and the underlying file.
type zstdFile struct {
	io.ReadCloser
	f *os.File
}

func (z zstdFile) Close() error {
	return errors.Join(z.ReadCloser.Close(), z.f.Close())
}

// openTable opens a table file, decompressing it when the name ends in ".zst".
func openTable(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sim.ErrMalformedTable, err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: open zstd stream %q: %v", sim.ErrMalformedTable, path, err)
	}
	return zstdFile{ReadCloser: dec.IOReadCloser(), f: f}, nil
}

// scanRows calls fn with the numeric fields of every non-comment line. Each line
// must hold at least want fields.
func scanRows(r io.Reader, name string, want int, fn func(lineno int, vals []float64) error) error {
	sc := bufio.NewScanner(r)
	vals := make([]float64, want)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < want {
			return fmt.Errorf("%w: %s line %d: want %d fields, got %d", sim.ErrMalformedTable, name, lineno, want, len(fields))
		}
		for i := 0; i < want; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return fmt.Errorf("%w: %s line %d field %d: %v", sim.ErrMalformedTable, name, lineno, i+1, err)
			}
			vals[i] = v
		}
		if err := fn(lineno, vals); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: reading %s: %v", sim.ErrMalformedTable, name, err)
	}
	return nil
}

// ReadFieldSlice fills impurity slice (grad, imp) of dst from a field table with
// lines "r z V |E| Er Ez". Nodes outside the crystal are left empty.
func ReadFieldSlice(r io.Reader, name string, grid Grid, geom sim.Geometry, dst *Table4, grad, imp int) error {
	var rows, offGrid int
	err := scanRows(r, name, 6, func(lineno int, v []float64) error {
		pt := sim.CylPoint{R: v[0], Z: v[1]}
		n := grid.NodeOf(pt.R, pt.Z)
		if n.R < 0 || n.R >= grid.RLen || n.Z < 0 || n.Z >= grid.ZLen {
			offGrid++
			return nil
		}
		if geom.Outside(pt) {
			return nil
		}
		rows++
		return dst.Set(n.R, n.Z, grad, imp, v[4], v[5])
	})
	if err != nil {
		return err
	}
	if offGrid > 0 {
		logrus.Warnf("field table %s: %d nodes outside grid %v were skipped", name, offGrid, grid)
	}
	if rows == 0 {
		return fmt.Errorf("%w: field table %s has no nodes inside the crystal", sim.ErrMalformedTable, name)
	}
	logrus.Infof("Read %d electric field nodes from %s", rows, name)
	return nil
}

// ReadWeightingPotential reads a table with lines "r z wp".
func ReadWeightingPotential(r io.Reader, name string, grid Grid) (*Table2, error) {
	wp := NewTable2(grid.RLen, grid.ZLen)
	var rows int
	err := scanRows(r, name, 3, func(lineno int, v []float64) error {
		n := grid.NodeOf(v[0], v[1])
		if n.R < 0 || n.R >= grid.RLen || n.Z < 0 || n.Z >= grid.ZLen {
			return nil
		}
		rows++
		return wp.Set(n.R, n.Z, v[2])
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: weighting potential %s has no nodes on the grid", sim.ErrMalformedTable, name)
	}
	logrus.Infof("Read %d weighting potential nodes from %s", rows, name)
	return wp, nil
}

// LoadFieldTable builds the 4-D field table from the configured per-slice files.
func LoadFieldTable(files []sim.FieldFile, grid Grid, geom sim.Geometry, axes ImpurityAxes) (*Table4, error) {
	t, err := NewTable4(Dims4{R: grid.RLen, Z: grid.ZLen, Grads: axes.NumGrads, Imps: axes.NumImps})
	if err != nil {
		return nil, err
	}
	for _, ff := range files {
		if err := loadSlice(ff, grid, geom, t); err != nil {
			return nil, fmt.Errorf("load field table: %w", err)
		}
	}
	return t, nil
}

func loadSlice(ff sim.FieldFile, grid Grid, geom sim.Geometry, t *Table4) error {
	rc, err := openTable(ff.Path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return ReadFieldSlice(rc, ff.Path, grid, geom, t, ff.GradIndex, ff.ImpIndex)
}

// LoadWeightingPotential reads the weighting potential file at path.
func LoadWeightingPotential(path string, grid Grid) (*Table2, error) {
	rc, err := openTable(path)
	if err != nil {
		return nil, fmt.Errorf("load weighting potential: %w", err)
	}
	defer rc.Close()
	return ReadWeightingPotential(rc, path, grid)
}
