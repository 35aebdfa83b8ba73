package hadronia

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	lundHeaderColumns   = 10
	lundParticleColumns = 14
)

// LundReader reads events from a LUND text file: one header line followed
// by one line per particle.
type LundReader struct {
	scanner  *bufio.Scanner
	line     int
	EvtCount int
}

func NewLundReader(r io.Reader) *LundReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &LundReader{scanner: scanner}
}

// OpenLund opens filename for reading. The caller closes the returned file.
func OpenLund(filename string) (*LundReader, *os.File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	return NewLundReader(file), file, nil
}

func (r *LundReader) nextFields() ([]string, error) {
	for r.scanner.Scan() {
		r.line++
		fields := strings.Fields(r.scanner.Text())
		if len(fields) == 0 {
			continue
		}
		return fields, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Next returns the next event, or io.EOF when the input is exhausted.
func (r *LundReader) Next() (Event, error) {
	var event Event
	fields, err := r.nextFields()
	if err != nil {
		return event, err
	}
	if err := parseLundHeader(fields, &event); err != nil {
		return event, &ErrParseLund{Line: r.line, Err: err}
	}

	event.Particles = make([]Particle, 0, event.NParticles)
	for i := 0; i < event.NParticles; i++ {
		fields, err := r.nextFields()
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return event, &ErrParseLund{Line: r.line, Err: err}
		}
		particle, err := parseLundParticle(fields)
		if err != nil {
			return event, &ErrParseLund{Line: r.line, Err: err}
		}
		event.Particles = append(event.Particles, particle)
	}
	event.Number = r.EvtCount
	r.EvtCount++
	return event, nil
}

func parseLundHeader(fields []string, event *Event) error {
	if len(fields) < lundHeaderColumns {
		return fmt.Errorf("header has %d columns, want %d", len(fields), lundHeaderColumns)
	}
	var p columnParser
	event.NParticles = p.toInt(fields[0])
	event.TargetMass = p.toFloat(fields[1])
	event.TargetA = p.toInt(fields[2])
	event.TargetPolarization = p.toInt(fields[3])
	event.BeamPolarization = p.toInt(fields[4])
	event.BeamType = p.toInt(fields[5])
	event.BeamEnergy = p.toFloat(fields[6])
	event.NucleonID = p.toInt(fields[7])
	event.ProcessID = p.toInt(fields[8])
	event.Weight = p.toFloat(fields[9])
	if p.err == nil && event.NParticles < 0 {
		return fmt.Errorf("negative particle count %d", event.NParticles)
	}
	return p.err
}

func parseLundParticle(fields []string) (Particle, error) {
	if len(fields) < lundParticleColumns {
		return Particle{}, fmt.Errorf("particle has %d columns, want %d", len(fields), lundParticleColumns)
	}
	var p columnParser
	particle := Particle{
		Index:         p.toInt(fields[0]),
		Lifetime:      p.toFloat(fields[1]),
		Status:        p.toInt(fields[2]),
		Pid:           p.toInt(fields[3]),
		Parent:        p.toInt(fields[4]),
		FirstDaughter: p.toInt(fields[5]),
		Px:            p.toFloat(fields[6]),
		Py:            p.toFloat(fields[7]),
		Pz:            p.toFloat(fields[8]),
		E:             p.toFloat(fields[9]),
		Mass:          p.toFloat(fields[10]),
		Vx:            p.toFloat(fields[11]),
		Vy:            p.toFloat(fields[12]),
		Vz:            p.toFloat(fields[13]),
	}
	particle.DiquarkDescendant = particle.Lifetime < 0
	return particle, p.err
}

// columnParser keeps the first conversion error.
type columnParser struct {
	err error
}

func (p *columnParser) toFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

// toInt accepts integral values written as floats ("1.0").
func (p *columnParser) toInt(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	v, err := strconv.ParseFloat(s, 64)
	if err == nil && v != math.Trunc(v) {
		err = fmt.Errorf("%q is not an integer", s)
	}
	if err != nil && p.err == nil {
		p.err = err
	}
	return int(v)
}
