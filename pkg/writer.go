package hadronia

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/hdf5"
)

// RunInfo describes the analysis that produced a file.
type RunInfo struct {
	ID         uuid.UUID
	Criteria   string
	Mode       Mode
	Acceptance string
	Input      string
	Cuts       Cuts
	Started    time.Time
}

func NewRunInfo(config Configuration) RunInfo {
	return RunInfo{
		ID:         uuid.New(),
		Criteria:   config.Criteria,
		Mode:       config.Mode,
		Acceptance: config.Acceptance,
		Input:      config.FileIn,
		Cuts:       config.Cuts,
		Started:    time.Now(),
	}
}

// Writer stores records in an HDF5 file:
//
//	/Run/runInfo         one row describing the run
//	/Run/cuts            the cuts applied
//	/Run/events          one row per event with at least one record
//	/Hadronia/candidates one row per record, event and hadron observables
//	/Hadronia/members    the particles behind each candidate
type Writer struct {
	File             *hdf5.File
	Filename         string
	Mode             Mode
	RunGroup         *hdf5.Group
	HadroniaGroup    *hdf5.Group
	RunInfoTable     *hdf5.Dataset
	CutsTable        *hdf5.Dataset
	EventTable       *hdf5.Dataset
	CandidateTable   *hdf5.Dataset
	MemberTable      *hdf5.Dataset
	EvtCounter       int
	CandidateCounter int
	MemberCounter    int
}

func NewWriter(filename string, info RunInfo, compressionLevel int) (*Writer, error) {
	writer := &Writer{Filename: filename, Mode: info.Mode}
	if err := writer.create(info, compressionLevel); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	return writer, nil
}

func (w *Writer) create(info RunInfo, compressionLevel int) error {
	message := fmt.Sprintf("Creating file: %s", w.Filename)
	logger.Info(message, "hdf5writer")

	var err error
	if w.File, err = openFile(w.Filename); err != nil {
		return err
	}
	if w.RunGroup, err = createGroup(w.File, "Run"); err != nil {
		return err
	}
	if w.HadroniaGroup, err = createGroup(w.File, "Hadronia"); err != nil {
		return err
	}
	if w.RunInfoTable, err = createTable(w.RunGroup, "runInfo", RunInfoHDF5{}, compressionLevel); err != nil {
		return err
	}
	if w.CutsTable, err = createTable(w.RunGroup, "cuts", CutHDF5{}, compressionLevel); err != nil {
		return err
	}
	if w.EventTable, err = createTable(w.RunGroup, "events", EventHDF5{}, compressionLevel); err != nil {
		return err
	}
	var rowType interface{}
	switch w.Mode {
	case SingleHadron:
		rowType = SingleHadronHDF5{}
	case DiHadron:
		rowType = DiHadronHDF5{}
	default:
		return &ErrUnknownMode{Mode: w.Mode}
	}
	if w.CandidateTable, err = createTable(w.HadroniaGroup, "candidates", rowType, compressionLevel); err != nil {
		return err
	}
	if w.MemberTable, err = createTable(w.HadroniaGroup, "members", MemberHDF5{}, compressionLevel); err != nil {
		return err
	}

	if err := writeEntryToTable(w.RunInfoTable, runInfoRow(info), 0); err != nil {
		return fmt.Errorf("error writing run info: %w", err)
	}
	cuts := cutRows(info.Cuts)
	if err := writeArrayToTable(w.CutsTable, &cuts, 0); err != nil {
		return fmt.Errorf("error writing cuts: %w", err)
	}
	return nil
}

func runInfoRow(info RunInfo) RunInfoHDF5 {
	return RunInfoHDF5{
		RunID:      convertToHdf5String(info.ID.String()),
		Criteria:   convertToHdf5String(info.Criteria),
		Mode:       convertToHdf5String(info.Mode.String()),
		Acceptance: convertToHdf5String(info.Acceptance),
		Input:      convertToHdf5String(info.Input),
		Started:    info.Started.Unix(),
	}
}

func cutRows(cuts Cuts) []CutHDF5 {
	rows := make([]CutHDF5, len(cuts))
	for i, c := range cuts {
		rows[i] = CutHDF5{
			Variable: convertToHdf5String(c.Variable),
			Kind:     convertToHdf5String(c.Kind.String()),
			Min:      c.Min,
			Max:      c.Max,
		}
	}
	return rows
}

// Write implements RecordSink.
func (w *Writer) Write(event *Event, records []Record) error {
	evt := EventHDF5{
		EvtNumber:   int32(event.Number),
		NParticles:  int32(len(event.Particles)),
		ProcessID:   int32(event.ProcessID),
		Weight:      event.Weight,
		NCandidates: int32(len(records)),
	}
	if err := writeEntryToTable(w.EventTable, evt, w.EvtCounter); err != nil {
		return fmt.Errorf("error writing event row: %w", err)
	}
	w.EvtCounter++

	members := memberRows(event, records)
	var err error
	switch w.Mode {
	case SingleHadron:
		rows, convErr := singleHadronRows(records)
		if convErr != nil {
			return convErr
		}
		err = writeArrayToTable(w.CandidateTable, &rows, w.CandidateCounter)
	case DiHadron:
		rows, convErr := diHadronRows(records)
		if convErr != nil {
			return convErr
		}
		err = writeArrayToTable(w.CandidateTable, &rows, w.CandidateCounter)
	}
	if err != nil {
		return fmt.Errorf("error writing candidate rows: %w", err)
	}
	w.CandidateCounter += len(records)

	if err := writeArrayToTable(w.MemberTable, &members, w.MemberCounter); err != nil {
		return fmt.Errorf("error writing member rows: %w", err)
	}
	w.MemberCounter += len(members)
	return nil
}

func singleHadronRows(records []Record) ([]SingleHadronHDF5, error) {
	// The array MUST be allocated at creation, HDF5 writes from its backing store
	rows := make([]SingleHadronHDF5, len(records))
	for i, r := range records {
		h, ok := r.Hadron.(SingleHadronKinematics)
		if !ok {
			return nil, fmt.Errorf("record %d of event %d is not a single hadron", i, r.EventNumber)
		}
		e := r.Event
		rows[i] = SingleHadronHDF5{
			EvtNumber:          int32(r.EventNumber),
			Candidate:          int32(i),
			X:                  e.X,
			Y:                  e.Y,
			Q2:                 e.Q2,
			W:                  e.W,
			Nu:                 e.Nu,
			Gamma:              e.Gamma,
			Epsilon:            e.Epsilon,
			DepolA:             e.DepolA,
			DepolB:             e.DepolB,
			DepolC:             e.DepolC,
			DepolV:             e.DepolV,
			DepolW:             e.DepolW,
			BeamPolarization:   int32(e.BeamPolarization),
			TargetPolarization: int32(e.TargetPolarization),
			PT:                 h.PT,
			Z:                  h.Z,
			Phi:                h.Phi,
			Mh:                 h.Mh,
			XF:                 h.XF,
			Mx:                 h.Mx,
			ParentPid:          int32(h.ParentPid),
			GrandParentPid:     int32(h.GrandParentPid),
			Status:             int32(h.Status),
		}
	}
	return rows, nil
}

func diHadronRows(records []Record) ([]DiHadronHDF5, error) {
	rows := make([]DiHadronHDF5, len(records))
	for i, r := range records {
		h, ok := r.Hadron.(DiHadronKinematics)
		if !ok {
			return nil, fmt.Errorf("record %d of event %d is not a dihadron", i, r.EventNumber)
		}
		e := r.Event
		rows[i] = DiHadronHDF5{
			EvtNumber:          int32(r.EventNumber),
			Candidate:          int32(i),
			X:                  e.X,
			Y:                  e.Y,
			Q2:                 e.Q2,
			W:                  e.W,
			Nu:                 e.Nu,
			Gamma:              e.Gamma,
			Epsilon:            e.Epsilon,
			DepolA:             e.DepolA,
			DepolB:             e.DepolB,
			DepolC:             e.DepolC,
			DepolV:             e.DepolV,
			DepolW:             e.DepolW,
			BeamPolarization:   int32(e.BeamPolarization),
			TargetPolarization: int32(e.TargetPolarization),
			PT1:                h.PT1,
			PT2:                h.PT2,
			PT:                 h.PT,
			Z1:                 h.Z1,
			Z2:                 h.Z2,
			Z:                  h.Z,
			PhiH:               h.PhiH,
			PhiRT:              h.PhiRT,
			PhiRperp:           h.PhiRperp,
			Th:                 h.Th,
			Mh:                 h.Mh,
			XF1:                h.XF1,
			XF2:                h.XF2,
			XF:                 h.XF,
			Mx:                 h.Mx,
			ParentPid1:         int32(h.ParentPid1),
			GrandParentPid1:    int32(h.GrandParentPid1),
			Status1:            int32(h.Status1),
			ParentPid2:         int32(h.ParentPid2),
			GrandParentPid2:    int32(h.GrandParentPid2),
			Status2:            int32(h.Status2),
		}
	}
	return rows, nil
}

func memberRows(event *Event, records []Record) []MemberHDF5 {
	var rows []MemberHDF5
	for i, r := range records {
		for slot, h := range r.Set {
			for _, id := range h.IDs {
				rows = append(rows, MemberHDF5{
					EvtNumber:  int32(event.Number),
					Candidate:  int32(i),
					Slot:       int32(slot),
					ParticleID: int32(id),
					Pid:        int32(pidAt(event, id)),
				})
			}
		}
	}
	return rows
}

func (w *Writer) Close() error {
	message := fmt.Sprintf("Closing file %s", w.Filename)
	logger.Info(message, "hdf5writer")

	var errs []error
	tables := []struct {
		name string
		dset *hdf5.Dataset
	}{
		{"run info table", w.RunInfoTable},
		{"cuts table", w.CutsTable},
		{"event table", w.EventTable},
		{"candidate table", w.CandidateTable},
		{"member table", w.MemberTable},
	}
	for _, t := range tables {
		if t.dset == nil {
			continue
		}
		if err := t.dset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s: %w", t.name, err))
		}
	}
	if w.RunGroup != nil {
		if err := w.RunGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing run group: %w", err))
		}
	}
	if w.HadroniaGroup != nil {
		if err := w.HadroniaGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing hadronia group: %w", err))
		}
	}
	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// MemorySink keeps every record in memory.
type MemorySink struct {
	Events  []int
	Records []Record
}

func (m *MemorySink) Write(event *Event, records []Record) error {
	m.Events = append(m.Events, event.Number)
	m.Records = append(m.Records, records...)
	return nil
}
