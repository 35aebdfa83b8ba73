package hadronia

import (
	"fmt"

	"gonum.org/v1/hdf5"
)

const STRLEN = 64

type RunInfoHDF5 struct {
	RunID      [STRLEN]byte `hdf5:"run_id"`
	Criteria   [STRLEN]byte `hdf5:"criteria"`
	Mode       [STRLEN]byte `hdf5:"mode"`
	Acceptance [STRLEN]byte `hdf5:"acceptance"`
	Input      [STRLEN]byte `hdf5:"input"`
	Started    int64        `hdf5:"started"`
}

type CutHDF5 struct {
	Variable [STRLEN]byte `hdf5:"variable"`
	Kind     [STRLEN]byte `hdf5:"kind"`
	Min      float64      `hdf5:"min"`
	Max      float64      `hdf5:"max"`
}

type EventHDF5 struct {
	EvtNumber   int32   `hdf5:"evt_number"`
	NParticles  int32   `hdf5:"n_particles"`
	ProcessID   int32   `hdf5:"process_id"`
	Weight      float64 `hdf5:"weight"`
	NCandidates int32   `hdf5:"n_candidates"`
}

type SingleHadronHDF5 struct {
	EvtNumber          int32   `hdf5:"evt_number"`
	Candidate          int32   `hdf5:"candidate"`
	X                  float64 `hdf5:"x"`
	Y                  float64 `hdf5:"y"`
	Q2                 float64 `hdf5:"Q2"`
	W                  float64 `hdf5:"W"`
	Nu                 float64 `hdf5:"nu"`
	Gamma              float64 `hdf5:"gamma"`
	Epsilon            float64 `hdf5:"epsilon"`
	DepolA             float64 `hdf5:"depolA"`
	DepolB             float64 `hdf5:"depolB"`
	DepolC             float64 `hdf5:"depolC"`
	DepolV             float64 `hdf5:"depolV"`
	DepolW             float64 `hdf5:"depolW"`
	BeamPolarization   int32   `hdf5:"beam_polarization"`
	TargetPolarization int32   `hdf5:"target_polarization"`
	PT                 float64 `hdf5:"pt"`
	Z                  float64 `hdf5:"z"`
	Phi                float64 `hdf5:"phi"`
	Mh                 float64 `hdf5:"Mh"`
	XF                 float64 `hdf5:"xF"`
	Mx                 float64 `hdf5:"Mx"`
	ParentPid          int32   `hdf5:"parentPid"`
	GrandParentPid     int32   `hdf5:"grandParentPid"`
	Status             int32   `hdf5:"status"`
}

type DiHadronHDF5 struct {
	EvtNumber          int32   `hdf5:"evt_number"`
	Candidate          int32   `hdf5:"candidate"`
	X                  float64 `hdf5:"x"`
	Y                  float64 `hdf5:"y"`
	Q2                 float64 `hdf5:"Q2"`
	W                  float64 `hdf5:"W"`
	Nu                 float64 `hdf5:"nu"`
	Gamma              float64 `hdf5:"gamma"`
	Epsilon            float64 `hdf5:"epsilon"`
	DepolA             float64 `hdf5:"depolA"`
	DepolB             float64 `hdf5:"depolB"`
	DepolC             float64 `hdf5:"depolC"`
	DepolV             float64 `hdf5:"depolV"`
	DepolW             float64 `hdf5:"depolW"`
	BeamPolarization   int32   `hdf5:"beam_polarization"`
	TargetPolarization int32   `hdf5:"target_polarization"`
	PT1                float64 `hdf5:"pt1"`
	PT2                float64 `hdf5:"pt2"`
	PT                 float64 `hdf5:"pt"`
	Z1                 float64 `hdf5:"z1"`
	Z2                 float64 `hdf5:"z2"`
	Z                  float64 `hdf5:"z"`
	PhiH               float64 `hdf5:"phi_h"`
	PhiRT              float64 `hdf5:"phi_RT"`
	PhiRperp           float64 `hdf5:"phi_Rperp"`
	Th                 float64 `hdf5:"th"`
	Mh                 float64 `hdf5:"Mh"`
	XF1                float64 `hdf5:"xF1"`
	XF2                float64 `hdf5:"xF2"`
	XF                 float64 `hdf5:"xF"`
	Mx                 float64 `hdf5:"Mx"`
	ParentPid1         int32   `hdf5:"parentPid1"`
	GrandParentPid1    int32   `hdf5:"grandParentPid1"`
	Status1            int32   `hdf5:"status1"`
	ParentPid2         int32   `hdf5:"parentPid2"`
	GrandParentPid2    int32   `hdf5:"grandParentPid2"`
	Status2            int32   `hdf5:"status2"`
}

// MemberHDF5 links a candidate row to the event particles it was built from.
type MemberHDF5 struct {
	EvtNumber  int32 `hdf5:"evt_number"`
	Candidate  int32 `hdf5:"candidate"`
	Slot       int32 `hdf5:"slot"`
	ParticleID int32 `hdf5:"particle_id"`
	Pid        int32 `hdf5:"pid"`
}

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func openFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &ErrOpenFile{Filename: fname, Err: err}
	}
	return f, nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

func createTable(group *hdf5.Group, name string, datatype interface{}, compressionLevel int) (*hdf5.Dataset, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer fileSpace.Close()

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer plist.Close()

	chunks := []uint{32768}
	if err := plist.SetChunk(chunks); err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	if compressionLevel > 0 {
		if err := plist.SetDeflate(compressionLevel); err != nil {
			return nil, &ErrCreateTable{TableName: name, Err: err}
		}
	}

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer dtype.Close()

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

func writeEntryToTable[T any](dataset *hdf5.Dataset, data T, rowCounter int) error {
	array := []T{data}
	return writeArrayToTable(dataset, &array, rowCounter)
}

// writeArrayToTable appends data to a one dimensional table that already
// holds rowCounter rows.
func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T, rowCounter int) error {
	length := uint(len(*data))
	if length == 0 {
		return nil
	}
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return fmt.Errorf("error creating dataspace: %w", err)
	}
	defer dataspace.Close()

	rowsInFile := uint(rowCounter)
	newsize := []uint{rowsInFile + length}
	if err := dataset.Resize(newsize); err != nil {
		return fmt.Errorf("error extending table: %w", err)
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{rowsInFile}
	count := []uint{length}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return fmt.Errorf("error selecting rows: %w", err)
	}

	if err := dataset.WriteSubset(data, dataspace, filespace); err != nil {
		return fmt.Errorf("error writing rows: %w", err)
	}
	return nil
}
