package hadronia

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dihadronRecords(t *testing.T) (*Event, []Record) {
	t.Helper()
	analysis, err := NewAnalysis(pionPairConfig(), nil)
	require.NoError(t, err)
	event := pairEvent(4, true)
	records, err := analysis.ProcessEvent(&event)
	require.NoError(t, err)
	require.Len(t, records, 1)
	return &event, records
}

func TestConvertToHdf5String(t *testing.T) {
	s := convertToHdf5String("(211) + (-211)")
	assert.Equal(t, "(211) + (-211)", strings.TrimRight(string(s[:]), "\x00"))

	long := convertToHdf5String(strings.Repeat("x", 2*STRLEN))
	assert.Equal(t, strings.Repeat("x", STRLEN), string(long[:]))
}

func TestRunInfoRow(t *testing.T) {
	config := pionPairConfig()
	config.FileIn = "events.lund"
	config.Cuts = Cuts{MinCut("Q2", 1), RangeCut("z", 0.2, 0.8)}
	info := NewRunInfo(config)

	row := runInfoRow(info)
	assert.Equal(t, info.ID.String(), strings.TrimRight(string(row.RunID[:]), "\x00"))
	assert.Equal(t, "dihadron", strings.TrimRight(string(row.Mode[:]), "\x00"))
	assert.Equal(t, "events.lund", strings.TrimRight(string(row.Input[:]), "\x00"))
	assert.NotEqual(t, NewRunInfo(config).ID, info.ID)

	cuts := cutRows(info.Cuts)
	require.Len(t, cuts, 2)
	assert.Equal(t, "RANGE", strings.TrimRight(string(cuts[1].Kind[:]), "\x00"))
	assert.Equal(t, 0.8, cuts[1].Max)
}

func TestCandidateRows(t *testing.T) {
	event, records := dihadronRecords(t)
	dh := records[0].Hadron.(DiHadronKinematics)

	rows, err := diHadronRows(records)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(4), rows[0].EvtNumber)
	assert.Equal(t, records[0].Event.Q2, rows[0].Q2)
	assert.Equal(t, dh.Z1, rows[0].Z1)
	assert.Equal(t, dh.PhiRperp, rows[0].PhiRperp)
	assert.Equal(t, int32(dh.Status2), rows[0].Status2)

	_, err = singleHadronRows(records)
	assert.Error(t, err)

	members := memberRows(event, records)
	require.Len(t, members, 2)
	assert.Equal(t, MemberHDF5{EvtNumber: 4, Candidate: 0, Slot: 0, ParticleID: 4, Pid: 211}, members[0])
	assert.Equal(t, MemberHDF5{EvtNumber: 4, Candidate: 0, Slot: 1, ParticleID: 5, Pid: -211}, members[1])
}

func TestWriterCreatesFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.h5")
	config := pionPairConfig()
	config.Cuts = Cuts{MinCut("Q2", 1)}

	writer, err := NewWriter(filename, NewRunInfo(config), 4)
	require.NoError(t, err)

	event, records := dihadronRecords(t)
	require.NoError(t, writer.Write(event, records))
	require.NoError(t, writer.Write(event, append(records, records...)))
	assert.Equal(t, 2, writer.EvtCounter)
	assert.Equal(t, 3, writer.CandidateCounter)
	assert.Equal(t, 6, writer.MemberCounter)
	require.NoError(t, writer.Close())

	info, err := os.Stat(filename)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestMemorySink(t *testing.T) {
	event, records := dihadronRecords(t)
	sink := &MemorySink{}
	var _ RecordSink = sink
	var _ RecordSink = (*Writer)(nil)
	require.NoError(t, sink.Write(event, records))
	assert.Equal(t, []int{4}, sink.Events)
	assert.Len(t, sink.Records, 1)
}
