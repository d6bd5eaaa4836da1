//go:build mpi

package transport

import (
	mpi "github.com/sbromberger/gompi"

	"parmean/internal/rlog"
)

// Message tags for the two collectives; each run performs one of each, so a
// fixed tag per collective is enough to keep streams apart.
const (
	tagScatter = 1
	tagGather  = 2
)

// MPI is the multi-process substrate over OpenMPI. Collectives are composed
// from tagged point-to-point sends with rank 0 as the fixed root.
//
// Lifecycle: call StartMPI before building workers and defer StopMPI in main.
// Requires cgo and an MPI installation, hence the "mpi" build tag.
type MPI struct {
	comm *mpi.Communicator
}

// StartMPI initializes the MPI runtime and returns the world endpoint.
func StartMPI() *MPI {
	mpi.Start(true)
	return &MPI{comm: mpi.NewCommunicator(nil)}
}

// StopMPI tears down the MPI runtime.
func StopMPI() {
	mpi.Stop()
}

func (m *MPI) Rank() int { return m.comm.Rank() }
func (m *MPI) Size() int { return m.comm.Size() }

func (m *MPI) ScatterFloat64s(parts [][]float64) ([]float64, error) {
	size := m.comm.Size()
	if m.comm.Rank() == Root {
		if len(parts) != size {
			return nil, transportf("scatter needs %d parts, got %d", size, len(parts))
		}
		for i := 0; i < size; i++ {
			if i == Root {
				continue
			}
			m.comm.SendFloat64s(parts[i], i, tagScatter)
		}
		rlog.Debug(rlog.TopicMPI, Root, "scattered %d parts", size)
		return parts[Root], nil
	}
	part, _ := m.comm.RecvFloat64s(Root, tagScatter)
	return part, nil
}

func (m *MPI) GatherFloat64s(mine []float64) ([][]float64, error) {
	size := m.comm.Size()
	if m.comm.Rank() != Root {
		m.comm.SendFloat64s(mine, Root, tagGather)
		return nil, nil
	}

	all := make([][]float64, size)
	all[Root] = mine
	for i := 0; i < size; i++ {
		if i == Root {
			continue
		}
		vals, _ := m.comm.RecvFloat64s(i, tagGather)
		all[i] = vals
	}
	rlog.Debug(rlog.TopicMPI, Root, "gathered %d contributions", size)
	return all, nil
}

func (m *MPI) Barrier() {
	m.comm.Barrier()
}
