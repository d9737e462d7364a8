package probe

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	maxWorkers = 8
	// workerMemBudget is the working-set estimate for one concurrent
	// asset render or encode, in bytes.
	workerMemBudget = 512 << 20
)

// EncodeWorkers sizes the concurrent worker pool for asset resolution and
// segment encoding from the machine's logical CPU count and available
// memory, clamped to [1, 8].
func EncodeWorkers() int {
	cpus, err := cpu.Counts(true)
	if err != nil || cpus < 1 {
		cpus = 1
	}
	vm, err := mem.VirtualMemory()
	byMem := maxWorkers
	if err == nil {
		byMem = int(vm.Available / workerMemBudget)
	}
	return clampWorkers(cpus, byMem)
}

func clampWorkers(byCPU, byMem int) int {
	n := byCPU
	if byMem < n {
		n = byMem
	}
	if n < 1 {
		n = 1
	}
	if n > maxWorkers {
		n = maxWorkers
	}
	return n
}
