package hcicore

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinWorkerCPU locks the calling goroutine to its OS thread and, if cfg
// carries a CPU affinity list, pins that thread to one CPU from it.
// workerIdx picks the CPU round-robin, the same scheme
// internal/queue/runner.go uses for per-queue pinning (queueID %
// len(cpuAffinity)); this core only ever has two workers, so workerIdx
// is just 0 (cmdWorker) or 1 (rxWorker).
//
// Locking the OS thread is unconditional: it keeps a worker's syscalls
// (and any affinity set on it) on one thread for the worker's whole
// lifetime, not just while cfg.CPUAffinity is set.
func (s *Stack) pinWorkerCPU(name string, workerIdx int) {
	runtime.LockOSThread()

	if len(s.cfg.CPUAffinity) == 0 {
		return
	}

	cpu := s.cfg.CPUAffinity[workerIdx%len(s.cfg.CPUAffinity)]
	var mask unix.CPUSet
	mask.Set(cpu)
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		s.logger.Warnf("%s: failed to set CPU affinity to CPU %d: %v", name, cpu, err)
		// Continue without affinity - not fatal.
		return
	}
	s.logger.Debugf("%s: pinned to CPU %d", name, cpu)
}
