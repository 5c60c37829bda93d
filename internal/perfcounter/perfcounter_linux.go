//go:build linux

package perfcounter

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

type hwEvent struct {
	name   string
	config uint64
	assign func(*EventCount, float64)
}

// The first entry leads the group; the session has no events without it.
var hwEvents = []hwEvent{
	{"cycles", unix.PERF_COUNT_HW_CPU_CYCLES, func(c *EventCount, v float64) { c.Cycles = v }},
	{"instructions", unix.PERF_COUNT_HW_INSTRUCTIONS, func(c *EventCount, v float64) { c.Instructions = v }},
	{"branches", unix.PERF_COUNT_HW_BRANCH_INSTRUCTIONS, func(c *EventCount, v float64) { c.Branches = v }},
	{"branch-misses", unix.PERF_COUNT_HW_BRANCH_MISSES, func(c *EventCount, v float64) { c.BranchMisses = v }},
}

// perf_event ioctl argument applying the request to the whole group.
const ioctlFlagGroup = 1

type linuxSession struct {
	leader  int
	fds     []int
	events  []hwEvent
	buf     []byte
	start   time.Time
	running bool
}

// Open creates a session counting user-space events of the calling thread. The
// goroutine is locked to its thread until Close; Start and End must be called
// from the same goroutine as Open.
//
// When the leader event cannot be opened (typically perf_event_paranoid or a
// missing privilege) the returned session measures elapsed time only.
func Open() (Session, error) {
	runtime.LockOSThread()

	s := &linuxSession{leader: -1}
	for _, ev := range hwEvents {
		fd, err := openEvent(ev.config, s.leader)
		if err != nil {
			if s.leader == -1 {
				runtime.UnlockOSThread()
				return NewClockSession(), nil
			}
			continue
		}
		if s.leader == -1 {
			s.leader = fd
		}
		s.fds = append(s.fds, fd)
		s.events = append(s.events, ev)
	}
	s.buf = make([]byte, 8*(1+len(s.fds)))
	return s, nil
}

func openEvent(config uint64, group int) (int, error) {
	attr := unix.PerfEventAttr{
		Type:        unix.PERF_TYPE_HARDWARE,
		Size:        uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
		Config:      config,
		Read_format: unix.PERF_FORMAT_GROUP,
		Bits:        unix.PerfBitExcludeKernel | unix.PerfBitExcludeHv,
	}
	if group == -1 {
		attr.Bits |= unix.PerfBitDisabled
	}
	return unix.PerfEventOpen(&attr, 0, -1, group, unix.PERF_FLAG_FD_CLOEXEC)
}

func (s *linuxSession) Start() error {
	if err := unix.IoctlSetInt(s.leader, unix.PERF_EVENT_IOC_RESET, ioctlFlagGroup); err != nil {
		return fmt.Errorf("reset counters: %w", err)
	}
	s.running = true
	s.start = time.Now()
	if err := unix.IoctlSetInt(s.leader, unix.PERF_EVENT_IOC_ENABLE, ioctlFlagGroup); err != nil {
		s.running = false
		return fmt.Errorf("enable counters: %w", err)
	}
	return nil
}

func (s *linuxSession) End() (EventCount, error) {
	err := unix.IoctlSetInt(s.leader, unix.PERF_EVENT_IOC_DISABLE, ioctlFlagGroup)
	elapsed := time.Since(s.start)
	if !s.running {
		return EventCount{}, ErrNotStarted
	}
	s.running = false
	if err != nil {
		return EventCount{}, fmt.Errorf("disable counters: %w", err)
	}

	n, err := unix.Read(s.leader, s.buf)
	if err != nil {
		return EventCount{}, fmt.Errorf("read counters: %w", err)
	}
	if n != len(s.buf) {
		return EventCount{}, fmt.Errorf("read counters: short read %d of %d bytes", n, len(s.buf))
	}
	nr := binary.NativeEndian.Uint64(s.buf[:8])
	if nr != uint64(len(s.events)) {
		return EventCount{}, fmt.Errorf("read counters: group reported %d events, expected %d", nr, len(s.events))
	}

	count := EventCount{Elapsed: elapsed}
	for i, ev := range s.events {
		off := 8 * (i + 1)
		ev.assign(&count, float64(binary.NativeEndian.Uint64(s.buf[off:off+8])))
	}
	return count, nil
}

func (s *linuxSession) HasEvents() bool {
	return s.leader != -1
}

func (s *linuxSession) Close() error {
	var firstErr error
	for i := len(s.fds) - 1; i >= 0; i-- {
		if err := unix.Close(s.fds[i]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.leader != -1 {
		runtime.UnlockOSThread()
	}
	s.fds = nil
	s.leader = -1
	return firstErr
}
