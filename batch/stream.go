package batch

// Stream is a list of instances rebuilt every frame on top of the previous
// frame's storage. Records below the cursor overwrite in place, the others append.
type Stream struct {
	instances []Instance
	cursor    int
}

// NewStream preallocates room for size instances.
func NewStream(size int) *Stream {
	return &Stream{instances: make([]Instance, 0, size)}
}

func (s *Stream) Record(inst Instance) {
	if s.cursor < len(s.instances) {
		s.instances[s.cursor] = inst
	} else {
		s.instances = append(s.instances, inst)
	}
	s.cursor++
}

// Finalize truncates the stream to the instances recorded since the last
// call and rewinds the cursor. The returned slice stays valid until the next Record.
func (s *Stream) Finalize() []Instance {
	s.instances = s.instances[:s.cursor]
	s.cursor = 0
	return s.instances
}

// Instances returns the instances as of the last Finalize, plus any
// overwritten so far in the current frame.
func (s *Stream) Instances() []Instance {
	return s.instances
}

func (s *Stream) Len() int {
	return len(s.instances)
}

func (s *Stream) Cap() int {
	return cap(s.instances)
}

// Pending returns the number of records since the last Finalize.
func (s *Stream) Pending() int {
	return s.cursor
}
