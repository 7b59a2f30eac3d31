package audio

import (
	"sync"
	"time"

	"git.lost.host/meutraa/rhythm/internal/clock"
	"github.com/faiface/beep"
)

type voice struct {
	start int // Sample frame the voice begins on
	s     beep.Streamer
}

// Mixer is the only streamer handed to the speaker. It counts the frames it
// produces, which makes it the session clock: time only passes when audio
// does. While suspended it streams silence without counting.
type Mixer struct {
	mu sync.Mutex

	rate   beep.SampleRate
	voices []*voice
	tmp    [][2]float64

	pos       int // Frames produced so far
	chunk     int // Frames in the last Stream call
	streamed  time.Time
	suspended bool
	frozen    float64
	last      float64

	now func() time.Time
}

func NewMixer(rate beep.SampleRate) *Mixer {
	return &Mixer{rate: rate, now: time.Now}
}

// Schedule starts s on the frame nearest to at. A time already streamed
// starts with the next chunk.
func (m *Mixer) Schedule(s beep.Streamer, at float64) {
	start := int(at*float64(m.rate) + 0.5)
	m.mu.Lock()
	if start < m.pos {
		start = m.pos
	}
	m.voices = append(m.voices, &voice{start: start, s: s})
	m.mu.Unlock()
}

func (m *Mixer) Stream(samples [][2]float64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range samples {
		samples[i] = [2]float64{}
	}
	if m.suspended {
		return len(samples), true
	}

	n := len(samples)
	end := m.pos + n
	if cap(m.tmp) < n {
		m.tmp = make([][2]float64, n)
	}

	live := m.voices[:0]
	for _, v := range m.voices {
		if v.start >= end {
			live = append(live, v)
			continue
		}
		from := 0
		if v.start > m.pos {
			from = v.start - m.pos
		}
		if m.mix(v.s, samples[from:]) {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = live

	m.pos = end
	m.chunk = n
	m.streamed = m.now()
	return n, true
}

// mix adds s into dst and reports whether s has more to give.
func (m *Mixer) mix(s beep.Streamer, dst [][2]float64) bool {
	for len(dst) > 0 {
		buf := m.tmp[:len(dst)]
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			dst[i][0] += buf[i][0]
			dst[i][1] += buf[i][1]
		}
		if !ok {
			return false
		}
		if n == 0 {
			return true
		}
		dst = dst[n:]
	}
	return true
}

func (m *Mixer) Err() error { return nil }

// Now is the time of the frame being heard: the start of the last chunk plus
// the wall time since it was handed over, never more than the chunk itself.
func (m *Mixer) Now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.suspended {
		return m.frozen
	}
	return m.current()
}

func (m *Mixer) current() float64 {
	t := float64(m.pos-m.chunk) / float64(m.rate)
	if !m.streamed.IsZero() {
		ahead := m.now().Sub(m.streamed).Seconds()
		if limit := float64(m.chunk) / float64(m.rate); ahead > limit {
			ahead = limit
		}
		t += ahead
	}
	if t < m.last {
		t = m.last
	}
	m.last = t
	return t
}

func (m *Mixer) Suspend() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.suspended {
		return clock.ErrSuspended
	}
	m.frozen = m.current()
	m.suspended = true
	return nil
}

func (m *Mixer) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.suspended {
		return clock.ErrNotSuspended
	}
	m.suspended = false
	// Re-anchor the wall time so Now continues from the frozen reading
	if !m.streamed.IsZero() {
		offset := m.frozen - float64(m.pos-m.chunk)/float64(m.rate)
		m.streamed = m.now().Add(-secondsToDuration(offset))
	}
	return nil
}

// Frames is how many frames have been produced.
func (m *Mixer) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}
