package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
)

// SpeakerLatency is the length of the output buffer handed to the device.
const SpeakerLatency = 100 * time.Millisecond

// output is the sound device; tests replace it.
type output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
}

type speakerOutput struct{}

func (speakerOutput) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (speakerOutput) Play(s beep.Streamer) {
	speaker.Play(s)
}

var (
	device output = speakerOutput{}
	decode        = mp3.Decode
)

// SpeakerPlayer holds the decoded cue in memory and mixes it onto the
// default output device. Overlapping plays are mixed.
type SpeakerPlayer struct {
	buf *beep.Buffer
	out output
	wg  sync.WaitGroup
}

// NewSpeakerPlayer decodes the MP3 at soundPath and opens the device at the
// file's sample rate. A missing, corrupt or empty file and a device that
// fails to open all wrap ErrUnavailable.
func NewSpeakerPlayer(soundPath string) (*SpeakerPlayer, error) {
	f, err := os.Open(soundPath)
	if err != nil {
		return nil, fmt.Errorf("sound %s: %w", soundPath, ErrUnavailable)
	}

	stream, format, err := decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %v: %w", soundPath, err, ErrUnavailable)
	}
	defer stream.Close()

	buf := beep.NewBuffer(format)
	buf.Append(stream)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %v: %w", soundPath, err, ErrUnavailable)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("decode %s: no samples: %w", soundPath, ErrUnavailable)
	}

	if err := device.Init(format.SampleRate, format.SampleRate.N(SpeakerLatency)); err != nil {
		return nil, fmt.Errorf("open speaker: %v: %w", err, ErrUnavailable)
	}

	return &SpeakerPlayer{buf: buf, out: device}, nil
}

// Play queues the cue from its start and returns immediately.
func (p *SpeakerPlayer) Play() error {
	p.wg.Add(1)
	p.out.Play(beep.Seq(
		p.buf.Streamer(0, p.buf.Len()),
		beep.Callback(p.wg.Done),
	))
	return nil
}

// Wait blocks until every queued cue has been played out.
func (p *SpeakerPlayer) Wait() error {
	p.wg.Wait()
	return nil
}
