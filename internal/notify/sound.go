package notify

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
)

// tone describes a generated alert sound.
type tone struct {
	frequency  float64
	durationMS int
	volume     float64
}

var urgencyTones = map[Urgency]tone{
	UrgencyCritical: {880, 300, 0.7},
	UrgencyNormal:   {660, 300, 0.5},
	UrgencyLow:      {440, 200, 0.3},
}

// playSound plays an alert sound for the given urgency. Best-effort: any
// failure is swallowed so sound can never block or fail a notification.
func (m *Manager) playSound(ctx context.Context, urgency Urgency) {
	defer func() { _ = recover() }()

	runCtx, cancel := context.WithTimeout(ctx, soundTimeout)
	defer cancel()

	switch m.goos {
	case "darwin":
		m.playSoundMacOS(runCtx, urgency)
	case "linux":
		m.playSoundLinux(runCtx, urgency)
	}
}

// playSoundMacOS plays one of the system sounds with afplay.
func (m *Manager) playSoundMacOS(ctx context.Context, urgency Urgency) {
	sounds := map[Urgency]string{
		UrgencyCritical: "Glass",
		UrgencyNormal:   "Ping",
		UrgencyLow:      "Pop",
	}
	sound, ok := sounds[urgency]
	if !ok {
		sound = "Ping"
	}
	_ = m.run(ctx, nil, "afplay", "/System/Library/Sounds/"+sound+".aiff")
}

// playSoundLinux plays a generated WAV tone through whichever audio player
// is installed: aplay (ALSA, near-universal), then paplay (PulseAudio),
// then pw-play (PipeWire).
func (m *Manager) playSoundLinux(ctx context.Context, urgency Urgency) {
	t, ok := urgencyTones[urgency]
	if !ok {
		t = urgencyTones[UrgencyNormal]
	}
	wavData := generateWAV(t.frequency, t.durationMS, t.volume)

	players := [][]string{
		{"aplay", "-q", "-"},
		{"paplay", "--raw", "--rate=44100", "--channels=1", "--format=s16le"},
		{"pw-play", "--rate=44100", "--channels=1", "--format=s16", "-"},
	}
	for _, player := range players {
		if err := m.run(ctx, wavData, player[0], player[1:]...); err == nil {
			return
		}
	}
}

const sampleRate = 44100

// generateWAV renders a sine tone as an in-memory WAV file (16-bit mono),
// with a 10ms fade-in/out envelope to avoid clicks.
func generateWAV(frequency float64, durationMS int, volume float64) []byte {
	numSamples := sampleRate * durationMS / 1000
	fadeSamples := sampleRate / 100

	samples := make([]int16, numSamples)
	for i := 0; i < numSamples; i++ {
		envelope := 1.0
		if i < fadeSamples {
			envelope = float64(i) / float64(fadeSamples)
		} else if i > numSamples-fadeSamples {
			envelope = float64(numSamples-i) / float64(fadeSamples)
		}
		value := volume * envelope * math.Sin(2*math.Pi*frequency*float64(i)/sampleRate)
		samples[i] = int16(value * 32767)
	}

	dataSize := numSamples * 2
	var buf bytes.Buffer

	// RIFF header.
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	// fmt chunk: PCM, mono, 16-bit.
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	// data chunk.
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	binary.Write(&buf, binary.LittleEndian, samples)

	return buf.Bytes()
}
