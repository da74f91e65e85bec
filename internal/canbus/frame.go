package canbus

import (
	"fmt"
	"math"

	"go.einride.tech/can"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
)

// Payload layout, little endian:
//
//	bytes 0-1  theta      int16, milliradians
//	bytes 2-3  theta_dot  int16, 0.01 rad/s
//	bytes 4-5  x          int16, centimetres
//	byte  6    command    int8
//	byte  7    flags      bit 0 = tipped
const (
	ThetaScale    = 1000.0
	ThetaDotScale = 100.0
	XScale        = 100.0

	frameLength = 8
	flagTipped  = 0x01
)

// Telemetry is the decoded content of a state frame.
type Telemetry struct {
	Theta    float64
	ThetaDot float64
	X        float64
	Command  dynamo.Command
	Tipped   bool
}

func quantize(v, scale float64) int64 {
	raw := math.Round(v * scale)
	switch {
	case math.IsNaN(raw):
		return 0
	case raw > math.MaxInt16:
		return math.MaxInt16
	case raw < math.MinInt16:
		return math.MinInt16
	}
	return int64(raw)
}

// Encode packs a snapshot into a classic 8-byte frame. Out-of-range values
// saturate.
func Encode(id uint32, s dynamo.Snapshot) (can.Frame, error) {
	f := can.Frame{ID: id, Length: frameLength}

	f.Data.SetSignedBitsLittleEndian(0, 16, quantize(s.Theta, ThetaScale))
	f.Data.SetSignedBitsLittleEndian(16, 16, quantize(s.ThetaDot, ThetaDotScale))
	f.Data.SetSignedBitsLittleEndian(32, 16, quantize(s.X, XScale))
	f.Data.SetSignedBitsLittleEndian(48, 8, int64(s.Command.Clamp()))
	if s.Tipped {
		f.Data[7] |= flagTipped
	}

	if err := f.Validate(); err != nil {
		return can.Frame{}, fmt.Errorf("encode state frame: %w", err)
	}
	return f, nil
}

func Decode(f can.Frame) (Telemetry, error) {
	if f.Length != frameLength {
		return Telemetry{}, fmt.Errorf("state frame 0x%X: expected length %d, got %d", f.ID, frameLength, f.Length)
	}

	return Telemetry{
		Theta:    float64(f.Data.SignedBitsLittleEndian(0, 16)) / ThetaScale,
		ThetaDot: float64(f.Data.SignedBitsLittleEndian(16, 16)) / ThetaDotScale,
		X:        float64(f.Data.SignedBitsLittleEndian(32, 16)) / XScale,
		Command:  dynamo.Command(f.Data.SignedBitsLittleEndian(48, 8)).Clamp(),
		Tipped:   f.Data[7]&flagTipped != 0,
	}, nil
}
