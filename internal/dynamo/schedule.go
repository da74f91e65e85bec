package dynamo

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment holds one command for a span of simulated seconds.
type Segment struct {
	Command  Command
	Duration float64
}

// Schedule is a scripted sequence of commands, used to drive the body
// headlessly the way a keyboard would.
type Schedule []Segment

// ParseSchedule reads "right:1.5,idle:0.5,left:1". Directions accept
// left/l/-1, right/r/+1/1 and idle/i/0.
func ParseSchedule(s string) (Schedule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var out Schedule
	for _, part := range strings.Split(s, ",") {
		dir, dur, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("%w: segment %q needs direction:seconds", ErrBadSchedule, part)
		}

		cmd, err := parseDirection(dir)
		if err != nil {
			return nil, err
		}

		d, err := strconv.ParseFloat(strings.TrimSpace(dur), 64)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("%w: bad duration %q", ErrBadSchedule, dur)
		}
		out = append(out, Segment{Command: cmd, Duration: d})
	}
	return out, nil
}

func parseDirection(s string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l", "-1":
		return Left, nil
	case "right", "r", "+1", "1":
		return Right, nil
	case "idle", "i", "0", "stop":
		return Neutral, nil
	}
	return Neutral, fmt.Errorf("%w: unknown direction %q", ErrBadSchedule, s)
}

// At returns the command active at simulated time t. Past the last segment
// the schedule is idle.
func (s Schedule) At(t float64) Command {
	end := 0.0
	for _, seg := range s {
		end += seg.Duration
		if t < end-1e-9 {
			return seg.Command
		}
	}
	return Neutral
}

// Total returns the scheduled span in seconds.
func (s Schedule) Total() float64 {
	total := 0.0
	for _, seg := range s {
		total += seg.Duration
	}
	return total
}

func (s Schedule) String() string {
	parts := make([]string, len(s))
	for i, seg := range s {
		parts[i] = fmt.Sprintf("%s:%g", seg.Command, seg.Duration)
	}
	return strings.Join(parts, ",")
}
