package apu

// dutyCycles gives the 8-step high/low pattern for each of the four pulse
// duty settings.
var dutyCycles = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0}, // 12.5%
	{0, 1, 1, 0, 0, 0, 0, 0}, // 25%
	{0, 1, 1, 1, 1, 0, 0, 0}, // 50%
	{1, 0, 0, 1, 1, 1, 1, 1}, // 75% (25% inverted)
}

// triangleSequence is the 32-step descending-then-ascending ramp the
// triangle channel cycles through.
var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

var noisePeriods = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

var dmcRates = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
}

func (a *APU) stepPulse(pulse *PulseChannel) {
	if !pulse.Enabled {
		return
	}
	if pulse.Timer > 0 {
		pulse.Timer--
		return
	}
	pulse.Timer = pulse.TimerValue
	pulse.Sequence = (pulse.Sequence + 1) % 8
}

// stepTriangle advances the triangle timer. Real hardware still clocks the
// timer when the length/linear counters are zero, it just stops advancing
// the waveform sequence, which is what silences the channel.
func (a *APU) stepTriangle() {
	tri := &a.Triangle
	if !tri.Enabled {
		return
	}
	if tri.Timer > 0 {
		tri.Timer--
		return
	}
	tri.Timer = tri.TimerValue
	if tri.Length.Value > 0 && tri.LinearCounter > 0 {
		tri.Sequence = (tri.Sequence + 1) % 32
	}
}

func (a *APU) stepNoise() {
	n := &a.Noise
	if !n.Enabled {
		return
	}
	if n.Timer > 0 {
		n.Timer--
		return
	}
	n.Timer = n.TimerValue

	var feedback uint16
	if n.Mode {
		feedback = (n.ShiftReg & 1) ^ ((n.ShiftReg >> 6) & 1) // mode 1: taps bit 6
	} else {
		feedback = (n.ShiftReg & 1) ^ ((n.ShiftReg >> 1) & 1) // mode 0: taps bit 1
	}
	n.ShiftReg = (n.ShiftReg >> 1) | (feedback << 14)
}

func (a *APU) stepDMC() {
	if !a.DMC.Enabled || a.DMC.Rate == 0 {
		return
	}
	period := dmcRates[a.DMC.Rate&0x0F]
	if a.Cycles%uint64(period) == 0 {
		a.stepDMCSample()
	}
}

// stepDMCSample refills the sample buffer from memory when empty and shifts
// one bit out toward the 7-bit output counter. DPCM playback itself is not
// wired further than keeping $4015's DMC-active bit accurate; the output
// delta logic below only needs to exist so that bit has somewhere to read
// CurrentLength from.
func (a *APU) stepDMCSample() {
	dmc := &a.DMC

	if dmc.BufferEmpty && dmc.CurrentLength > 0 && a.Memory != nil {
		dmc.SampleBuffer = a.Memory.Read(dmc.CurrentAddress)
		dmc.BufferEmpty = false
		dmc.CurrentAddress++
		if dmc.CurrentAddress > 0xFFFF {
			dmc.CurrentAddress = 0x8000
		}
		dmc.CurrentLength--

		if dmc.CurrentLength == 0 {
			if dmc.Loop {
				dmc.CurrentLength = dmc.SampleLength
				dmc.CurrentAddress = dmc.SampleAddress
			}
			// IRQ generation on sample end needs a CPU interface this
			// channel doesn't have; DMC IRQs are not raised.
		}
	}

	if dmc.BitsRemaining == 0 {
		dmc.BitsRemaining = 8
		if !dmc.BufferEmpty {
			dmc.Buffer = dmc.SampleBuffer
			dmc.BufferEmpty = true
			dmc.Silence = false
		} else {
			dmc.Silence = true
		}
	}

	if dmc.BitsRemaining == 0 || dmc.Silence {
		return
	}
	dmc.BitsRemaining--
	bit := (dmc.Buffer >> dmc.BitsRemaining) & 1
	switch {
	case bit == 1 && dmc.LoadCounter <= 125:
		dmc.LoadCounter += 2
	case bit == 0 && dmc.LoadCounter >= 2:
		dmc.LoadCounter -= 2
	}
}

func (a *APU) stepEnvelope(env *EnvelopeGenerator) {
	if env.Start {
		env.Start = false
		env.Counter = 15
		env.Divider = env.Volume
		return
	}
	if env.Divider > 0 {
		env.Divider--
		return
	}
	env.Divider = env.Volume
	switch {
	case env.Counter > 0:
		env.Counter--
	case env.Loop:
		env.Counter = 15
	}
}

func (a *APU) stepLengthCounter(lc *LengthCounter) {
	if lc.Enabled && !lc.Halt && lc.Value > 0 {
		lc.Value--
	}
}

func (a *APU) stepSweep(pulse *PulseChannel, sweep *SweepUnit, isChannel1 bool) {
	switch {
	case sweep.Reload:
		sweep.Counter = sweep.Period
		sweep.Reload = false
		if sweep.Enabled && sweep.Period == 0 {
			a.performSweep(pulse, sweep, isChannel1)
		}
	case sweep.Counter > 0:
		sweep.Counter--
	default:
		sweep.Counter = sweep.Period
		if sweep.Enabled {
			a.performSweep(pulse, sweep, isChannel1)
		}
	}
}

// performSweep retunes a pulse channel's timer period. Pulse 1's negate
// mode uses one's-complement subtraction (an extra -1 versus Pulse 2's
// two's-complement), a quirk of how the two channels wire the same sweep
// hardware.
func (a *APU) performSweep(pulse *PulseChannel, sweep *SweepUnit, isChannel1 bool) {
	target := sweepTarget(pulse.TimerValue, sweep, isChannel1)
	if target >= 8 && target <= 0x7FF {
		pulse.TimerValue = target
	}
}

func (a *APU) isSweepMuting(pulse *PulseChannel, sweep *SweepUnit) bool {
	if !sweep.Enabled {
		return false
	}
	change := pulse.TimerValue >> sweep.Shift
	if sweep.Negate && change > pulse.TimerValue {
		return true // one's/two's complement subtraction would underflow
	}
	target := sweepTarget(pulse.TimerValue, sweep, false)
	return target < 8 || target > 0x7FF
}

func sweepTarget(timerValue uint16, sweep *SweepUnit, isChannel1 bool) uint16 {
	change := timerValue >> sweep.Shift
	if !sweep.Negate {
		return timerValue + change
	}
	if isChannel1 {
		return timerValue - change - 1
	}
	return timerValue - change
}

func (a *APU) getPulseOutput(pulse *PulseChannel) uint8 {
	if !pulse.Enabled || pulse.Length.Value == 0 {
		return 0
	}
	if pulse.TimerValue < 8 || pulse.TimerValue > 0x7FF {
		return 0
	}
	if a.isSweepMuting(pulse, &pulse.Sweep) {
		return 0
	}
	if dutyCycles[pulse.DutyCycle][pulse.Sequence] == 0 {
		return 0
	}
	if pulse.Envelope.Constant {
		return pulse.Volume
	}
	return pulse.Envelope.Counter
}

func (a *APU) getTriangleOutput() uint8 {
	tri := &a.Triangle
	if !tri.Enabled || tri.Length.Value == 0 || tri.LinearCounter == 0 {
		return 0
	}
	return triangleSequence[tri.Sequence]
}

func (a *APU) getNoiseOutput() uint8 {
	n := &a.Noise
	if !n.Enabled || n.Length.Value == 0 || n.ShiftReg&1 != 0 {
		return 0
	}
	if n.Envelope.Constant {
		return n.Volume
	}
	return n.Envelope.Counter
}

// getDMCOutput reports the 7-bit delta output counter. Actual sample
// playback is out of scope; this keeps the mixer's TND term numerically
// sane even though no PCM audio plays. ($4015's DMC-active bit is driven by
// CurrentLength, not by this value.)
func (a *APU) getDMCOutput() uint8 {
	if !a.DMC.Enabled {
		return 0
	}
	return a.DMC.LoadCounter
}

// mixChannels combines the five channels via the NES's published non-linear
// mixing formula (pulse and triangle/noise/DMC are summed independently,
// each through its own closed-form non-linear curve, then added).
func (a *APU) mixChannels() float32 {
	pulseSum := a.getPulseOutput(&a.Pulse1) + a.getPulseOutput(&a.Pulse2)
	var pulseOut float32
	if pulseSum > 0 {
		pulseOut = 95.88 / (8128.0/float32(pulseSum) + 100.0)
	}

	tndSum := float32(a.getTriangleOutput())/8227.0 +
		float32(a.getNoiseOutput())/12241.0 +
		float32(a.getDMCOutput())/22638.0
	var tndOut float32
	if tndSum > 0 {
		tndOut = 159.79 / (1.0/tndSum + 100.0)
	}

	// The mixer's output lands in [0, 1]; rescale to a signed sample.
	sample := (pulseOut+tndOut)*2.0 - 1.0
	switch {
	case sample > 1.0:
		return 1.0
	case sample < -1.0:
		return -1.0
	default:
		return sample
	}
}

func (a *APU) stepLinearCounter() {
	tri := &a.Triangle
	if tri.LinearControl {
		tri.LinearCounter = tri.LinearReload
	} else if tri.LinearCounter > 0 {
		tri.LinearCounter--
	}
	if !tri.Length.Halt {
		tri.LinearControl = false
	}
}

// frameSequencerStep applies one frame-sequencer tick: quarter-frame clocks
// envelopes and the triangle's linear counter, half-frame additionally
// clocks length counters and sweep units. The 4-step and 5-step sequences
// in apu.go both reduce to calls into this.
func (a *APU) frameSequencerStep(quarter, half bool) {
	if quarter {
		a.stepEnvelopes()
		a.stepLinearCounter()
	}
	if half {
		a.stepLengthCounters()
		a.stepSweeps()
	}
}
