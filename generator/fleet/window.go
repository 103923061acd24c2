package fleet

// WindowSize is the number of temperature samples kept per device.
const WindowSize = 4

// TemperatureWindow is a fixed-capacity ring of the most recent readings.
// Appending to a full window evicts the oldest sample.
type TemperatureWindow struct {
	samples [WindowSize]float64
	next    int
	count   int
}

func (w *TemperatureWindow) Append(v float64) {
	w.samples[w.next] = v
	w.next = (w.next + 1) % WindowSize
	if w.count < WindowSize {
		w.count++
	}
}

func (w *TemperatureWindow) Len() int {
	return w.count
}

func (w *TemperatureWindow) Full() bool {
	return w.count == WindowSize
}

// Values returns the samples oldest first.
func (w *TemperatureWindow) Values() []float64 {
	out := make([]float64, 0, w.count)
	start := (w.next - w.count + WindowSize) % WindowSize
	for i := 0; i < w.count; i++ {
		out = append(out, w.samples[(start+i)%WindowSize])
	}
	return out
}

// AllAbove reports whether the window is full and every sample exceeds threshold.
func (w *TemperatureWindow) AllAbove(threshold float64) bool {
	if !w.Full() {
		return false
	}
	for _, v := range w.samples {
		if v <= threshold {
			return false
		}
	}
	return true
}
