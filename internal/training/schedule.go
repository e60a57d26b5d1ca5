package training

import "math"

// Params are the per-epoch keyword parameters handed to step functions,
// for example a learning rate.
type Params map[string]float64

// Get returns the value stored under key, or def when absent.
func (p Params) Get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Schedule maps an epoch index to its parameters.
type Schedule func(epoch int) Params

// Constant schedules the same parameters for every epoch.
func Constant(p Params) Schedule {
	return func(int) Params { return p }
}

// StepDecay multiplies key by factor every `every` epochs, starting from
// initial.
func StepDecay(key string, initial, factor float64, every int) Schedule {
	if every <= 0 {
		every = 1
	}
	return func(epoch int) Params {
		return Params{key: initial * math.Pow(factor, float64(epoch/every))}
	}
}

// Merge combines schedules; later schedules win on key conflicts.
func Merge(schedules ...Schedule) Schedule {
	return func(epoch int) Params {
		out := Params{}
		for _, s := range schedules {
			if s == nil {
				continue
			}
			for k, v := range s(epoch) {
				out[k] = v
			}
		}
		return out
	}
}
