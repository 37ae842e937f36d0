package scrub

// Notifier receives scrub lifecycle notifications. Each method is called at
// most once per state transition, on the engine's goroutine.
type Notifier interface {
	BeginScrub(t float64)
	Scrub(t float64)
	EndScrub(t float64)
}

// NotifierFuncs adapts plain functions to Notifier. Nil fields are skipped.
type NotifierFuncs struct {
	OnBeginScrub func(t float64)
	OnScrub      func(t float64)
	OnEndScrub   func(t float64)
}

func (f NotifierFuncs) BeginScrub(t float64) {
	if f.OnBeginScrub != nil {
		f.OnBeginScrub(t)
	}
}

func (f NotifierFuncs) Scrub(t float64) {
	if f.OnScrub != nil {
		f.OnScrub(t)
	}
}

func (f NotifierFuncs) EndScrub(t float64) {
	if f.OnEndScrub != nil {
		f.OnEndScrub(t)
	}
}

type nopNotifier struct{}

func (nopNotifier) BeginScrub(float64) {}
func (nopNotifier) Scrub(float64)      {}
func (nopNotifier) EndScrub(float64)   {}
