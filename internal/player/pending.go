package player

// Pending is a cancellable deferred action keyed by a generation counter.
// Arm returns a token; the caller schedules a timer and hands the token
// back to Claim when it fires. Any Arm or Cancel in between bumps the
// generation, so a stale timer can never fire its action.
type Pending struct {
	gen   uint64
	armed bool
}

// Arm marks an action pending and returns its claim token
func (p *Pending) Arm() uint64 {
	p.gen++
	p.armed = true
	return p.gen
}

// Cancel invalidates any pending action
func (p *Pending) Cancel() {
	p.gen++
	p.armed = false
}

// Armed reports whether an action is currently pending
func (p *Pending) Armed() bool {
	return p.armed
}

// Claim consumes the pending action if token is still current. It returns
// false for stale tokens, making timer races deterministic.
func (p *Pending) Claim(token uint64) bool {
	if !p.armed || token != p.gen {
		return false
	}
	p.armed = false
	return true
}
