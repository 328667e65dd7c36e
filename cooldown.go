package main

// Clock reports simulation time in seconds
type Clock interface {
	Now() float64
}

// SimClock is advanced by the game loop once per tick
type SimClock struct {
	now float64
}

func (c *SimClock) Now() float64 { return c.now }

// Advance moves the clock forward by dt seconds
func (c *SimClock) Advance(dt float64) { c.now += dt }

// Cooldown gates a repeatable action to at most once per duration.
// A new cooldown is ready immediately.
type Cooldown struct {
	clock    Clock
	duration float64
	last     float64
	armed    bool
}

func NewCooldown(clock Clock, duration float64) *Cooldown {
	return &Cooldown{clock: clock, duration: duration}
}

// Ready reports whether the duration has elapsed since the last Reset
func (c *Cooldown) Ready() bool {
	return !c.armed || c.clock.Now()-c.last >= c.duration
}

// Reset starts a new cooldown period from the current time
func (c *Cooldown) Reset() {
	c.last = c.clock.Now()
	c.armed = true
}

// Remaining returns the seconds until Ready, zero if already ready
func (c *Cooldown) Remaining() float64 {
	if c.Ready() {
		return 0
	}
	return c.duration - (c.clock.Now() - c.last)
}

func (c *Cooldown) Duration() float64 { return c.duration }
