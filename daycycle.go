package main

const (
	DayDuration   = 60.0 // seconds
	NightDuration = 40.0
)

// DayCycle alternates day and night on the simulation clock. Every night
// start fires onNight with the current day number; the day number increases
// when the following day begins.
type DayCycle struct {
	clock     Clock
	dayNumber int
	isDay     bool
	start     float64
	onNight   func(day int)
}

func NewDayCycle(clock Clock, onNight func(day int)) *DayCycle {
	c := &DayCycle{clock: clock, onNight: onNight}
	c.Reset()
	return c
}

// Reset returns to the morning of day one
func (c *DayCycle) Reset() {
	c.dayNumber = 1
	c.isDay = true
	c.start = c.clock.Now()
}

func (c *DayCycle) DayNumber() int { return c.dayNumber }

func (c *DayCycle) IsDay() bool { return c.isDay }

func (c *DayCycle) StartTime() float64 { return c.start }

// Duration is the length of the current phase
func (c *DayCycle) Duration() float64 {
	if c.isDay {
		return DayDuration
	}
	return NightDuration
}

// Update advances to the next phase once the current one has run its course
func (c *DayCycle) Update() {
	if c.clock.Now()-c.start >= c.Duration() {
		c.Advance()
	}
}

// Advance switches phase immediately
func (c *DayCycle) Advance() {
	c.start = c.clock.Now()
	if c.isDay {
		c.isDay = false
		if c.onNight != nil {
			c.onNight(c.dayNumber)
		}
		return
	}
	c.isDay = true
	c.dayNumber++
}
