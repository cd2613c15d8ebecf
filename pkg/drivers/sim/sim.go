// Package sim provides simulated peripherals.
package sim

import (
	"math/rand"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/rtk.go/pkg/drivers"
)

// ADC simulates a converter returning a configured value per channel with
// optional uniform noise.
type ADC struct {
	Noise uint16

	lock   sync.Mutex
	values map[uint8]uint16
	reads  map[uint8]int
	rnd    *rand.Rand
}

// NewADC creates an ADC with a seeded noise source.
func NewADC(seed int64) *ADC {
	return &ADC{
		values: make(map[uint8]uint16),
		reads:  make(map[uint8]int),
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

// SetValue sets the nominal conversion of a channel.
func (a *ADC) SetValue(channel uint8, value uint16) *ADC {
	a.lock.Lock()
	a.values[channel] = value
	a.lock.Unlock()
	return a
}

// SetMillivolts sets the nominal conversion from an input voltage.
func (a *ADC) SetMillivolts(channel uint8, mv float64) *ADC {
	return a.SetValue(channel, uint16(mv*drivers.ADCMax/3300+0.5))
}

// Reads gets the number of conversions done on a channel.
func (a *ADC) Reads(channel uint8) int {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.reads[channel]
}

// Read implements drivers.ADC.
func (a *ADC) Read(channel uint8) uint16 {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.reads[channel]++
	v := int(a.values[channel])
	if a.Noise > 0 {
		v += a.rnd.Intn(int(a.Noise)*2+1) - int(a.Noise)
	}
	if v < 0 {
		v = 0
	} else if v > drivers.ADCMax {
		v = drivers.ADCMax
	}
	return uint16(v)
}

// PWM records duty cycles.
type PWM struct {
	// OnSet is invoked after each update, outside the lock.
	OnSet func(channel uint8, duty uint16)

	lock    sync.Mutex
	duty    map[uint8]uint16
	updates map[uint8]int
}

// NewPWM creates a PWM with all channels at 0.
func NewPWM() *PWM {
	return &PWM{
		duty:    make(map[uint8]uint16),
		updates: make(map[uint8]int),
	}
}

// Set implements drivers.PWM.
func (p *PWM) Set(channel uint8, duty uint16) {
	if duty >= drivers.PWMPeriod {
		duty = drivers.PWMPeriod - 1
	}
	p.lock.Lock()
	p.duty[channel] = duty
	p.updates[channel]++
	p.lock.Unlock()
	glog.V(3).Infof("PWM[%d] = %d", channel, duty)
	if fn := p.OnSet; fn != nil {
		fn(channel, duty)
	}
}

// Duty gets the current duty of a channel.
func (p *PWM) Duty(channel uint8) uint16 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.duty[channel]
}

// Updates gets the number of updates of a channel.
func (p *PWM) Updates(channel uint8) int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.updates[channel]
}
