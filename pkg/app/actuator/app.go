// Package actuator is the sensor acquisition and actuation application.
//
// Two acquisition tasks sample the temperature and luminosity channels of a
// shared ADC, a head task collects both readings and forwards them to two
// actuation tasks driving a shared PWM timer. Each hop is a handshake.Slot,
// so a channel carries four semaphores: acquisition ready/done and
// actuation ready/done.
package actuator

import (
	"github.com/golang/glog"

	"github.com/robotalks/rtk.go/pkg/drivers"
	"github.com/robotalks/rtk.go/pkg/handshake"
	"github.com/robotalks/rtk.go/pkg/kernel"
)

// Reading is one pair of values seen by the head task.
type Reading struct {
	Seq         uint64
	Tick        uint64
	Temperature float64
	Luminosity  float64
}

// App holds the application state shared by its tasks.
type App struct {
	Config *Config
	ADC    drivers.ADC
	PWM    drivers.PWM
	// OnReading is invoked by the head task for every reading.
	OnReading func(Reading)

	adcMtx *kernel.Semaphore
	pwmMtx *kernel.Semaphore

	tempIn  *handshake.Slot[float64]
	luxIn   *handshake.Slot[float64]
	tempOut *handshake.Slot[float64]
	luxOut  *handshake.Slot[float64]

	seq uint64
}

// New creates the application. conf may be nil for defaults.
func New(conf *Config, adc drivers.ADC, pwm drivers.PWM) *App {
	if conf == nil {
		conf = NewConfig()
	}
	return &App{Config: conf, ADC: adc, PWM: pwm}
}

// Main registers the tasks and selects preemptive scheduling. It is meant
// to be passed to kernel.Start.
func (a *App) Main(k *kernel.Kernel) bool {
	a.adcMtx = k.MustNewSemaphore(1, 1)
	a.pwmMtx = k.MustNewSemaphore(1, 1)
	a.tempIn = handshake.NewSlot[float64](k)
	a.luxIn = handshake.NewSlot[float64](k)
	a.tempOut = handshake.NewSlot[float64](k)
	a.luxOut = handshake.NewSlot[float64](k)

	tasks := []struct {
		name  string
		entry kernel.TaskFunc
	}{
		{"head", a.head},
		{"temperature_adc", a.acquire(a.Config.TemperatureChannel, Temperature, a.tempIn)},
		{"luminosity_adc", a.acquire(a.Config.LuminosityChannel, Luminosity, a.luxIn)},
		{"temperature_pwm", a.actuate(a.Config.TemperaturePWM, TemperatureDuty, a.tempOut)},
		{"luminosity_pwm", a.actuate(a.Config.LuminosityPWM, LuminosityDuty, a.luxOut)},
	}
	for _, task := range tasks {
		if _, err := k.AddWith(task.entry, kernel.TaskOptions{Name: task.name}); err != nil {
			glog.Errorf("add task %s: %v", task.name, err)
			k.Panic(kernel.PanicApplication)
		}
	}
	return true
}

func (a *App) head(k *kernel.Kernel) {
	for {
		lux := a.luxIn.Take()
		temp := a.tempIn.Take()
		a.luxOut.Put(lux)
		a.tempOut.Put(temp)

		a.seq++
		r := Reading{Seq: a.seq, Tick: k.Ticks(), Temperature: temp, Luminosity: lux}
		glog.Infof("temp: %.6f", r.Temperature)
		glog.Infof("lux: %.6f", r.Luminosity)
		if fn := a.OnReading; fn != nil {
			fn(r)
		}
	}
}

func (a *App) acquire(channel uint8, convert func([]uint16) float64, out *handshake.Slot[float64]) kernel.TaskFunc {
	return func(k *kernel.Kernel) {
		samples := make([]uint16, a.Config.Samples)
		for {
			a.adcMtx.Wait()
			for n := range samples {
				samples[n] = a.ADC.Read(channel)
			}
			a.adcMtx.Signal()
			out.Put(convert(samples))
			k.Delay(a.Config.CaptureDelay)
		}
	}
}

func (a *App) actuate(channel uint8, duty func(float64) uint16, in *handshake.Slot[float64]) kernel.TaskFunc {
	return func(k *kernel.Kernel) {
		for {
			v := in.Take()
			a.pwmMtx.Wait()
			a.PWM.Set(channel, duty(v))
			a.pwmMtx.Signal()
		}
	}
}
