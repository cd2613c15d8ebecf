package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/robotalks/rtk.go/pkg/app"
	"github.com/robotalks/rtk.go/pkg/app/actuator"
	"github.com/robotalks/rtk.go/pkg/drivers/sim"
)

var (
	temperatureMV = 550.0
	luminosityMV  = 1650.0
	noise         = 8
)

func init() {
	app.SetupFlags()
	actuator.SetupFlags()
	flag.Float64Var(&temperatureMV, "temperature-mv", temperatureMV, "Simulated temperature sensor output.")
	flag.Float64Var(&luminosityMV, "luminosity-mv", luminosityMV, "Simulated LDR divider output.")
	flag.IntVar(&noise, "noise", noise, "Simulated ADC noise amplitude.")
}

func main() {
	flag.Parse()

	conf := actuator.Default()
	adc := sim.NewADC(time.Now().UnixNano())
	adc.Noise = uint16(noise)
	adc.SetMillivolts(conf.TemperatureChannel, temperatureMV)
	adc.SetMillivolts(conf.LuminosityChannel, luminosityMV)

	a := actuator.New(conf, adc, sim.NewPWM())
	if err := app.NewHost().Run(context.Background(), a.Main); err != nil {
		log.Fatalln(err)
	}
}
