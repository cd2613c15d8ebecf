package main

import (
	"context"
	"flag"
	"log"

	"github.com/robotalks/rtk.go/pkg/app"
	"github.com/robotalks/rtk.go/pkg/app/hello"
)

var rounds int

func init() {
	app.SetupFlags()
	flag.IntVar(&rounds, "rounds", rounds, "Iterations per task, 0 runs forever.")
}

func main() {
	flag.Parse()
	a := hello.New()
	a.Rounds = rounds
	if err := app.NewHost().Run(context.Background(), a.Main); err != nil {
		log.Fatalln(err)
	}
}
