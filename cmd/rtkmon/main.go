package main

import (
	"flag"
	"log"
	"os"
	"reflect"
	"strings"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/rtk.go/pkg/telemetry"
	"github.com/robotalks/rtk.go/pkg/telemetry/mqtt"
	"github.com/robotalks/rtk.go/pkg/telemetry/stream"
)

var (
	mqttURL    = "mqtt://localhost:1883/rtk/"
	replayFile string
)

func init() {
	if val := os.Getenv("RTK_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&replayFile, "replay", replayFile, "Print a recorded status file instead.")
}

func printMsg(prefix string, msg proto.Message) {
	log.Printf("%s[%s] %s", prefix, reflect.Indirect(reflect.ValueOf(msg)).Type().Name(), msg.String())
}

func replay(fn string) {
	f, err := os.Open(fn)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()
	if err := stream.Replay(f, func(msg proto.Message) error {
		printMsg("", msg)
		return nil
	}); err != nil {
		log.Fatalln(err)
	}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	if replayFile != "" {
		replay(replayFile)
		return
	}

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/"+mqtt.TopicMeta) {
			log.Printf("%s: %s", topic, string(payload))
			return
		}
		typed, err := telemetry.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		printMsg(topic+": ", msg)
	}))
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
