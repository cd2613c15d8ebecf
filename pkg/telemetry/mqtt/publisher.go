package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rtk.go/pkg/telemetry"
)

// Topic suffixes under <device>/.
const (
	TopicMeta   = "meta"
	TopicStatus = "status"
	TopicCmd    = "cmd"
	TopicReply  = "reply"
)

// DefaultInterval is the default status publishing period.
const DefaultInterval = time.Second

// Publisher publishes the status of a kernel and serves remote commands.
type Publisher struct {
	Queue    *Queue
	Source   telemetry.Source
	Target   telemetry.Target
	Interval time.Duration

	meta []byte
}

// NewPublisher creates a Publisher connecting to brokerURL.
func NewPublisher(brokerURL string, meta telemetry.Meta, target telemetry.Target) (*Publisher, error) {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+meta.Device+"/"+TopicMeta, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("rtk:" + meta.Device)
	}
	p := &Publisher{
		Queue:    NewQueue(opts, topicPrefix),
		Source:   telemetry.Source{Device: meta.Device, BootID: meta.BootID},
		Target:   target,
		Interval: DefaultInterval,
		meta:     metaJSON,
	}
	p.Queue.OnConnect = func(*Queue) { p.onConnected() }
	return p, nil
}

// Name implements framework.Named.
func (p *Publisher) Name() string {
	return "mqtt"
}

func (p *Publisher) topic(suffix string) string {
	return p.Source.Device + "/" + suffix
}

// Run implements framework.Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.topic(TopicCmd), func(_ string, payload []byte) {
		p.handleCmd(ctx, payload)
	})
	p.Queue.Connect()
	defer p.Queue.Close()

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			sub.Close()
			p.Queue.PubWith(p.topic(TopicMeta), nil, 1, true).WaitTimeout(time.Second)
			return nil
		case <-ticker.C:
			if err := p.publishStatus(ctx); err != nil {
				glog.V(2).Infof("status not published: %v", err)
			}
		}
	}
}

func (p *Publisher) onConnected() {
	p.Queue.PubWith(p.topic(TopicMeta), p.meta, 1, true)
}

func (p *Publisher) publishStatus(ctx context.Context) error {
	status, err := p.Source.Snapshot(ctx, p.Target)
	if err != nil {
		return err
	}
	data, err := telemetry.Encode(status)
	if err != nil {
		return err
	}
	p.Queue.Pub(p.topic(TopicStatus), data)
	return nil
}

func (p *Publisher) handleCmd(ctx context.Context, payload []byte) {
	reply, err := p.Source.HandlePacket(ctx, p.Target, payload)
	if err != nil {
		glog.Warningf("bad command: %v", err)
		return
	}
	p.Queue.Pub(p.topic(TopicReply), reply)
}
