// Package cleanretained implements the mass-delete protocol from spec
// §4.8: subscribe to a filter, wait for the retained burst to finish
// arriving, then publish an empty retained payload to every observed
// (or, in interactive mode, every known) topic in the subtree.
//
// Grounded on the publish/subscribe wiring in
// illmade-knight-go-dataflow/pkg/mqttconverter/mqttconsumer.go, adapted
// from a single long-lived subscription into a bounded discovery pass
// with an idle-window completion signal.
package cleanretained

import (
	"time"

	"github.com/mqttui/mqttui/internal/history"
)

// idleWindow is how long the discovery pass waits without a new
// retained message before deciding the broker has finished delivering
// the retained set for the requested filter (spec §4.8 step 1).
const idleWindow = 500 * time.Millisecond

// Publisher is the minimal surface cleanretained needs from the broker
// connection, satisfied by *mqttconn.Client.
type Publisher interface {
	Publish(topic string, qos history.QoS, retain bool, body []byte) error
}

// Result summarizes one clean-retained run.
type Result struct {
	Attempted int
	Confirmed int
	Failures  []Failure
}

// Failure records one topic whose clear-publish did not succeed.
type Failure struct {
	Topic string
	Err   error
}

// CleanSubtree publishes an empty retained message to every topic in
// topics, per spec §4.8 step 3 (interactive mode passes every topic in
// the subtree; the standalone subcommand passes only topics actually
// observed as retained). A publish failure is recorded and does not
// stop the remaining topics.
func CleanSubtree(pub Publisher, topics []string) Result {
	res := Result{Attempted: len(topics)}
	for _, t := range topics {
		if err := pub.Publish(t, history.QoSAtLeastOnce, true, nil); err != nil {
			res.Failures = append(res.Failures, Failure{Topic: t, Err: err})
			continue
		}
		res.Confirmed++
	}
	return res
}

// WaitForRetainedBurst blocks until no new retained message has arrived
// for idleWindow, or until the deadline elapses, returning the topics
// observed as retained. The caller's subscription handler sends the
// topic of every retained message it sees on seen; this function only
// tracks the time between those sends.
func WaitForRetainedBurst(seen <-chan string, deadline time.Duration) []string {
	var topics []string
	timer := time.NewTimer(idleWindow)
	defer timer.Stop()

	overall := time.NewTimer(deadline)
	defer overall.Stop()

	for {
		select {
		case topic, ok := <-seen:
			if !ok {
				return topics
			}
			topics = append(topics, topic)
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(idleWindow)
		case <-timer.C:
			return topics
		case <-overall.C:
			return topics
		}
	}
}
