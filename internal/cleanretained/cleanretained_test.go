package cleanretained_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mqttui/mqttui/internal/cleanretained"
	"github.com/mqttui/mqttui/internal/history"
)

type fakePublisher struct {
	fail map[string]bool
	sent []string
}

func (f *fakePublisher) Publish(topic string, qos history.QoS, retain bool, body []byte) error {
	f.sent = append(f.sent, topic)
	if f.fail[topic] {
		return errors.New("publish rejected")
	}
	return nil
}

func TestCleanSubtreeAllSucceed(t *testing.T) {
	pub := &fakePublisher{}
	res := cleanretained.CleanSubtree(pub, []string{"a", "a/b", "a/c"})
	assert.Equal(t, 3, res.Attempted)
	assert.Equal(t, 3, res.Confirmed)
	assert.Empty(t, res.Failures)
	assert.Equal(t, []string{"a", "a/b", "a/c"}, pub.sent)
}

func TestCleanSubtreeContinuesAfterFailure(t *testing.T) {
	pub := &fakePublisher{fail: map[string]bool{"a/b": true}}
	res := cleanretained.CleanSubtree(pub, []string{"a", "a/b", "a/c"})
	assert.Equal(t, 3, res.Attempted)
	assert.Equal(t, 2, res.Confirmed)
	assert.Len(t, res.Failures, 1)
	assert.Equal(t, "a/b", res.Failures[0].Topic)
	// The failing publish still ran; only the count distinguishes it.
	assert.Equal(t, []string{"a", "a/b", "a/c"}, pub.sent)
}

func TestWaitForRetainedBurstStopsOnIdle(t *testing.T) {
	seen := make(chan string, 4)
	seen <- "a"
	seen <- "a/b"

	start := time.Now()
	topics := cleanretained.WaitForRetainedBurst(seen, 5*time.Second)
	elapsed := time.Since(start)

	assert.ElementsMatch(t, []string{"a", "a/b"}, topics)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestWaitForRetainedBurstRespectsDeadline(t *testing.T) {
	seen := make(chan string)
	start := time.Now()
	topics := cleanretained.WaitForRetainedBurst(seen, 100*time.Millisecond)
	elapsed := time.Since(start)

	assert.Empty(t, topics)
	assert.Less(t, elapsed, time.Second)
}
