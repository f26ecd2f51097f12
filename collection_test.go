package tableview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) listen(e Event) { r.events = append(r.events, e) }

func (r *eventRecorder) kinds() []EventKind {
	kinds := make([]EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

func TestCollection_Add(t *testing.T) {
	ada := person("1", "Ada", "Lovelace")
	grace := person("2", "Grace", "Hopper")
	c := NewCollection(ada)

	var rec eventRecorder
	c.On(EventAdd, rec.listen)

	c.Add(grace, nil, ada, person("2", "Duplicate", "ID"))

	require.Len(t, rec.events, 1, "only grace is new")
	assert.Same(t, grace, rec.events[0].Record)
	assert.Equal(t, 1, rec.events[0].Index)
	assert.Equal(t, []*Record{ada, grace}, c.Records())
	assert.Same(t, grace, c.Get("2"))
	assert.Equal(t, 1, c.IndexOf(grace))
	assert.Nil(t, c.At(2))
}

func TestCollection_Remove(t *testing.T) {
	ada := person("1", "Ada", "Lovelace")
	grace := person("2", "Grace", "Hopper")
	alan := person("3", "Alan", "Turing")
	c := NewCollection(ada, grace, alan)

	var rec eventRecorder
	c.On(EventRemove, rec.listen)

	c.Remove(grace, person("4", "Not", "Contained"), alan)

	require.Len(t, rec.events, 2)
	assert.Same(t, grace, rec.events[0].Record)
	assert.Equal(t, 1, rec.events[0].Index)
	assert.Same(t, alan, rec.events[1].Record)
	assert.Equal(t, 1, rec.events[1].Index, "index after grace was removed")
	assert.Equal(t, []*Record{ada}, c.Records())
}

func TestCollection_Reset(t *testing.T) {
	ada := person("1", "Ada", "Lovelace")
	grace := person("2", "Grace", "Hopper")
	c := NewCollection(ada)

	var rec eventRecorder
	c.On(EventReset, rec.listen)
	c.On(EventAdd, rec.listen)

	c.Reset(grace, grace)

	assert.Equal(t, []EventKind{EventReset}, rec.kinds())
	assert.Equal(t, []*Record{ada}, rec.events[0].Previous)
	assert.Nil(t, rec.events[0].Record)
	assert.Equal(t, []*Record{grace}, c.Records())
}

func TestSubscription_Unsubscribe(t *testing.T) {
	c := NewCollection()
	var rec eventRecorder
	sub := c.On(EventAdd, rec.listen)
	require.Equal(t, 1, c.numListeners(EventAdd))

	sub.Unsubscribe()
	sub.Unsubscribe()
	(*Subscription)(nil).Unsubscribe()

	c.Add(person("1", "Ada", "Lovelace"))
	assert.Empty(t, rec.events)
	assert.Equal(t, 0, c.numListeners(EventAdd))
}

func TestEmitter_ListenerMayUnsubscribeItself(t *testing.T) {
	c := NewCollection()
	calls := 0
	var sub *Subscription
	sub = c.On(EventAdd, func(Event) {
		calls++
		sub.Unsubscribe()
	})

	c.Add(person("1", "Ada", "Lovelace"), person("2", "Grace", "Hopper"))
	assert.Equal(t, 1, calls)
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "add", EventAdd.String())
	assert.Equal(t, "remove", EventRemove.String())
	assert.Equal(t, "reset", EventReset.String())
	assert.Equal(t, "change", EventChange.String())
	assert.Equal(t, "EventKind(99)", EventKind(99).String())
}
