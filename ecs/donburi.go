package ecs

import (
	"github.com/phanxgames/tempo"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// AddedEvent reports that Child was added under Parent.
type AddedEvent struct {
	Parent    *tempo.Node
	Child     *tempo.Node
	ClassName string
}

// NodeEvent is a named event raised by Source.
type NodeEvent struct {
	Name   string
	Kind   tempo.EventKind
	Source *tempo.Node
}

// AddedEventType is the Donburi event type for add-to-parent notifications.
var AddedEventType = events.NewEventType[AddedEvent]()

// NodeEventType is the Donburi event type for named node events.
var NodeEventType = events.NewEventType[NodeEvent]()

type donburiHandler struct {
	world donburi.World
}

// NewDonburiHandler creates an AdvanceHandler backed by a Donburi world.
// Events are published to AddedEventType and NodeEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiHandler(world donburi.World) tempo.AdvanceHandler {
	return &donburiHandler{world: world}
}

func (h *donburiHandler) OnAddToParent(parent, child *tempo.Node, className string) {
	AddedEventType.Publish(h.world, AddedEvent{Parent: parent, Child: child, ClassName: className})
}

func (h *donburiHandler) DispatchEvent(name string, kind tempo.EventKind, source *tempo.Node) {
	NodeEventType.Publish(h.world, NodeEvent{Name: name, Kind: kind, Source: source})
}
