// Package event provides the synchronous message bus that connects the
// navigation engine to the rest of globenav.
//
// # Event Topics
//
// Events use hierarchical topics with dot notation:
//
//	view.changed       - The camera moved
//	redraw.requested   - The engine or scheduler asked for a repaint
//	config.reloaded    - A config file change was applied or rejected
//	focus.changed      - The window gained or lost input focus
//
// # Wildcard Patterns
//
// Subscriptions support wildcard patterns:
//
//	view.*     - matches exactly one segment after "view"
//	**         - matches every topic
//
// # Delivery
//
// Publish runs every matching handler on the caller's goroutine, in
// subscription order, before returning. A panicking handler is recovered
// and counted; the remaining handlers still run.
//
// # Usage
//
//	bus := event.NewBus()
//	sub, _ := bus.Subscribe(event.TopicViewChanged, func(ev event.Event) {
//		v := ev.Payload.(event.ViewChanged)
//		fmt.Println(v.Center)
//	})
//	defer bus.Unsubscribe(sub.ID)
//
//	bus.Publish(event.NewEvent(event.TopicViewChanged, event.ViewChanged{}, "engine"))
package event
