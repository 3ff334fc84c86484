// Package bus is the in-process pub/sub spine the services talk over.
// Topics are string paths; messages can be retained so late subscribers
// see the last value; per-subscriber queues are bounded and drop the
// oldest message on overflow.
package bus

import "sync"

// Topic is a path of string tokens. The token "+" matches any single
// token in a subscription.
type Topic []string

// Message is one bus datum.
type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
	ReplyTo  Topic
}

// Subscription is one registered listener.
type Subscription struct {
	topic Topic
	ch    chan *Message
	bus   *Bus
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.bus.unsubscribe(s) }

type node struct {
	children map[string]*node
	subs     []*Subscription
	retained *Message
}

// Bus routes messages between subscribers.
type Bus struct {
	mu   sync.RWMutex
	root *node
	qLen int
}

// New creates a bus with the given per-subscription queue length.
func New(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{root: &node{}, qLen: queueLen}
}

// Subscribe registers a listener for a topic, which may contain "+"
// wildcards. Retained messages matching the topic are delivered
// immediately.
func (b *Bus) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{topic: topic, ch: make(chan *Message, b.qLen), bus: b}

	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	for _, tok := range topic {
		if n.children == nil {
			n.children = make(map[string]*node)
		}
		child, ok := n.children[tok]
		if !ok {
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	n.subs = append(n.subs, sub)

	deliverRetained(b.root, topic, sub)
	return sub
}

// deliverRetained walks the retained tree along topic, following every
// concrete child for "+" tokens, and queues the retained message at each
// full match.
func deliverRetained(n *node, topic Topic, sub *Subscription) {
	if len(topic) == 0 {
		if n.retained != nil {
			select {
			case sub.ch <- n.retained:
			default:
			}
		}
		return
	}
	if topic[0] == "+" {
		for _, child := range n.children {
			deliverRetained(child, topic[1:], sub)
		}
		return
	}
	if child, ok := n.children[topic[0]]; ok {
		deliverRetained(child, topic[1:], sub)
	}
}

// Publish delivers a message to every subscription whose topic matches and
// stores it when retained. Publish topics must be concrete (no wildcards).
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	deliver(b.root, msg.Topic, msg)

	if msg.Retained {
		n := b.root
		for _, tok := range msg.Topic {
			if n.children == nil {
				n.children = make(map[string]*node)
			}
			child, ok := n.children[tok]
			if !ok {
				child = &node{}
				n.children[tok] = child
			}
			n = child
		}
		if msg.Payload == nil {
			n.retained = nil
		} else {
			n.retained = msg
		}
	}
}

func deliver(n *node, topic Topic, msg *Message) {
	if len(topic) == 0 {
		for _, sub := range n.subs {
			select {
			case sub.ch <- msg:
			default:
				// Queue full: drop the oldest.
				select {
				case <-sub.ch:
				default:
				}
				select {
				case sub.ch <- msg:
				default:
				}
			}
		}
		return
	}
	if child, ok := n.children[topic[0]]; ok {
		deliver(child, topic[1:], msg)
	}
	if child, ok := n.children["+"]; ok {
		deliver(child, topic[1:], msg)
	}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	var stack []*node
	for _, tok := range sub.topic {
		child, ok := n.children[tok]
		if !ok {
			return
		}
		stack = append(stack, n)
		n = child
	}
	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}
	close(sub.ch)

	// Prune now-empty nodes.
	for i := len(sub.topic) - 1; i >= 0; i-- {
		parent := stack[i]
		key := sub.topic[i]
		child := parent.children[key]
		if len(child.subs) == 0 && len(child.children) == 0 && child.retained == nil {
			delete(parent.children, key)
		} else {
			break
		}
	}
}
