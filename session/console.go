package session

import (
	"sync"
	"time"
)

// Message is one console entry.
type Message struct {
	Seq  uint64
	Text string
	Sent bool // typed by the user rather than received from the engine
	At   time.Time
}

// Console keeps the most recent engine and user messages.
type Console struct {
	mu       sync.Mutex
	messages []Message
	maxLines int
	maxChars int
	seq      uint64
}

// NewConsole creates a console keeping at most maxLines messages of at most
// maxChars characters each. Non-positive limits disable the bound.
func NewConsole(maxLines, maxChars int) *Console {
	return &Console{maxLines: maxLines, maxChars: maxChars}
}

func (c *Console) add(text string, sent bool) {
	if c.maxChars > 0 {
		if r := []rune(text); len(r) > c.maxChars {
			text = string(r[:c.maxChars])
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.messages = append(c.messages, Message{Seq: c.seq, Text: text, Sent: sent, At: time.Now()})
	if c.maxLines > 0 && len(c.messages) > c.maxLines {
		drop := len(c.messages) - c.maxLines
		c.messages = append(c.messages[:0:0], c.messages[drop:]...)
	}
}

// Received records a line read from the engine.
func (c *Console) Received(text string) { c.add(text, false) }

// Sent records a command typed by the user.
func (c *Console) Sent(text string) { c.add(text, true) }

// Messages returns a copy of the kept messages, oldest first.
func (c *Console) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Len returns the number of kept messages.
func (c *Console) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// LastSeq returns the sequence number of the newest message, or zero.
func (c *Console) LastSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}
