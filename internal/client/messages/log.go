package messages

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/minuend/internal/client/models"
)

// Greeting is the message shown before anything has been dispatched.
const Greeting = "Howdy, Commander! Do something..."

// Message is the content of the log's single slot.
type Message interface {
	Kind() Kind
}

type CostRow struct {
	Resource models.Resource
	Amount   int
	Icon     string
}

type CostMessage struct {
	Title string
	Rows  []CostRow
}

type ErrorMessage struct {
	Text string
}

type InfoMessage struct {
	Text string
}

func (CostMessage) Kind() Kind  { return KindCost }
func (ErrorMessage) Kind() Kind { return KindError }
func (InfoMessage) Kind() Kind  { return KindInfo }

// Dispatcher is the write side of the log.
type Dispatcher interface {
	Dispatch(a Action) bool
}

// Log holds the one live message. Safe for concurrent use; the last
// dispatch wins.
type Log struct {
	mu        sync.Mutex
	current   Message
	listeners []func(Message)
}

var _ Dispatcher = (*Log)(nil)

// NewLog returns a log holding the greeting.
func NewLog() *Log {
	return &Log{current: InfoMessage{Text: Greeting}}
}

// Current returns the message in the slot.
func (l *Log) Current() Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Subscribe registers fn to be called with every new message.
func (l *Log) Subscribe(fn func(Message)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Dispatch replaces the current message and reports whether it did.
func (l *Log) Dispatch(a Action) bool {
	msg, ok := reduce(a)
	if !ok {
		return false
	}

	l.mu.Lock()
	l.current = msg
	listeners := append([]func(Message){}, l.listeners...)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(msg)
	}
	return true
}

func reduce(a Action) (Message, bool) {
	switch a := a.(type) {
	case CostAction:
		msg := CostMessage{Title: a.Title}
		for _, r := range a.Data.Kinds() {
			msg.Rows = append(msg.Rows, CostRow{Resource: r, Amount: a.Data[r], Icon: r.Icon()})
		}
		return msg, true
	case ErrorAction:
		return ErrorMessage{Text: a.Text}, true
	case InfoAction:
		return InfoMessage{Text: a.Text}, true
	default:
		return nil, false
	}
}

// Render writes m as plain text.
func Render(w io.Writer, m Message) error {
	var err error
	switch m := m.(type) {
	case CostMessage:
		if _, err = fmt.Fprintf(w, "%s:\n", m.Title); err != nil {
			return err
		}
		for _, r := range m.Rows {
			if _, err = fmt.Fprintf(w, "  [%s] %s: %d\n", r.Icon, r.Resource, r.Amount); err != nil {
				return err
			}
		}
	case ErrorMessage:
		_, err = fmt.Fprintf(w, "! %s\n", m.Text)
	case InfoMessage:
		_, err = fmt.Fprintln(w, m.Text)
	}
	return err
}
