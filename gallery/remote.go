package gallery

import (
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/carousel"
)

// ErrStopped is returned by Remote.Move once the program has exited.
var ErrStopped = errors.New("gallery is not running")

// Sender delivers messages into a running program; *tea.Program is one.
type Sender interface {
	Send(msg tea.Msg)
}

// Remote lets other goroutines drive the gallery. Moves are forwarded as
// MoveMsg so the model applies them on its own loop; state is read from the
// board the model publishes to.
type Remote struct {
	sender Sender
	board  *StateBoard

	done chan struct{}
	once sync.Once
}

// NewRemote wires a remote to a program and the board its model publishes to.
func NewRemote(sender Sender, board *StateBoard) *Remote {
	return &Remote{sender: sender, board: board, done: make(chan struct{})}
}

// Stop marks the program as exited. tea.Program.Send drops messages once the
// program is gone, so later moves fail with ErrStopped instead.
func (r *Remote) Stop() {
	r.once.Do(func() { close(r.done) })
}

// Move validates direction and queues it for the model.
func (r *Remote) Move(direction int) error {
	if err := carousel.ValidateDirection(direction); err != nil {
		return err
	}
	select {
	case <-r.done:
		return ErrStopped
	default:
	}
	r.sender.Send(MoveMsg{Direction: direction})
	return nil
}

// State returns the last published snapshot.
func (r *Remote) State() carousel.Snapshot {
	return r.board.Snapshot()
}
